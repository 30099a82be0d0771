package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/AndyyVasquez/nutweb-sub000/models"
	"github.com/AndyyVasquez/nutweb-sub000/utils"

	"gorm.io/gorm"
)

var planPrices = map[string]float64{
	"basic":   9.99,
	"premium": 19.99,
	"anual":   179.99,
}

// PaymentService runs the reconciliation state machine: PENDING -> APPROVED
// (token issued) or PENDING -> REJECTED, driven either by a synchronous
// capture or by a webhook delivery. Both triggers tolerate being invoked
// more than once for the same order.
type PaymentService struct {
	db        *gorm.DB
	gateways  map[string]PaymentGateway
	tokens    *SubscriptionService
	hub       *DeviceHub
	sendToken func(to, token string, expiresAt time.Time) error
}

func NewPaymentService(db *gorm.DB, tokens *SubscriptionService, hub *DeviceHub, gateways ...PaymentGateway) *PaymentService {
	byName := make(map[string]PaymentGateway, len(gateways))
	for _, gw := range gateways {
		byName[gw.Name()] = gw
	}
	return &PaymentService{
		db:        db,
		gateways:  byName,
		tokens:    tokens,
		hub:       hub,
		sendToken: utils.SendSubscriptionTokenEmail,
	}
}

// InitiatePayment creates the remote order and the local pending record.
func (s *PaymentService) InitiatePayment(ctx context.Context, clientID uint, planType, gatewayName string) (*models.PaymentOrder, error) {
	amount, ok := planPrices[planType]
	if !ok {
		return nil, ErrMissingFields
	}
	gw, ok := s.gateways[gatewayName]
	if !ok {
		return nil, ErrMissingFields
	}

	var client models.Client
	if err := s.db.First(&client, clientID).Error; err != nil {
		return nil, notFoundOr(err)
	}

	reference := utils.EncodeOrderReference(utils.OrderReference{
		ClientID:  clientID,
		PlanType:  planType,
		Timestamp: time.Now().Unix(),
	})

	currency := "USD"
	if gatewayName == models.GatewayMercadoPago {
		currency = "ARS"
	}

	orderID, err := gw.CreateOrder(ctx, amount, currency, client.Email, reference)
	if err != nil {
		return nil, err
	}

	order := models.PaymentOrder{
		ClientID:       clientID,
		Gateway:        gatewayName,
		GatewayOrderID: orderID,
		PlanType:       planType,
		Amount:         amount,
		Currency:       currency,
		Status:         models.PaymentPending,
	}
	if err := s.db.Create(&order).Error; err != nil {
		return nil, ErrPersistence
	}
	return &order, nil
}

// ConfirmCapture is the synchronous trigger: the direct-capture gateway is
// asked to capture, and the normalized outcome is applied to the local order.
func (s *PaymentService) ConfirmCapture(ctx context.Context, gatewayName, gatewayOrderID string) (*models.PaymentOrder, *models.SubscriptionToken, error) {
	gw, ok := s.gateways[gatewayName]
	if !ok {
		return nil, nil, ErrMissingFields
	}

	var order models.PaymentOrder
	err := s.db.Where("gateway = ? AND gateway_order_id = ?", gatewayName, gatewayOrderID).First(&order).Error
	if err != nil {
		return nil, nil, notFoundOr(err)
	}

	conf, err := gw.ConfirmOrder(ctx, gatewayOrderID)
	if err != nil {
		// transport failure means money state is unknown, never rejected
		return nil, nil, err
	}

	token, err := s.applyConfirmation(&order, conf.Status)
	if err != nil {
		return nil, nil, err
	}
	order.Status = conf.Status
	return &order, token, nil
}

// HandleWebhookNotification is the asynchronous trigger. The webhook body is
// only trusted for the payment id; state and identity come from the
// gateway's payment detail and the round-tripped order reference. A
// malformed or absent reference means there is no account to update, which
// is not an error: gateways retry on non-2xx and there is nothing to retry.
func (s *PaymentService) HandleWebhookNotification(ctx context.Context, paymentID string) error {
	gw, ok := s.gateways[models.GatewayMercadoPago]
	if !ok {
		return ErrGatewayUnavailable
	}

	conf, err := gw.ConfirmOrder(ctx, paymentID)
	if err != nil {
		return err
	}

	ref, ok := utils.DecodeOrderReference(conf.ExternalReference)
	if !ok {
		log.Printf("webhook payment %s carried no usable order reference", paymentID)
		return nil
	}

	var order models.PaymentOrder
	err = s.db.
		Where("client_id = ? AND gateway = ? AND plan_type = ?",
			ref.ClientID, models.GatewayMercadoPago, ref.PlanType).
		Order("created_at DESC").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("webhook payment %s matches no local order", paymentID)
			return nil
		}
		return ErrPersistence
	}

	_, err = s.applyConfirmation(&order, conf.Status)
	return err
}

// applyConfirmation moves pending -> approved|rejected with one conditional
// UPDATE keyed on the order id and its current status. A duplicate
// confirmation affects zero rows and becomes a no-op; the token broker
// additionally dedupes by payment order id, so even racing triggers cannot
// double-issue.
func (s *PaymentService) applyConfirmation(order *models.PaymentOrder, status string) (*models.SubscriptionToken, error) {
	res := s.db.Model(&models.PaymentOrder{}).
		Where("id = ? AND status = ?", order.ID, models.PaymentPending).
		Update("status", status)
	if res.Error != nil {
		return nil, ErrPersistence
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	if status != models.PaymentApproved {
		return nil, nil
	}

	token, err := s.tokens.Issue(order.ClientID, order.PlanType, order.ID)
	if err != nil {
		return nil, err
	}
	s.notifyApproved(order.ClientID, token)
	return token, nil
}

// notifyApproved is best effort: failures are logged, never surfaced, so a
// broken mailer cannot make a gateway retry an already-applied confirmation.
func (s *PaymentService) notifyApproved(clientID uint, token *models.SubscriptionToken) {
	var client models.Client
	if err := s.db.First(&client, clientID).Error; err != nil {
		log.Printf("payment approved for client %d but lookup failed: %v", clientID, err)
		return
	}

	if err := s.sendToken(client.Email, token.Token, token.ExpiresAt); err != nil {
		log.Printf("subscription token email to %s failed: %v", client.Email, err)
	}

	if s.hub != nil {
		s.hub.Notify(clientID, map[string]interface{}{
			"event":      "payment_approved",
			"plan_type":  token.PlanType,
			"expires_at": token.ExpiresAt,
		})
	}
}
