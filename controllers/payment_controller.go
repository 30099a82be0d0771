package controllers

import (
	"errors"
	"net/http"

	"github.com/AndyyVasquez/nutweb-sub000/models"
	"github.com/AndyyVasquez/nutweb-sub000/services"
	"github.com/AndyyVasquez/nutweb-sub000/utils"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	Payments *services.PaymentService
}

func NewPaymentController(ps *services.PaymentService) *PaymentController {
	return &PaymentController{Payments: ps}
}

type CreateOrderInput struct {
	ClientID uint   `json:"client_id" binding:"required"`
	PlanType string `json:"plan_type" binding:"required"`
	Gateway  string `json:"gateway" binding:"required,oneof=paypal mercadopago"`
}

func (pc *PaymentController) CreateOrder(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := pc.Payments.InitiatePayment(c.Request.Context(), input.ClientID, input.PlanType, input.Gateway)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order_id":  order.GatewayOrderID,
		"gateway":   order.Gateway,
		"plan_type": order.PlanType,
		"amount":    order.Amount,
		"currency":  order.Currency,
		"status":    order.Status,
	})
}

type CaptureInput struct {
	OrderID string `json:"order_id" binding:"required"`
}

// CapturePayPal is the synchronous confirmation step the paying client waits
// on. An already-confirmed order comes back with its current status and no
// new token.
func (pc *PaymentController) CapturePayPal(c *gin.Context) {
	var input CaptureInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, token, err := pc.Payments.ConfirmCapture(c.Request.Context(), models.GatewayPayPal, input.OrderID)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	resp := gin.H{"status": order.Status}
	if token != nil {
		resp["subscription_token"] = token.Token
		resp["token_expires_at"] = token.ExpiresAt
	}
	c.JSON(http.StatusOK, resp)
}

type webhookInput struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// MercadoPagoWebhook handles gateway notifications. Non-2xx makes the
// gateway retry, so only upstream/persistence failures return 500; anything
// unactionable (wrong type, missing id) is acknowledged.
func (pc *PaymentController) MercadoPagoWebhook(c *gin.Context) {
	var input webhookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusOK, gin.H{"message": "ignored"})
		return
	}
	if input.Type != "payment" || input.Data.ID == "" {
		c.JSON(http.StatusOK, gin.H{"message": "ignored"})
		return
	}

	if err := pc.Payments.HandleWebhookNotification(c.Request.Context(), input.Data.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "notification processing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "processed"})
}

// Landing endpoints the gateway redirects the payer's browser to. The
// webhook remains the authoritative confirmation path; success additionally
// polls the payment as a fallback in case the webhook is delayed. A
// malformed or absent external_reference is tolerated: there is simply no
// account to report on.
func (pc *PaymentController) MercadoPagoSuccess(c *gin.Context) {
	paymentID := c.Query("payment_id")
	if paymentID != "" {
		_ = pc.Payments.HandleWebhookNotification(c.Request.Context(), paymentID)
	}

	ref, ok := utils.DecodeOrderReference(c.Query("external_reference"))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"message": "payment received"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "payment received",
		"client_id": ref.ClientID,
		"plan_type": ref.PlanType,
	})
}

func (pc *PaymentController) MercadoPagoFailure(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "payment failed or cancelled"})
}

func (pc *PaymentController) MercadoPagoPending(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "payment pending confirmation"})
}

func respondPaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, services.ErrGatewayUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment gateway unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
