package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/AndyyVasquez/nutweb-sub000/models"
)

// MercadoPagoService is the preference+webhook gateway. CreateOrder builds a
// checkout preference carrying the order reference in external_reference;
// confirmation normally arrives through the webhook, and ConfirmOrder doubles
// as the payment-detail fetch the webhook handler relies on (webhook body
// fields are never trusted for money or state).
type MercadoPagoService struct {
	accessToken string
	baseURL     string
	backBase    string
	client      *http.Client
}

func NewMercadoPagoService() *MercadoPagoService {
	base := os.Getenv("MP_BASE_URL")
	if base == "" {
		base = "https://api.mercadopago.com"
	}
	return &MercadoPagoService{
		accessToken: os.Getenv("MP_ACCESS_TOKEN"),
		baseURL:     base,
		backBase:    os.Getenv("APP_BASE_URL"),
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// NewMercadoPagoServiceAt points the adapter at a specific API host.
func NewMercadoPagoServiceAt(baseURL, accessToken, backBase string) *MercadoPagoService {
	return &MercadoPagoService{
		accessToken: accessToken,
		baseURL:     baseURL,
		backBase:    backBase,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *MercadoPagoService) Name() string { return models.GatewayMercadoPago }

type mpPreferenceResponse struct {
	ID string `json:"id"`
}

func (s *MercadoPagoService) CreateOrder(ctx context.Context, amount float64, currency, payerEmail, reference string) (string, error) {
	payload := map[string]interface{}{
		"items": []map[string]interface{}{{
			"title":       "NutWeb subscription",
			"quantity":    1,
			"unit_price":  amount,
			"currency_id": currency,
		}},
		"payer":              map[string]string{"email": payerEmail},
		"external_reference": reference,
		"back_urls": map[string]string{
			"success": s.backBase + "/payments/mercadopago/success",
			"failure": s.backBase + "/payments/mercadopago/failure",
			"pending": s.backBase + "/payments/mercadopago/pending",
		},
		"notification_url": s.backBase + "/payments/mercadopago/webhook",
		"auto_return":      "approved",
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal preference payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/checkout/preferences", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: mercadopago preference request: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: mercadopago preference response: %v", ErrGatewayUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: mercadopago API error %d: %s", ErrGatewayUnavailable, resp.StatusCode, string(body))
	}

	var pr mpPreferenceResponse
	if err := json.Unmarshal(body, &pr); err != nil || pr.ID == "" {
		return "", fmt.Errorf("%w: mercadopago preference JSON: %v", ErrGatewayUnavailable, err)
	}
	return pr.ID, nil
}

type mpPaymentResponse struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	ExternalReference string      `json:"external_reference"`
}

// ConfirmOrder fetches full payment detail by the gateway-assigned payment
// id. Only "approved" counts as approved; everything else is rejected.
func (s *MercadoPagoService) ConfirmOrder(ctx context.Context, paymentID string) (*GatewayConfirmation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/payments/"+paymentID, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: mercadopago payment request: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: mercadopago payment response: %v", ErrGatewayUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: mercadopago API error %d: %s", ErrGatewayUnavailable, resp.StatusCode, string(body))
	}

	var pr mpPaymentResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("%w: mercadopago payment JSON: %v", ErrGatewayUnavailable, err)
	}

	status := models.PaymentRejected
	if pr.Status == "approved" {
		status = models.PaymentApproved
	}
	return &GatewayConfirmation{
		Status:            status,
		ExternalReference: pr.ExternalReference,
		Raw:               string(body),
	}, nil
}
