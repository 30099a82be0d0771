package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/AndyyVasquez/nutweb-sub000/models"
)

// PayPalService is the direct-capture gateway: the paying client waits on a
// synchronous capture call. Access tokens come from a Basic-auth
// client-credentials exchange per call; no persistent credential cache.
type PayPalService struct {
	clientID string
	secret   string
	baseURL  string
	client   *http.Client
}

func NewPayPalService() *PayPalService {
	base := os.Getenv("PAYPAL_BASE_URL")
	if base == "" {
		base = "https://api-m.sandbox.paypal.com"
	}
	return &PayPalService{
		clientID: os.Getenv("PAYPAL_CLIENT_ID"),
		secret:   os.Getenv("PAYPAL_SECRET"),
		baseURL:  base,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// NewPayPalServiceAt points the adapter at a specific API host.
func NewPayPalServiceAt(baseURL, clientID, secret string) *PayPalService {
	return &PayPalService{
		clientID: clientID,
		secret:   secret,
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *PayPalService) Name() string { return models.GatewayPayPal }

type paypalTokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (s *PayPalService) accessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/v1/oauth2/token",
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	req.SetBasicAuth(s.clientID, s.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: paypal token request: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: paypal token response: %v", ErrGatewayUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: paypal token API error %d: %s", ErrGatewayUnavailable, resp.StatusCode, string(body))
	}

	var tr paypalTokenResponse
	if err := json.Unmarshal(body, &tr); err != nil || tr.AccessToken == "" {
		return "", fmt.Errorf("%w: paypal token JSON: %v", ErrGatewayUnavailable, err)
	}
	return tr.AccessToken, nil
}

type paypalOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (s *PayPalService) CreateOrder(ctx context.Context, amount float64, currency, payerEmail, reference string) (string, error) {
	token, err := s.accessToken(ctx)
	if err != nil {
		return "", err
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{{
			"custom_id": reference,
			"amount": map[string]string{
				"currency_code": currency,
				"value":         fmt.Sprintf("%.2f", amount),
			},
		}},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal order payload: %w", err)
	}

	body, err := s.post(ctx, "/v2/checkout/orders", token, b)
	if err != nil {
		return "", err
	}

	var or paypalOrderResponse
	if err := json.Unmarshal(body, &or); err != nil || or.ID == "" {
		return "", fmt.Errorf("%w: paypal order JSON: %v", ErrGatewayUnavailable, err)
	}
	return or.ID, nil
}

// ConfirmOrder captures the order synchronously. Only COMPLETED counts as
// approved; any other or unknown status normalizes to rejected.
func (s *PayPalService) ConfirmOrder(ctx context.Context, orderID string) (*GatewayConfirmation, error) {
	token, err := s.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	body, err := s.post(ctx, "/v2/checkout/orders/"+orderID+"/capture", token, []byte("{}"))
	if err != nil {
		return nil, err
	}

	var or paypalOrderResponse
	if err := json.Unmarshal(body, &or); err != nil {
		return nil, fmt.Errorf("%w: paypal capture JSON: %v", ErrGatewayUnavailable, err)
	}

	status := models.PaymentRejected
	if or.Status == "COMPLETED" {
		status = models.PaymentApproved
	}
	return &GatewayConfirmation{Status: status, Raw: string(body)}, nil
}

func (s *PayPalService) post(ctx context.Context, path, token string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: paypal request %s: %v", ErrGatewayUnavailable, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: paypal response %s: %v", ErrGatewayUnavailable, path, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%w: paypal API error %d: %s", ErrGatewayUnavailable, resp.StatusCode, string(body))
	}
	return body, nil
}
