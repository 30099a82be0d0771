package services

import (
	"context"
)

// GatewayConfirmation is the gateway-neutral view of a confirmed payment.
// Status is already normalized to models.PaymentApproved or
// models.PaymentRejected; any vocabulary a gateway reports outside its known
// success value is treated as rejected for safety. Raw keeps the upstream
// body for operator diagnosis.
type GatewayConfirmation struct {
	Status            string
	ExternalReference string
	Raw               string
}

// PaymentGateway is the capability every gateway implementation provides.
// CreateOrder attaches reference opaquely so it can be recovered later
// without a local join; ConfirmOrder is the synchronous capture for the
// direct-capture gateway and the polling/detail fetch for the webhook one.
type PaymentGateway interface {
	Name() string
	CreateOrder(ctx context.Context, amount float64, currency, payerEmail, reference string) (string, error)
	ConfirmOrder(ctx context.Context, orderID string) (*GatewayConfirmation, error)
}
