package models

import (
	"gorm.io/gorm"
)

const (
	GatewayPayPal      = "paypal"
	GatewayMercadoPago = "mercadopago"
)

const (
	PaymentPending  = "pending"
	PaymentApproved = "approved"
	PaymentRejected = "rejected"
)

// PaymentOrder is the local record of one remote payment attempt. Status
// moves pending -> approved|rejected exactly once; duplicate gateway
// notifications for the same GatewayOrderID must not re-apply the transition.
type PaymentOrder struct {
	gorm.Model
	ClientID       uint   `gorm:"index;not null"`
	Gateway        string `gorm:"type:varchar(20);not null"`
	GatewayOrderID string `gorm:"uniqueIndex;not null"`
	PlanType       string `gorm:"type:varchar(20)"`
	Amount         float64
	Currency       string `gorm:"type:varchar(3)"`
	Status         string `gorm:"type:varchar(10);default:pending"`
}
