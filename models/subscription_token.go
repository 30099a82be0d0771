package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TokenActive  = "active"
	TokenUsed    = "used"
	TokenExpired = "expired"
)

// SubscriptionToken bridges a confirmed payment to the client-side access
// activation. The unique PaymentOrderID keeps re-confirmed payments from
// minting a second token; expiry is enforced by query predicate at
// redemption time, never reverted once passed.
type SubscriptionToken struct {
	gorm.Model
	Token          string `gorm:"uniqueIndex;not null"`
	ClientID       uint   `gorm:"index;not null"`
	PaymentOrderID uint   `gorm:"uniqueIndex;not null"`
	PlanType       string `gorm:"type:varchar(20)"`
	Status         string `gorm:"type:varchar(10);default:active"`
	ExpiresAt      time.Time
	UsedAt         *time.Time
}
