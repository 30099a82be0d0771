package models

import (
	"gorm.io/gorm"
)

const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationDenied   = "denied"
)

// Nutritionist accounts start pending and may only be approved or denied by
// an admin; denied is terminal.
type Nutritionist struct {
	gorm.Model
	Email              string `gorm:"uniqueIndex;not null"`
	Password           string `gorm:"not null"`
	Name               string
	LicenseNumber      string
	VerificationStatus string `gorm:"type:varchar(10);default:pending"`
	SessionToken       *string
}
