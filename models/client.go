package models

import (
	"time"

	"gorm.io/gorm"
)

// Role names as carried in the X-User-Role header. The role decides which
// account table a session lookup hits.
const (
	RoleClient       = "client"
	RoleNutritionist = "nutritionist"
	RoleAdmin        = "admin"
)

// Client accounts authenticate through the federated identity provider and
// are implicitly approved. SessionToken doubles as the single-session mutex:
// non-null means a session is in use.
type Client struct {
	gorm.Model
	Email            string `gorm:"uniqueIndex;not null"`
	Name             string
	FederatedSubject string
	HasAccess        bool `json:"tiene_acceso"`
	AccessStart      time.Time
	AccessEnd        time.Time
	SessionToken     *string
}
