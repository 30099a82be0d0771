package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AndyyVasquez/nutweb-sub000/models"
	"github.com/AndyyVasquez/nutweb-sub000/utils"

	"gorm.io/gorm"
)

const tokenValidity = 7 * 24 * time.Hour

// Plan vocabulary with the 3-letter prefixes clients see in their tokens and
// the access window a redemption grants.
var planPrefixes = map[string]string{
	"basic":   "BAS",
	"premium": "PRE",
	"anual":   "ANU",
}

var planAccessWindows = map[string]time.Duration{
	"basic":   30 * 24 * time.Hour,
	"premium": 30 * 24 * time.Hour,
	"anual":   365 * 24 * time.Hour,
}

// SubscriptionService issues single-use expiring tokens binding an approved
// payment to a client, and redeems each token exactly once to grant access.
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// FormatToken builds the short human-copyable code: SUB + plan prefix +
// client id + base-36 timestamp + 4 random uppercase characters. Users
// transcribe it between a browser tab and the mobile app, so it stays short;
// collisions are unlikely and caught by the unique index anyway.
func FormatToken(clientID uint, planType string, now time.Time) string {
	prefix, ok := planPrefixes[planType]
	if !ok {
		prefix = "GEN"
	}
	stamp := strings.ToUpper(strconv.FormatInt(now.Unix(), 36))
	return fmt.Sprintf("SUB%s%d%s%s", prefix, clientID, stamp, utils.GenerateUppercaseToken(4))
}

// Issue creates the token row for an approved payment. The unique
// payment_order_id index makes this idempotent: a payment that already has a
// token gets the existing one back, never a duplicate.
func (s *SubscriptionService) Issue(clientID uint, planType string, paymentOrderID uint) (*models.SubscriptionToken, error) {
	var existing models.SubscriptionToken
	err := s.db.Where("payment_order_id = ?", paymentOrderID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPersistence
	}

	now := time.Now()
	token := models.SubscriptionToken{
		Token:          FormatToken(clientID, planType, now),
		ClientID:       clientID,
		PaymentOrderID: paymentOrderID,
		PlanType:       planType,
		Status:         models.TokenActive,
		ExpiresAt:      now.Add(tokenValidity),
	}
	if err := s.db.Create(&token).Error; err != nil {
		// a concurrent confirmation may have won the unique index race
		if ferr := s.db.Where("payment_order_id = ?", paymentOrderID).First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, ErrPersistence
	}
	return &token, nil
}

// Redeem marks the token used and grants access. The match (exact token,
// owner, active, unexpired) and the used transition are one conditional
// UPDATE, so two concurrent redemptions cannot both succeed. One
// ErrTokenInvalid covers wrong, already-used and expired tokens; callers
// must not learn which guess was closest. If the access grant fails after
// the token was marked used, the operation fails closed: the token stays
// used and the caller sees an internal error.
func (s *SubscriptionService) Redeem(token string, clientID uint) (*models.Client, error) {
	var row models.SubscriptionToken
	err := s.db.Where("token = ? AND client_id = ?", token, clientID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, ErrPersistence
	}

	now := time.Now()
	res := s.db.Model(&models.SubscriptionToken{}).
		Where("token = ? AND client_id = ? AND status = ? AND expires_at > ?",
			token, clientID, models.TokenActive, now).
		Updates(map[string]interface{}{
			"status":  models.TokenUsed,
			"used_at": now,
		})
	if res.Error != nil {
		return nil, ErrPersistence
	}
	if res.RowsAffected == 0 {
		return nil, ErrTokenInvalid
	}

	window, ok := planAccessWindows[row.PlanType]
	if !ok {
		window = planAccessWindows["basic"]
	}
	grant := s.db.Model(&models.Client{}).
		Where("id = ?", clientID).
		Updates(map[string]interface{}{
			"has_access":   true,
			"access_start": now,
			"access_end":   now.Add(window),
		})
	if grant.Error != nil || grant.RowsAffected == 0 {
		return nil, ErrPersistence
	}

	var client models.Client
	if err := s.db.First(&client, clientID).Error; err != nil {
		return nil, ErrPersistence
	}
	return &client, nil
}

// AccessStatus reads the client's grant fields.
func (s *SubscriptionService) AccessStatus(clientID uint) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrPersistence
	}
	return &client, nil
}
