package services

import (
	"errors"
	"log"

	"github.com/AndyyVasquez/nutweb-sub000/models"
	"github.com/AndyyVasquez/nutweb-sub000/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/// AuthService is the session authority: it issues, validates and revokes the
// single live session token per account, and owns the credential records the
// tokens are checked against.
type AuthService struct {
	db             *gorm.DB
	notifyDecision func(to string, approved bool) error
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{
		db:             db,
		notifyDecision: utils.SendVerificationDecisionEmail,
	}
}

type LoginResult struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Login authenticates password-holding accounts. The nutritionist partition
// is tried before the admin partition; which one matches decides the role.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	var nut models.Nutritionist
	err := s.db.Where("email = ?", email).First(&nut).Error
	if err == nil {
		switch nut.VerificationStatus {
		case models.VerificationPending:
			return nil, ErrNotApproved
		case models.VerificationDenied:
			return nil, ErrAccessDenied
		}
		if nut.SessionToken != nil {
			return nil, ErrSessionActive
		}
		if !utils.CheckPasswordHash(password, nut.Password) {
			return nil, ErrInvalidCredentials
		}
		token, err := s.claimSession(&models.Nutritionist{}, nut.ID)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Token: token, Role: models.RoleNutritionist}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPersistence
	}

	var adm models.Admin
	if err := s.db.Where("email = ?", email).First(&adm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, ErrPersistence
	}
	if adm.SessionToken != nil {
		return nil, ErrSessionActive
	}
	if !utils.CheckPasswordHash(password, adm.Password) {
		return nil, ErrInvalidCredentials
	}
	token, err := s.claimSession(&models.Admin{}, adm.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Role: models.RoleAdmin}, nil
}

// LoginFederated authenticates a client via an upstream identity provider's
// ID token; no password is involved.
func (s *AuthService) LoginFederated(idToken string) (*LoginResult, error) {
	email, err := utils.ParseIdentityToken(idToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	var cl models.Client
	if err := s.db.Where("email = ?", email).First(&cl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, ErrPersistence
	}
	if !cl.HasAccess {
		return nil, ErrAccessDenied
	}
	if cl.SessionToken != nil {
		return nil, ErrSessionActive
	}
	token, err := s.claimSession(&models.Client{}, cl.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Role: models.RoleClient}, nil
}

// claimSession sets a fresh token with one conditional write. Checking
// "token is null" and setting it must be a single statement; two concurrent
// logins would otherwise both observe no active session and both succeed.
func (s *AuthService) claimSession(model interface{}, accountID uint) (string, error) {
	token := uuid.NewString()
	res := s.db.Model(model).
		Where("id = ? AND session_token IS NULL", accountID).
		Update("session_token", token)
	if res.Error != nil {
		return "", ErrPersistence
	}
	if res.RowsAffected == 0 {
		return "", ErrSessionActive
	}
	return token, nil
}

// Logout clears the session token. Clearing an already-null token is not an
// error, but the account must exist.
func (s *AuthService) Logout(accountID uint, role string) error {
	model, err := modelForRole(role)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(model).Where("id = ?", accountID).Count(&count).Error; err != nil {
		return ErrPersistence
	}
	if count == 0 {
		return ErrNotFound
	}

	if err := s.db.Model(model).Where("id = ?", accountID).
		Update("session_token", nil).Error; err != nil {
		return ErrPersistence
	}
	return nil
}

// Validate guards every protected operation. It re-reads the stored token on
// each call; tokens are revoked by logout or superseded by a new login, so
// the result is never cached.
func (s *AuthService) Validate(accountID uint, presented, role string) error {
	stored, err := s.storedSessionToken(accountID, role)
	if err != nil {
		return err
	}
	if stored == nil {
		return ErrNoSession
	}
	if *stored != presented {
		return ErrTokenMismatch
	}
	return nil
}

func (s *AuthService) storedSessionToken(accountID uint, role string) (*string, error) {
	switch role {
	case models.RoleClient:
		var c models.Client
		if err := s.db.First(&c, accountID).Error; err != nil {
			return nil, notFoundOr(err)
		}
		return c.SessionToken, nil
	case models.RoleNutritionist:
		var n models.Nutritionist
		if err := s.db.First(&n, accountID).Error; err != nil {
			return nil, notFoundOr(err)
		}
		return n.SessionToken, nil
	case models.RoleAdmin:
		var a models.Admin
		if err := s.db.First(&a, accountID).Error; err != nil {
			return nil, notFoundOr(err)
		}
		return a.SessionToken, nil
	}
	return nil, ErrNotFound
}

// RegisterClient creates an implicitly approved client account. Access is
// granted later, by a redeemed subscription token.
func (s *AuthService) RegisterClient(email, name, federatedSubject string) (*models.Client, error) {
	client := models.Client{
		Email:            email,
		Name:             name,
		FederatedSubject: federatedSubject,
	}
	if err := s.db.Create(&client).Error; err != nil {
		return nil, ErrPersistence
	}
	return &client, nil
}

// RegisterNutritionist creates a pending account awaiting admin review.
func (s *AuthService) RegisterNutritionist(email, password, name, license string) error {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return ErrPersistence
	}
	nut := models.Nutritionist{
		Email:              email,
		Password:           hashed,
		Name:               name,
		LicenseNumber:      license,
		VerificationStatus: models.VerificationPending,
	}
	if err := s.db.Create(&nut).Error; err != nil {
		return ErrPersistence
	}
	return nil
}

func (s *AuthService) PendingNutritionists() ([]models.Nutritionist, error) {
	var pending []models.Nutritionist
	err := s.db.
		Where("verification_status = ?", models.VerificationPending).
		Order("created_at ASC").
		Find(&pending).Error
	if err != nil {
		return nil, ErrPersistence
	}
	return pending, nil
}

// ReviewNutritionist applies the admin's decision. Only pending accounts can
// transition; denied is terminal.
func (s *AuthService) ReviewNutritionist(nutritionistID uint, approve bool) error {
	var nut models.Nutritionist
	if err := s.db.First(&nut, nutritionistID).Error; err != nil {
		return notFoundOr(err)
	}

	status := models.VerificationDenied
	if approve {
		status = models.VerificationApproved
	}
	res := s.db.Model(&models.Nutritionist{}).
		Where("id = ? AND verification_status = ?", nutritionistID, models.VerificationPending).
		Update("verification_status", status)
	if res.Error != nil {
		return ErrPersistence
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyDecided
	}

	if err := s.notifyDecision(nut.Email, approve); err != nil {
		log.Printf("verification decision email to %s failed: %v", nut.Email, err)
	}
	return nil
}

func modelForRole(role string) (interface{}, error) {
	switch role {
	case models.RoleClient:
		return &models.Client{}, nil
	case models.RoleNutritionist:
		return &models.Nutritionist{}, nil
	case models.RoleAdmin:
		return &models.Admin{}, nil
	}
	return nil, ErrNotFound
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return ErrPersistence
}
