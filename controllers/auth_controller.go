package controllers

import (
	"errors"
	"net/http"

	"github.com/AndyyVasquez/nutweb-sub000/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

type RegisterClientInput struct {
	Email            string `json:"email" binding:"required,email"`
	Name             string `json:"name" binding:"required"`
	FederatedSubject string `json:"federated_subject"`
}

func (ac *AuthController) RegisterClient(c *gin.Context) {
	var input RegisterClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := ac.Auth.RegisterClient(input.Email, input.Name, input.FederatedSubject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": client.ID, "message": "registration successful"})
}

type RegisterNutritionistInput struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required"`
	Name          string `json:"name" binding:"required"`
	LicenseNumber string `json:"license_number"`
}

func (ac *AuthController) RegisterNutritionist(c *gin.Context) {
	var input RegisterNutritionistInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ac.Auth.RegisterNutritionist(input.Email, input.Password, input.Name, input.LicenseNumber); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "registration submitted, pending verification"})
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := ac.Auth.Login(input.Email, input.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type FederatedLoginInput struct {
	IDToken string `json:"id_token" binding:"required"`
}

func (ac *AuthController) LoginFederated(c *gin.Context) {
	var input FederatedLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := ac.Auth.LoginFederated(input.IDToken)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ac *AuthController) Logout(c *gin.Context) {
	accountID := c.GetUint("accountID")
	role := c.GetString("role")

	if err := ac.Auth.Logout(accountID, role); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotApproved), errors.Is(err, services.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSessionActive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotRegistered):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
