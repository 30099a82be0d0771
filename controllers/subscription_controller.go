package controllers

import (
	"errors"
	"net/http"

	"github.com/AndyyVasquez/nutweb-sub000/services"

	"github.com/gin-gonic/gin"
)

type SubscriptionController struct {
	Subs *services.SubscriptionService
}

func NewSubscriptionController(subs *services.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{Subs: subs}
}

type RedeemInput struct {
	Token    string `json:"token" binding:"required"`
	ClientID uint   `json:"client_id" binding:"required"`
}

// Redeem activates access from a subscription token. Wrong, already-used and
// expired tokens all answer identically.
func (sc *SubscriptionController) Redeem(c *gin.Context) {
	var input RedeemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := sc.Subs.Redeem(input.Token, input.ClientID)
	if err != nil {
		if errors.Is(err, services.ErrTokenInvalid) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tiene_acceso": client.HasAccess,
		"access_start": client.AccessStart,
		"access_end":   client.AccessEnd,
	})
}
