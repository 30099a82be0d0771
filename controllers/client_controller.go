package controllers

import (
	"errors"
	"net/http"

	"github.com/AndyyVasquez/nutweb-sub000/services"

	"github.com/gin-gonic/gin"
)

type ClientController struct {
	Subs *services.SubscriptionService
}

func NewClientController(subs *services.SubscriptionService) *ClientController {
	return &ClientController{Subs: subs}
}

// Profile returns the logged-in client's account and access-grant state.
func (cc *ClientController) Profile(c *gin.Context) {
	clientID := c.GetUint("accountID")

	client, err := cc.Subs.AccessStatus(clientID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           client.ID,
		"email":        client.Email,
		"name":         client.Name,
		"tiene_acceso": client.HasAccess,
		"access_start": client.AccessStart,
		"access_end":   client.AccessEnd,
	})
}
