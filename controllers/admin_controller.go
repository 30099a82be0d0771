package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AndyyVasquez/nutweb-sub000/services"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	Auth *services.AuthService
}

func NewAdminController(auth *services.AuthService) *AdminController {
	return &AdminController{Auth: auth}
}

func (ad *AdminController) PendingNutritionists(c *gin.Context) {
	pending, err := ad.Auth.PendingNutritionists()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	out := make([]gin.H, 0, len(pending))
	for _, n := range pending {
		out = append(out, gin.H{
			"id":             n.ID,
			"email":          n.Email,
			"name":           n.Name,
			"license_number": n.LicenseNumber,
			"registered_at":  n.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"pending": out})
}

type ReviewInput struct {
	Decision string `json:"decision" binding:"required,oneof=approved denied"`
}

func (ad *AdminController) ReviewNutritionist(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid nutritionist id"})
		return
	}

	var input ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = ad.Auth.ReviewNutritionist(uint(id), input.Decision == "approved")
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "nutritionist not found"})
		case errors.Is(err, services.ErrAlreadyDecided):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "decision recorded"})
}
