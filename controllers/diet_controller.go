package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AndyyVasquez/nutweb-sub000/services"

	"github.com/gin-gonic/gin"
)

type DietController struct {
	Diets *services.DietService
}

func NewDietController(ds *services.DietService) *DietController {
	return &DietController{Diets: ds}
}

type SaveDietInput struct {
	ClientID uint `json:"client_id" binding:"required"`
	services.DietInput
	MealSlots map[string][]services.FoodItemInput `json:"meal_slots"`
}

// SaveDiet writes a full diet plan for a client. The caller is the
// authenticated nutritionist; the previous active plan is deactivated in the
// same transaction.
func (dc *DietController) SaveDiet(c *gin.Context) {
	var input SaveDietInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	nutritionistID := c.GetUint("accountID")

	dietID, err := dc.Diets.SaveDiet(input.ClientID, nutritionistID, input.DietInput, input.MealSlots)
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "diet could not be saved"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"diet_id": dietID})
}

func (dc *DietController) CurrentDiet(c *gin.Context) {
	clientID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}

	diet, err := dc.Diets.CurrentDiet(uint(clientID))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active diet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, diet)
}
