package models

import (
	"gorm.io/gorm"
)

// One diet plan with its meal slots and food items. The whole graph is
// written in a single transaction; at most one Diet per client carries
// Active=true.
type Diet struct {
	gorm.Model
	ClientID        uint `gorm:"index;not null"`
	NutritionistID  uint
	Name            string
	Objective       string
	DurationWeeks   int
	ProteinPct      float64
	CarbsPct        float64
	FatPct          float64
	TargetCalories  float64
	Recommendations string
	Active          bool `gorm:"index"`
	Slots           []MealSlot
}

// Internal slot identifiers; the Spanish display labels clients send are
// mapped onto these by a fixed five-entry table in the diet service.
const (
	SlotBreakfast      = "breakfast"
	SlotMorningSnack   = "morning_snack"
	SlotLunch          = "lunch"
	SlotAfternoonSnack = "afternoon_snack"
	SlotDinner         = "dinner"
)

type MealSlot struct {
	gorm.Model
	DietID   uint   `gorm:"index;not null"`
	SlotName string `gorm:"type:varchar(20);not null"`
	Items    []FoodItem `gorm:"foreignKey:MealSlotID"`
}

type FoodItem struct {
	gorm.Model
	MealSlotID uint `gorm:"index;not null"`
	Name       string
	Grams      float64
	Calories   float64
	FoodGroup  string
}
