package services

import (
	"errors"

	"github.com/AndyyVasquez/nutweb-sub000/models"

	"gorm.io/gorm"
)

// Display labels clients send, mapped to internal slot names. Exactly five
// entries; labels outside this set are silently dropped, a deliberate
// lenient policy for partially-filled forms.
var slotLabels = map[string]string{
	"Desayuno":     models.SlotBreakfast,
	"Media Mañana": models.SlotMorningSnack,
	"Almuerzo":     models.SlotLunch,
	"Merienda":     models.SlotAfternoonSnack,
	"Cena":         models.SlotDinner,
}

type DietInput struct {
	Name            string  `json:"name"`
	Objective       string  `json:"objective"`
	DurationWeeks   int     `json:"duration_weeks"`
	ProteinPct      float64 `json:"protein_pct"`
	CarbsPct        float64 `json:"carbs_pct"`
	FatPct          float64 `json:"fat_pct"`
	TargetCalories  float64 `json:"target_calories"`
	Recommendations string  `json:"recommendations"`
}

type FoodItemInput struct {
	Name      string  `json:"name"`
	Grams     float64 `json:"grams"`
	Calories  float64 `json:"calories"`
	FoodGroup string  `json:"food_group"`
}

type DietService struct {
	db *gorm.DB
}

func NewDietService(db *gorm.DB) *DietService {
	return &DietService{db: db}
}

// SaveDiet writes the whole diet graph and deactivates every other diet of
// the client inside one transaction. Readers either see the complete new
// plan as the single active diet, or the previous state untouched.
func (s *DietService) SaveDiet(clientID, nutritionistID uint, in DietInput, slots map[string][]FoodItemInput) (uint, error) {
	if in.Name == "" || in.DurationWeeks <= 0 ||
		in.ProteinPct <= 0 || in.CarbsPct <= 0 || in.FatPct <= 0 ||
		in.TargetCalories <= 0 {
		return 0, ErrMissingFields
	}

	var dietID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		diet := models.Diet{
			ClientID:        clientID,
			NutritionistID:  nutritionistID,
			Name:            in.Name,
			Objective:       in.Objective,
			DurationWeeks:   in.DurationWeeks,
			ProteinPct:      in.ProteinPct,
			CarbsPct:        in.CarbsPct,
			FatPct:          in.FatPct,
			TargetCalories:  in.TargetCalories,
			Recommendations: in.Recommendations,
			Active:          true,
		}
		if err := tx.Create(&diet).Error; err != nil {
			return err
		}

		for label, items := range slots {
			slotName, ok := slotLabels[label]
			if !ok {
				continue
			}
			slot := models.MealSlot{DietID: diet.ID, SlotName: slotName}
			if err := tx.Create(&slot).Error; err != nil {
				return err
			}
			for _, it := range items {
				group := it.FoodGroup
				if group == "" {
					group = "undefined"
				}
				item := models.FoodItem{
					MealSlotID: slot.ID,
					Name:       it.Name,
					Grams:      it.Grams,
					Calories:   it.Calories,
					FoodGroup:  group,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Model(&models.Diet{}).
			Where("client_id = ? AND id <> ?", clientID, diet.ID).
			Update("active", false).Error; err != nil {
			return err
		}

		dietID = diet.ID
		return nil
	})
	if err != nil {
		return 0, ErrPersistence
	}
	return dietID, nil
}

// CurrentDiet returns the client's single active plan with slots and items.
// Lookups filter on the active flag, not on recency.
func (s *DietService) CurrentDiet(clientID uint) (*models.Diet, error) {
	var diet models.Diet
	err := s.db.
		Preload("Slots.Items").
		Where("client_id = ? AND active = ?", clientID, true).
		First(&diet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrPersistence
	}
	return &diet, nil
}
