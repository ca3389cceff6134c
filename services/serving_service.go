package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Azizbek0606/kitchen-inventory/logger"
	"github.com/Azizbek0606/kitchen-inventory/models"

	"gorm.io/gorm"
)

// ServingService executes serve-meal requests. A serve is the system's one
// all-or-nothing operation: either every required ingredient is decremented
// and a serving record appended, or nothing changes.
type ServingService struct {
	db *gorm.DB
}

func NewServingService(db *gorm.DB) *ServingService {
	return &ServingService{db: db}
}

// Serve deducts the meal's ingredient cost for portionCount portions and
// appends the serving record, all inside one transaction. Requirements are
// processed in ingredient-id order so concurrent serves touching the same
// ingredients always lock rows in the same sequence. A meal without a
// recipe costs nothing and succeeds trivially.
//
// userID records who served; nil is allowed and preserved on the record.
func (s *ServingService) Serve(mealID uint, userID *uint, portionCount int) (*models.Serving, error) {
	if portionCount < 1 {
		return nil, ErrInvalidPortionCount
	}

	var meal models.Meal
	if err := s.db.First(&meal, mealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}

	var recipes []models.Recipe
	if err := s.db.Where("meal_id = ?", mealID).
		Order("ingredient_id").
		Find(&recipes).Error; err != nil {
		return nil, err
	}

	serving := models.Serving{
		MealID:       meal.ID,
		UserID:       userID,
		ServedAt:     time.Now().UTC(),
		PortionCount: portionCount,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, r := range recipes {
			if r.Quantity <= 0 {
				return &DataIntegrityError{
					Reason: fmt.Sprintf("recipe %d has non-positive per-portion quantity %.2f", r.ID, r.Quantity),
				}
			}

			required := r.Quantity * float64(portionCount)
			ok, err := tryDecrement(tx, r.IngredientID, required)
			if err != nil {
				return err
			}
			if ok {
				continue
			}

			// Deduction refused: report the blocking ingredient with the
			// amounts seen inside this transaction.
			var ing models.Ingredient
			if err := tx.First(&ing, r.IngredientID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &DataIntegrityError{
						Reason: fmt.Sprintf("recipe %d references missing ingredient %d", r.ID, r.IngredientID),
					}
				}
				return err
			}
			return &InsufficientStockError{
				IngredientID: ing.ID,
				Ingredient:   ing.Name,
				Available:    ing.Quantity,
				Required:     required,
			}
		}

		return tx.Create(&serving).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info("meal served",
		"meal_id", meal.ID,
		"meal", meal.Name,
		"portions", portionCount,
		"ingredients", len(recipes),
	)
	return &serving, nil
}
