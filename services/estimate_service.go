package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Azizbek0606/kitchen-inventory/cache"
	"github.com/Azizbek0606/kitchen-inventory/config"
	"github.com/Azizbek0606/kitchen-inventory/logger"
	"github.com/Azizbek0606/kitchen-inventory/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Estimate is the estimator's answer for one meal. HasRecipe distinguishes
// "stock allows zero portions" from "meal has no recipe at all": a meal
// without requirements reports 0 portions rather than unlimited, and
// callers can flag it separately.
type Estimate struct {
	MealID           uint   `json:"meal_id"`
	MealName         string `json:"meal_name"`
	PossiblePortions int    `json:"possible_portions"`
	HasRecipe        bool   `json:"has_recipe"`
}

// EstimateService computes feasible portion counts from live stock. The
// computation is pure with respect to its inputs; results read through the
// memo may lag a concurrent serve by up to the TTL.
type EstimateService struct {
	db   *gorm.DB
	memo *cache.Cache
	ttl  time.Duration
}

func NewEstimateService(db *gorm.DB, memo *cache.Cache) *EstimateService {
	return &EstimateService{db: db, memo: memo, ttl: config.EstimateTTL()}
}

// Estimate computes the feasible portion count for the meal against
// current stock, bypassing the memo.
func (s *EstimateService) Estimate(mealID uint) (*Estimate, error) {
	var meal models.Meal
	if err := s.db.First(&meal, mealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}

	var recipes []models.Recipe
	if err := s.db.Preload("Ingredient").
		Where("meal_id = ?", mealID).
		Order("ingredient_id").
		Find(&recipes).Error; err != nil {
		return nil, err
	}

	portions, err := possiblePortions(recipes)
	if err != nil {
		return nil, err
	}

	return &Estimate{
		MealID:           meal.ID,
		MealName:         meal.Name,
		PossiblePortions: portions,
		HasRecipe:        len(recipes) > 0,
	}, nil
}

// Cached returns the memoized estimate for the meal, computing and storing
// it on a miss.
func (s *EstimateService) Cached(mealID uint) (*Estimate, error) {
	key := fmt.Sprintf("portion_estimate_%d", mealID)
	v, err := s.memo.GetOrCompute(key, s.ttl, func() (any, error) {
		return s.Estimate(mealID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Estimate), nil
}

// RefreshAll recomputes estimates for every meal whose memo entry has
// expired, upserting the PortionEstimate projection and re-priming the
// memo. A meal still covered by a live entry is left alone; one that fails
// (deleted mid-run, corrupt recipe) is skipped and logged so the rest of
// the batch continues. Safe to invoke repeatedly and concurrently with
// live traffic.
func (s *EstimateService) RefreshAll() (int, error) {
	var meals []models.Meal
	if err := s.db.Find(&meals).Error; err != nil {
		return 0, err
	}

	refreshed := 0
	for _, meal := range meals {
		key := fmt.Sprintf("portion_estimate_%d", meal.ID)
		if _, ok := s.memo.Get(key); ok {
			continue
		}

		est, err := s.Estimate(meal.ID)
		if err != nil {
			logger.Warn("estimate refresh skipped", "meal_id", meal.ID, "error", err)
			continue
		}

		row := models.PortionEstimate{
			MealID:           meal.ID,
			PossiblePortions: est.PossiblePortions,
			UpdatedAt:        time.Now().UTC(),
		}
		if err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "meal_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"possible_portions", "updated_at"}),
		}).Create(&row).Error; err != nil {
			logger.Warn("estimate upsert failed", "meal_id", meal.ID, "error", err)
			continue
		}

		s.memo.Set(key, est, s.ttl)
		refreshed++
	}
	return refreshed, nil
}

// possiblePortions returns how many portions current stock can produce,
// bound by the scarcest required ingredient. A meal without a recipe
// yields 0: "no requirements" must not read as unlimited.
func possiblePortions(recipes []models.Recipe) (int, error) {
	if len(recipes) == 0 {
		return 0, nil
	}

	min := math.MaxInt
	for _, r := range recipes {
		if r.Quantity <= 0 {
			return 0, &DataIntegrityError{
				Reason: fmt.Sprintf("recipe %d has non-positive per-portion quantity %.2f", r.ID, r.Quantity),
			}
		}
		if r.Ingredient.Quantity < 0 {
			return 0, &DataIntegrityError{
				Reason: fmt.Sprintf("ingredient %q has negative stock %.2f", r.Ingredient.Name, r.Ingredient.Quantity),
			}
		}
		p := int(math.Floor(r.Ingredient.Quantity / r.Quantity))
		if p < min {
			min = p
		}
	}
	return min, nil
}
