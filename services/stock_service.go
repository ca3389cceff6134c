package services

import (
	"errors"
	"fmt"

	"github.com/Azizbek0606/kitchen-inventory/models"

	"gorm.io/gorm"
)

// StockService is the one writer allowed to decrement ingredient stock.
// Every decrement is a guarded single-statement update, so the read-check-
// write sequence is atomic at the database and stock can never go negative
// regardless of how calls interleave.
type StockService struct {
	db *gorm.DB
}

func NewStockService(db *gorm.DB) *StockService {
	return &StockService{db: db}
}

// CurrentQuantity returns the ingredient's stock in grams. A negative value
// in storage is surfaced as a data-integrity error, never clamped.
func (s *StockService) CurrentQuantity(ingredientID uint) (float64, error) {
	var ing models.Ingredient
	if err := s.db.First(&ing, ingredientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrIngredientNotFound
		}
		return 0, err
	}
	if ing.Quantity < 0 {
		return 0, &DataIntegrityError{
			Reason: fmt.Sprintf("ingredient %q has negative stock %.2f", ing.Name, ing.Quantity),
		}
	}
	return ing.Quantity, nil
}

// TryDecrement removes amount grams from the ingredient, or returns an
// InsufficientStockError without mutating anything. The two outcomes are
// mutually exclusive under concurrent callers.
func (s *StockService) TryDecrement(ingredientID uint, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	ok, err := tryDecrement(s.db, ingredientID, amount)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	var ing models.Ingredient
	if err := s.db.First(&ing, ingredientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIngredientNotFound
		}
		return err
	}
	return &InsufficientStockError{
		IngredientID: ing.ID,
		Ingredient:   ing.Name,
		Available:    ing.Quantity,
		Required:     amount,
	}
}

// tryDecrement issues the guarded decrement on one ingredient row. The
// quantity check and the subtraction happen in a single UPDATE, so two
// concurrent decrements can never together drive the row negative: the
// loser's WHERE clause re-evaluates against the winner's committed state.
func tryDecrement(tx *gorm.DB, ingredientID uint, amount float64) (bool, error) {
	res := tx.Model(&models.Ingredient{}).
		Where("id = ? AND quantity >= ?", ingredientID, amount).
		Update("quantity", gorm.Expr("quantity - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
