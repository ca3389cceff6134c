package services

import (
	"errors"
	"fmt"
)

var (
	// ErrMealNotFound is returned when a meal reference does not resolve.
	ErrMealNotFound = errors.New("meal not found")

	// ErrIngredientNotFound is returned when an ingredient reference does
	// not resolve.
	ErrIngredientNotFound = errors.New("ingredient not found")

	// ErrInvalidPortionCount rejects serve requests before any mutation.
	ErrInvalidPortionCount = errors.New("portion count must be at least 1")

	// ErrInvalidAmount rejects non-positive stock amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// InsufficientStockError is the expected failure mode of a serve attempt:
// the first blocking ingredient with its available and required amounts.
// Callers branch on it with errors.As; it is an outcome, not an internal
// failure.
type InsufficientStockError struct {
	IngredientID uint    `json:"ingredient_id"`
	Ingredient   string  `json:"ingredient"`
	Available    float64 `json:"available"`
	Required     float64 `json:"required"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock of %s: available %.2fg, required %.2fg",
		e.Ingredient, e.Available, e.Required)
}

// DataIntegrityError marks state that must never occur if invariants hold:
// negative stock observed, or a recipe with a non-positive per-portion
// quantity. It aborts the current operation and is never corrected
// silently.
type DataIntegrityError struct {
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return "data integrity violation: " + e.Reason
}
