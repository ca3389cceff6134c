package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/Azizbek0606/kitchen-inventory/models"
)

func TestServe_DeductsAndRecords(t *testing.T) {
	db := newTestDB(t)
	svc := NewServingService(db)

	rice := seedIngredient(t, db, "rice", 1000)
	meal := seedMeal(t, db, "palov")
	seedRecipe(t, db, meal.ID, rice.ID, 100)

	serving, err := svc.Serve(meal.ID, nil, 2)
	if err != nil {
		t.Fatalf("Serve() error = %v", err)
	}
	if serving.PortionCount != 2 {
		t.Errorf("PortionCount = %d, want 2", serving.PortionCount)
	}
	if serving.UserID != nil {
		t.Errorf("UserID = %v, want nil", serving.UserID)
	}
	if got := ingredientQuantity(t, db, rice.ID); got != 800 {
		t.Errorf("rice quantity = %.2f, want 800", got)
	}

	// 9 more portions need 900g; only 800g remain.
	_, err = svc.Serve(meal.ID, nil, 9)
	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Serve() error = %v, want InsufficientStockError", err)
	}
	if insufficient.Available != 800 || insufficient.Required != 900 {
		t.Errorf("error amounts = (%.0f available, %.0f required), want (800, 900)",
			insufficient.Available, insufficient.Required)
	}
	if got := ingredientQuantity(t, db, rice.ID); got != 800 {
		t.Errorf("rice quantity after failed serve = %.2f, want unchanged 800", got)
	}
}

func TestServe_AllOrNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewServingService(db)

	rice := seedIngredient(t, db, "rice", 1000)
	butter := seedIngredient(t, db, "butter", 30)
	meal := seedMeal(t, db, "palov")
	seedRecipe(t, db, meal.ID, rice.ID, 100)
	seedRecipe(t, db, meal.ID, butter.ID, 50)

	_, err := svc.Serve(meal.ID, nil, 1)
	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Serve() error = %v, want InsufficientStockError", err)
	}
	if insufficient.Ingredient != "butter" {
		t.Errorf("blocking ingredient = %q, want butter", insufficient.Ingredient)
	}

	// Rice was sufficient but must roll back with the failed transaction.
	if got := ingredientQuantity(t, db, rice.ID); got != 1000 {
		t.Errorf("rice quantity = %.2f, want untouched 1000", got)
	}
	if got := ingredientQuantity(t, db, butter.ID); got != 30 {
		t.Errorf("butter quantity = %.2f, want untouched 30", got)
	}

	var count int64
	db.Model(&models.Serving{}).Count(&count)
	if count != 0 {
		t.Errorf("serving records = %d, want 0 after failed serve", count)
	}
}

func TestServe_ZeroCostMeal(t *testing.T) {
	db := newTestDB(t)
	svc := NewServingService(db)

	meal := seedMeal(t, db, "choy")

	serving, err := svc.Serve(meal.ID, nil, 3)
	if err != nil {
		t.Fatalf("Serve() error = %v, want trivial success for recipe-less meal", err)
	}
	if serving.PortionCount != 3 {
		t.Errorf("PortionCount = %d, want 3", serving.PortionCount)
	}
}

func TestServe_InputValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewServingService(db)

	meal := seedMeal(t, db, "palov")

	if _, err := svc.Serve(meal.ID, nil, 0); !errors.Is(err, ErrInvalidPortionCount) {
		t.Errorf("Serve(portions=0) error = %v, want ErrInvalidPortionCount", err)
	}
	if _, err := svc.Serve(9999, nil, 1); !errors.Is(err, ErrMealNotFound) {
		t.Errorf("Serve(unknown meal) error = %v, want ErrMealNotFound", err)
	}
}

func TestServe_ConcurrentContention(t *testing.T) {
	db := newTestDB(t)
	svc := NewServingService(db)

	// Stock for exactly one portion.
	rice := seedIngredient(t, db, "rice", 100)
	meal := seedMeal(t, db, "palov")
	seedRecipe(t, db, meal.ID, rice.ID, 100)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Serve(meal.ID, nil, 1)
		}(i)
	}
	wg.Wait()

	var successes, insufficients int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		default:
			var insufficient *InsufficientStockError
			if errors.As(err, &insufficient) {
				insufficients++
			} else {
				t.Fatalf("unexpected serve error: %v", err)
			}
		}
	}
	if successes != 1 || insufficients != 1 {
		t.Errorf("outcomes = %d successes, %d insufficient; want exactly 1 and 1", successes, insufficients)
	}
	if got := ingredientQuantity(t, db, rice.ID); got != 0 {
		t.Errorf("rice quantity = %.2f, want 0 and never negative", got)
	}
}
