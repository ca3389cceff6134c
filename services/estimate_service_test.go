package services

import (
	"errors"
	"testing"

	"github.com/Azizbek0606/kitchen-inventory/models"
)

func TestEstimate_ScarcestIngredientBinds(t *testing.T) {
	db := newTestDB(t)
	svc := newEstimateService(db)

	a := seedIngredient(t, db, "rice", 350)
	b := seedIngredient(t, db, "butter", 120)
	meal := seedMeal(t, db, "palov")
	seedRecipe(t, db, meal.ID, a.ID, 100)
	seedRecipe(t, db, meal.ID, b.ID, 50)

	est, err := svc.Estimate(meal.ID)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	// min(350/100=3, 120/50=2) = 2
	if est.PossiblePortions != 2 {
		t.Errorf("PossiblePortions = %d, want 2", est.PossiblePortions)
	}
	if !est.HasRecipe {
		t.Error("HasRecipe = false, want true")
	}
	if est.MealName != "palov" {
		t.Errorf("MealName = %q, want palov", est.MealName)
	}
}

func TestEstimate_NoRecipeYieldsZero(t *testing.T) {
	db := newTestDB(t)
	svc := newEstimateService(db)

	meal := seedMeal(t, db, "choy")

	est, err := svc.Estimate(meal.ID)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if est.PossiblePortions != 0 {
		t.Errorf("PossiblePortions = %d, want 0 for recipe-less meal", est.PossiblePortions)
	}
	if est.HasRecipe {
		t.Error("HasRecipe = true, want false")
	}
}

func TestEstimate_UnknownMeal(t *testing.T) {
	db := newTestDB(t)
	svc := newEstimateService(db)

	if _, err := svc.Estimate(9999); !errors.Is(err, ErrMealNotFound) {
		t.Errorf("Estimate(9999) error = %v, want ErrMealNotFound", err)
	}
}

func TestEstimate_NonPositiveRecipeQuantityIsIntegrityError(t *testing.T) {
	db := newTestDB(t)
	svc := newEstimateService(db)

	ing := seedIngredient(t, db, "salt", 500)
	meal := seedMeal(t, db, "sho'rva")
	seedRecipe(t, db, meal.ID, ing.ID, 0) // corrupt row, bypassing write-time validation

	var integrity *DataIntegrityError
	if _, err := svc.Estimate(meal.ID); !errors.As(err, &integrity) {
		t.Errorf("Estimate() error = %v, want DataIntegrityError", err)
	}
}

func TestPossiblePortions_NegativeStockIsIntegrityError(t *testing.T) {
	recipes := []models.Recipe{
		{ID: 1, Quantity: 100, Ingredient: models.Ingredient{Name: "rice", Quantity: -5}},
	}
	var integrity *DataIntegrityError
	if _, err := possiblePortions(recipes); !errors.As(err, &integrity) {
		t.Errorf("possiblePortions() error = %v, want DataIntegrityError", err)
	}
}

func TestCached_ServesStaleUntilTTL(t *testing.T) {
	db := newTestDB(t)
	svc := newEstimateService(db)

	ing := seedIngredient(t, db, "rice", 300)
	meal := seedMeal(t, db, "palov")
	seedRecipe(t, db, meal.ID, ing.ID, 100)

	first, err := svc.Cached(meal.ID)
	if err != nil {
		t.Fatalf("Cached() error = %v", err)
	}
	if first.PossiblePortions != 3 {
		t.Fatalf("PossiblePortions = %d, want 3", first.PossiblePortions)
	}

	// Stock changes do not invalidate the memo; only expiry does.
	if err := db.Model(&models.Ingredient{}).Where("id = ?", ing.ID).Update("quantity", 100).Error; err != nil {
		t.Fatalf("update stock: %v", err)
	}

	second, err := svc.Cached(meal.ID)
	if err != nil {
		t.Fatalf("Cached() error = %v", err)
	}
	if second.PossiblePortions != 3 {
		t.Errorf("cached PossiblePortions = %d, want stale 3", second.PossiblePortions)
	}

	fresh, err := svc.Estimate(meal.ID)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if fresh.PossiblePortions != 1 {
		t.Errorf("live PossiblePortions = %d, want 1", fresh.PossiblePortions)
	}
}

func TestRefreshAll_UpsertsProjectionAndSkipsBadMeals(t *testing.T) {
	db := newTestDB(t)
	svc := newEstimateService(db)

	rice := seedIngredient(t, db, "rice", 500)
	good := seedMeal(t, db, "palov")
	seedRecipe(t, db, good.ID, rice.ID, 100)

	salt := seedIngredient(t, db, "salt", 100)
	bad := seedMeal(t, db, "sho'rva")
	seedRecipe(t, db, bad.ID, salt.ID, 0) // corrupt: refresh must skip, not abort

	n, err := svc.RefreshAll()
	if err != nil {
		t.Fatalf("RefreshAll() error = %v", err)
	}
	if n != 1 {
		t.Errorf("refreshed = %d, want 1", n)
	}

	var row models.PortionEstimate
	if err := db.Where("meal_id = ?", good.ID).First(&row).Error; err != nil {
		t.Fatalf("load estimate row: %v", err)
	}
	if row.PossiblePortions != 5 {
		t.Errorf("PossiblePortions = %d, want 5", row.PossiblePortions)
	}

	// A re-trigger within the memo TTL recomputes nothing.
	n, err = svc.RefreshAll()
	if err != nil {
		t.Fatalf("RefreshAll() re-trigger error = %v", err)
	}
	if n != 0 {
		t.Errorf("refreshed on re-trigger = %d, want 0", n)
	}

	// Once the memo no longer covers the meal, refresh updates the
	// projection in place rather than inserting a duplicate.
	if err := db.Model(&models.Ingredient{}).Where("id = ?", rice.ID).Update("quantity", 250).Error; err != nil {
		t.Fatalf("update stock: %v", err)
	}
	cold := newEstimateService(db)
	if _, err := cold.RefreshAll(); err != nil {
		t.Fatalf("RefreshAll() cold run error = %v", err)
	}

	var rows []models.PortionEstimate
	if err := db.Where("meal_id = ?", good.ID).Find(&rows).Error; err != nil {
		t.Fatalf("load estimate rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("estimate rows = %d, want 1", len(rows))
	}
	if rows[0].PossiblePortions != 2 {
		t.Errorf("PossiblePortions after restock = %d, want 2", rows[0].PossiblePortions)
	}
}
