package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Azizbek0606/kitchen-inventory/cache"
	"github.com/Azizbek0606/kitchen-inventory/database"
	"github.com/Azizbek0606/kitchen-inventory/models"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedIngredient(t *testing.T, db *gorm.DB, name string, quantity float64) models.Ingredient {
	t.Helper()
	ing := models.Ingredient{
		Name:         name,
		Quantity:     quantity,
		DeliveryDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&ing).Error; err != nil {
		t.Fatalf("seed ingredient %s: %v", name, err)
	}
	return ing
}

func seedMeal(t *testing.T, db *gorm.DB, name string) models.Meal {
	t.Helper()
	meal := models.Meal{Name: name, Type: "tushlik"}
	if err := db.Create(&meal).Error; err != nil {
		t.Fatalf("seed meal %s: %v", name, err)
	}
	return meal
}

func seedRecipe(t *testing.T, db *gorm.DB, mealID, ingredientID uint, perPortion float64) models.Recipe {
	t.Helper()
	recipe := models.Recipe{MealID: mealID, IngredientID: ingredientID, Quantity: perPortion}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("seed recipe: %v", err)
	}
	return recipe
}

func seedServing(t *testing.T, db *gorm.DB, mealID uint, servedAt time.Time, portions int) {
	t.Helper()
	serving := models.Serving{MealID: mealID, ServedAt: servedAt, PortionCount: portions}
	if err := db.Create(&serving).Error; err != nil {
		t.Fatalf("seed serving: %v", err)
	}
}

func ingredientQuantity(t *testing.T, db *gorm.DB, id uint) float64 {
	t.Helper()
	var ing models.Ingredient
	if err := db.First(&ing, id).Error; err != nil {
		t.Fatalf("load ingredient %d: %v", id, err)
	}
	return ing.Quantity
}

func newEstimateService(db *gorm.DB) *EstimateService {
	return NewEstimateService(db, cache.New())
}
