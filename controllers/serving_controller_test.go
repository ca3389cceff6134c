package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Azizbek0606/kitchen-inventory/database"
	"github.com/Azizbek0606/kitchen-inventory/models"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	database.DB = db
}

func seedMealWithStock(t *testing.T, stock, perPortion float64) models.Meal {
	t.Helper()
	ing := models.Ingredient{
		Name:         "rice",
		Quantity:     stock,
		DeliveryDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := database.DB.Create(&ing).Error; err != nil {
		t.Fatalf("seed ingredient: %v", err)
	}
	meal := models.Meal{Name: "palov", Type: "tushlik"}
	if err := database.DB.Create(&meal).Error; err != nil {
		t.Fatalf("seed meal: %v", err)
	}
	recipe := models.Recipe{MealID: meal.ID, IngredientID: ing.ID, Quantity: perPortion}
	if err := database.DB.Create(&recipe).Error; err != nil {
		t.Fatalf("seed recipe: %v", err)
	}
	return meal
}

func TestServeMealEndpoint(t *testing.T) {
	setupTestDB(t)
	meal := seedMealWithStock(t, 300, 100)

	t.Run("Success", func(t *testing.T) {
		body := `{"meal_id": ` + jsonID(meal.ID) + `, "portion_count": 2}`
		req := httptest.NewRequest(http.MethodPost, "/servings/serve", strings.NewReader(body))
		w := httptest.NewRecorder()

		ServeMeal(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
		}
		var serving models.Serving
		if err := json.Unmarshal(w.Body.Bytes(), &serving); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if serving.PortionCount != 2 {
			t.Errorf("PortionCount = %d, want 2", serving.PortionCount)
		}
	})

	t.Run("InsufficientStockIsConflict", func(t *testing.T) {
		// 100g remain after the first serve; 2 portions need 200g.
		body := `{"meal_id": ` + jsonID(meal.ID) + `, "portion_count": 2}`
		req := httptest.NewRequest(http.MethodPost, "/servings/serve", strings.NewReader(body))
		w := httptest.NewRecorder()

		ServeMeal(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409; body: %s", w.Code, w.Body.String())
		}
		var resp struct {
			Error   string `json:"error"`
			Details struct {
				Ingredient string  `json:"ingredient"`
				Available  float64 `json:"available"`
				Required   float64 `json:"required"`
			} `json:"details"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Details.Available != 100 || resp.Details.Required != 200 {
			t.Errorf("details = %+v, want available 100, required 200", resp.Details)
		}
	})

	t.Run("UnknownMealIsNotFound", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/servings/serve",
			strings.NewReader(`{"meal_id": 9999, "portion_count": 1}`))
		w := httptest.NewRecorder()

		ServeMeal(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("InvalidPortionCountIsBadRequest", func(t *testing.T) {
		body := `{"meal_id": ` + jsonID(meal.ID) + `, "portion_count": 0}`
		req := httptest.NewRequest(http.MethodPost, "/servings/serve", strings.NewReader(body))
		w := httptest.NewRecorder()

		ServeMeal(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestGetPortionEstimateEndpoint(t *testing.T) {
	setupTestDB(t)
	meal := seedMealWithStock(t, 350, 100)

	req := httptest.NewRequest(http.MethodGet, "/servings/portion-estimate?meal_id="+jsonID(meal.ID), nil)
	w := httptest.NewRecorder()

	GetPortionEstimate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		MealName         string `json:"meal_name"`
		PossiblePortions int    `json:"possible_portions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.MealName != "palov" || resp.PossiblePortions != 3 {
		t.Errorf("response = %+v, want palov with 3 portions", resp)
	}
}

func jsonID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
