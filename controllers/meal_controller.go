package controllers

import (
	"errors"
	"net/http"

	"github.com/Azizbek0606/kitchen-inventory/database"
	"github.com/Azizbek0606/kitchen-inventory/models"

	"gorm.io/gorm"
)

type mealRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ListMeals returns all meals.
func ListMeals(w http.ResponseWriter, r *http.Request) {
	var meals []models.Meal
	if err := database.DB.Order("name").Find(&meals).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, meals)
}

// GetMeal returns one meal with its recipe rows.
func GetMeal(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "meal_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var meal models.Meal
	if err := database.DB.Preload("Recipes.Ingredient").First(&meal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "meal not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, meal)
}

// CreateMeal registers a new meal.
func CreateMeal(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	meal := models.Meal{Name: req.Name}
	if req.Type != "" {
		meal.Type = req.Type
	}
	if err := database.DB.Create(&meal).Error; err != nil {
		writeError(w, http.StatusBadRequest, "meal already exists or is invalid")
		return
	}
	writeJSON(w, http.StatusCreated, meal)
}

// UpdateMeal renames or retags a meal.
func UpdateMeal(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "meal_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var meal models.Meal
	if err := database.DB.First(&meal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "meal not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	var req mealRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name != "" {
		meal.Name = req.Name
	}
	if req.Type != "" {
		meal.Type = req.Type
	}
	if err := database.DB.Save(&meal).Error; err != nil {
		writeError(w, http.StatusBadRequest, "failed to update meal")
		return
	}
	writeJSON(w, http.StatusOK, meal)
}

// DeleteMeal removes a meal and its dependent recipe rows.
func DeleteMeal(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "meal_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := database.DB.Delete(&models.Meal{}, id)
	if res.Error != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if res.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "meal not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// MealsByType aggregates served portions per meal type.
func MealsByType(w http.ResponseWriter, r *http.Request) {
	var out []struct {
		Type     string `json:"type"`
		Portions int    `json:"portions"`
	}
	if err := database.DB.Model(&models.Meal{}).
		Select("meals.type AS type, COALESCE(SUM(servings.portion_count), 0) AS portions").
		Joins("LEFT JOIN servings ON servings.meal_id = meals.id").
		Group("meals.type").
		Order("meals.type").
		Scan(&out).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, out)
}
