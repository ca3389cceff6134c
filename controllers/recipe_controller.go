package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Azizbek0606/kitchen-inventory/database"
	"github.com/Azizbek0606/kitchen-inventory/models"

	"gorm.io/gorm"
)

type recipeRequest struct {
	MealID       uint    `json:"meal_id"`
	IngredientID uint    `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"` // grams per portion
}

// ListRecipes returns recipe rows, optionally filtered by ?meal_id=.
func ListRecipes(w http.ResponseWriter, r *http.Request) {
	q := database.DB.Preload("Meal").Preload("Ingredient")
	if raw := r.URL.Query().Get("meal_id"); raw != "" {
		mealID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid meal_id")
			return
		}
		q = q.Where("meal_id = ?", mealID)
	}

	var recipes []models.Recipe
	if err := q.Order("meal_id, ingredient_id").Find(&recipes).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

// CreateRecipe links an ingredient requirement to a meal. The per-portion
// quantity is validated strictly positive here, at write time: the
// estimator and the serving path divide by it and treat a non-positive
// stored value as corruption.
func CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	if err := database.DB.First(&models.Meal{}, req.MealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "meal not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if err := database.DB.First(&models.Ingredient{}, req.IngredientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "ingredient not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	recipe := models.Recipe{
		MealID:       req.MealID,
		IngredientID: req.IngredientID,
		Quantity:     req.Quantity,
	}
	if err := database.DB.Create(&recipe).Error; err != nil {
		writeError(w, http.StatusBadRequest, "recipe for this meal and ingredient already exists")
		return
	}
	writeJSON(w, http.StatusCreated, recipe)
}

// UpdateRecipe changes the per-portion quantity of a requirement.
func UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "recipe_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var recipe models.Recipe
	if err := database.DB.First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "recipe not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	var req struct {
		Quantity float64 `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	recipe.Quantity = req.Quantity
	if err := database.DB.Save(&recipe).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update recipe")
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

// DeleteRecipe removes one requirement row.
func DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "recipe_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := database.DB.Delete(&models.Recipe{}, id)
	if res.Error != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if res.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
