package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Azizbek0606/kitchen-inventory/database"
	"github.com/Azizbek0606/kitchen-inventory/models"

	"gorm.io/gorm"
)

type ingredientRequest struct {
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	MinQuantity  float64 `json:"min_quantity"`
	DeliveryDate string  `json:"delivery_date"` // YYYY-MM-DD
}

func (req *ingredientRequest) validate() (time.Time, string) {
	if req.Name == "" {
		return time.Time{}, "name is required"
	}
	if req.Quantity < 0 {
		return time.Time{}, "quantity must not be negative"
	}
	if req.MinQuantity < 0 {
		return time.Time{}, "min_quantity must not be negative"
	}
	delivered, err := time.Parse("2006-01-02", req.DeliveryDate)
	if err != nil {
		return time.Time{}, "delivery_date must be YYYY-MM-DD"
	}
	return delivered, ""
}

// ListIngredients returns all ingredients.
func ListIngredients(w http.ResponseWriter, r *http.Request) {
	var ingredients []models.Ingredient
	if err := database.DB.Order("name").Find(&ingredients).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, ingredients)
}

// GetIngredient returns one ingredient by id.
func GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "ingredient_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var ing models.Ingredient
	if err := database.DB.First(&ing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "ingredient not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, ing)
}

// CreateIngredient registers a new stock-tracked ingredient.
func CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req ingredientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	delivered, msg := req.validate()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ing := models.Ingredient{
		Name:         req.Name,
		Quantity:     req.Quantity,
		MinQuantity:  req.MinQuantity,
		DeliveryDate: delivered,
	}
	if err := database.DB.Create(&ing).Error; err != nil {
		writeError(w, http.StatusBadRequest, "ingredient already exists or is invalid")
		return
	}
	writeJSON(w, http.StatusCreated, ing)
}

// UpdateIngredient replaces an ingredient's registration data, including
// restocking its quantity. Decrements always go through the serving path.
func UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "ingredient_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var ing models.Ingredient
	if err := database.DB.First(&ing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "ingredient not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	var req ingredientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	delivered, msg := req.validate()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ing.Name = req.Name
	ing.Quantity = req.Quantity
	ing.MinQuantity = req.MinQuantity
	ing.DeliveryDate = delivered
	if err := database.DB.Save(&ing).Error; err != nil {
		writeError(w, http.StatusBadRequest, "failed to update ingredient")
		return
	}
	writeJSON(w, http.StatusOK, ing)
}

// DeleteIngredient permanently removes an ingredient together with every
// recipe row that requires it, in one transaction. Meals that used the
// ingredient become recipe-less on that row rather than unservable.
func DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "ingredient_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	found := false
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ingredient_id = ?", id).Delete(&models.Recipe{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Ingredient{}, id)
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected == 1
		return nil
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "ingredient not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// IngredientStock reports one ingredient's current stock level through the
// stock ledger, so a negative stored quantity surfaces as an integrity
// error instead of being served as a number.
func IngredientStock(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "ingredient_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	quantity, err := stockService().CurrentQuantity(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ingredient_id": id,
		"quantity":      quantity,
	})
}

// LowStockIngredients lists ingredients at or below their reorder
// threshold.
func LowStockIngredients(w http.ResponseWriter, r *http.Request) {
	var ingredients []models.Ingredient
	if err := database.DB.
		Where("quantity <= min_quantity").
		Order("name").
		Find(&ingredients).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, ingredients)
}
