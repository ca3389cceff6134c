package controllers

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/Azizbek0606/kitchen-inventory/database"
	"github.com/Azizbek0606/kitchen-inventory/middleware"
	"github.com/Azizbek0606/kitchen-inventory/models"
)

type serveMealRequest struct {
	MealID       uint `json:"meal_id"`
	PortionCount int  `json:"portion_count"`
}

// ServeMeal executes a serve request: atomic multi-ingredient deduction
// plus serving record, or a clean typed failure with nothing changed.
func ServeMeal(w http.ResponseWriter, r *http.Request) {
	var req serveMealRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var userID *uint
	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		id := claims.UserID
		userID = &id
	}

	serving, err := servingService().Serve(req.MealID, userID, req.PortionCount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, serving)
}

// ListServings returns the serving history, newest first.
func ListServings(w http.ResponseWriter, r *http.Request) {
	var servings []models.Serving
	if err := database.DB.Preload("Meal").
		Order("served_at DESC").
		Find(&servings).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, servings)
}

// GetPortionEstimate answers "how many portions of this meal can we still
// prepare" against live stock, for on-demand display.
func GetPortionEstimate(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("meal_id")
	mealID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || mealID == 0 {
		writeError(w, http.StatusBadRequest, "invalid meal_id")
		return
	}

	est, err := estimateService().Estimate(uint(mealID))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

// ServingsByUser aggregates total served portions per user.
func ServingsByUser(w http.ResponseWriter, r *http.Request) {
	var out []struct {
		Username      string `json:"username"`
		TotalPortions int    `json:"total_portions"`
	}
	if err := database.DB.Model(&models.Serving{}).
		Select("COALESCE(users.username, 'unknown') AS username, SUM(servings.portion_count) AS total_portions").
		Joins("LEFT JOIN users ON users.id = servings.user_id").
		Group("users.username").
		Order("username").
		Scan(&out).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ServingsByDate aggregates total served portions per calendar month.
// Grouping happens in Go so the query stays identical across postgres and
// sqlite.
func ServingsByDate(w http.ResponseWriter, r *http.Request) {
	var servings []models.Serving
	if err := database.DB.Find(&servings).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	totals := make(map[string]int)
	for _, s := range servings {
		totals[s.ServedAt.UTC().Format("2006-01")] += s.PortionCount
	}

	months := make([]string, 0, len(totals))
	for m := range totals {
		months = append(months, m)
	}
	sort.Strings(months)

	type monthTotal struct {
		Month         string `json:"month"`
		TotalPortions int    `json:"total_portions"`
	}
	out := make([]monthTotal, 0, len(months))
	for _, m := range months {
		out = append(out, monthTotal{Month: m, TotalPortions: totals[m]})
	}
	writeJSON(w, http.StatusOK, out)
}
