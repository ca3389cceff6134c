package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Azizbek0606/kitchen-inventory/cache"
	"github.com/Azizbek0606/kitchen-inventory/database"
	"github.com/Azizbek0606/kitchen-inventory/logger"
	"github.com/Azizbek0606/kitchen-inventory/services"

	"github.com/go-chi/chi/v5"
)

// memo is the shared TTL cache consulted by the estimator and report
// paths. It lives for the process lifetime; expiry is its only
// invalidation.
var memo = cache.New()

func estimateService() *services.EstimateService {
	return services.NewEstimateService(database.DB, memo)
}

func servingService() *services.ServingService {
	return services.NewServingService(database.DB)
}

func stockService() *services.StockService {
	return services.NewStockService(database.DB)
}

func reportService() *services.ReportService {
	return services.NewReportService(database.DB, estimateService(), memo)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// idParam parses a numeric chi URL parameter.
func idParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return uint(id), nil
}

// writeServiceError maps service-layer errors onto HTTP responses per the
// propagation policy: not-found and invalid-input reject cleanly,
// insufficient stock is a typed client-visible outcome, and integrity
// violations surface as internal errors that must be investigated.
func writeServiceError(w http.ResponseWriter, err error) {
	var insufficient *services.InsufficientStockError
	var integrity *services.DataIntegrityError

	switch {
	case errors.Is(err, services.ErrMealNotFound),
		errors.Is(err, services.ErrIngredientNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidPortionCount),
		errors.Is(err, services.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":   "insufficient stock",
			"details": insufficient,
		})
	case errors.As(err, &integrity):
		logger.Error("data integrity violation", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		logger.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
