package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Azizbek0606/kitchen-inventory/database"
	"github.com/Azizbek0606/kitchen-inventory/logger"
	"github.com/Azizbek0606/kitchen-inventory/models"
	"github.com/Azizbek0606/kitchen-inventory/services"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// monthQuery parses the optional ?month=YYYY-MM parameter, defaulting to
// the current month.
func monthQuery(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return services.MonthStart(time.Now().UTC()), nil
	}
	t, err := time.Parse("2006-01", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("month must be YYYY-MM")
	}
	return services.MonthStart(t), nil
}

// ListReports returns all generated reports, newest month first.
func ListReports(w http.ResponseWriter, r *http.Request) {
	var reports []models.Report
	if err := database.DB.Preload("Meal").
		Order("month DESC, meal_id").
		Find(&reports).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// ReportWarnings lists only the reports whose shortfall crossed the
// warning threshold.
func ReportWarnings(w http.ResponseWriter, r *http.Request) {
	var reports []models.Report
	if err := database.DB.Preload("Meal").
		Where("warning_triggered = ?", true).
		Order("month DESC, meal_id").
		Find(&reports).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// GenerateReports triggers report generation for every meal for the
// requested month. Idempotent: re-running for the same month upserts the
// same rows.
func GenerateReports(w http.ResponseWriter, r *http.Request) {
	month, err := monthQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := reportService().GenerateForMonth(month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"month":     month.Format("2006-01"),
		"generated": n,
	})
}

// RefreshEstimates recomputes and persists every meal's portion estimate.
func RefreshEstimates(w http.ResponseWriter, r *http.Request) {
	n, err := estimateService().RefreshAll()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"refreshed": n})
}

// ListEstimates returns the persisted per-meal estimate snapshots.
func ListEstimates(w http.ResponseWriter, r *http.Request) {
	var estimates []models.PortionEstimate
	if err := database.DB.Preload("Meal").
		Order("meal_id").
		Find(&estimates).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, estimates)
}

// ExportReports streams the month's reports as an XLSX workbook.
func ExportReports(w http.ResponseWriter, r *http.Request) {
	month, err := monthQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var reports []models.Report
	if err := database.DB.Preload("Meal").
		Where("month = ?", month).
		Order("meal_id").
		Find(&reports).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	f := excelize.NewFile()
	sheet := "Reports"
	index, err := f.NewSheet(sheet)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Meal", "Month", "Prepared portions", "Possible portions", "Difference %", "Warning"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for idx, rep := range reports {
		row := idx + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), rep.Meal.Name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), rep.Month.Format("2006-01"))
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), rep.PreparedPortions)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), rep.PossiblePortions)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), rep.DifferencePercentage)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), rep.WarningTriggered)
	}

	_ = f.SetColWidth(sheet, "A", "A", 24)
	_ = f.SetColWidth(sheet, "B", "F", 16)

	fileName := fmt.Sprintf("reports-%s-%s.xlsx", month.Format("2006-01"), uuid.New().String()[:8])
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))

	if err := f.Write(w); err != nil {
		logger.Error("report export failed", "error", err)
	}
}
