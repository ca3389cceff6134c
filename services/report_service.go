package services

import (
	"fmt"
	"time"

	"github.com/Azizbek0606/kitchen-inventory/cache"
	"github.com/Azizbek0606/kitchen-inventory/config"
	"github.com/Azizbek0606/kitchen-inventory/logger"
	"github.com/Azizbek0606/kitchen-inventory/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportService aggregates a month's serving activity per meal and
// compares it with what current stock could still produce. Reports are
// rebuildable projections: regenerating the same (meal, month) with
// unchanged underlying data yields identical values.
type ReportService struct {
	db        *gorm.DB
	estimates *EstimateService
	memo      *cache.Cache
	threshold float64
	ttl       time.Duration
}

func NewReportService(db *gorm.DB, estimates *EstimateService, memo *cache.Cache) *ReportService {
	return &ReportService{
		db:        db,
		estimates: estimates,
		memo:      memo,
		threshold: config.WarningThreshold(),
		ttl:       config.ReportTTL(),
	}
}

// MonthStart normalizes any timestamp to the first instant of its calendar
// month, UTC. Reports are keyed by this value.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Generate builds and upserts the report for one meal and one calendar
// month. prepared counts servings in [month, month+1); possible is the
// estimator's answer against stock at aggregation time. The shortfall
// percentage is 0 when nothing is producible, so a recipe-less meal gets a
// defined, warning-free report rather than a division error.
func (s *ReportService) Generate(mealID uint, month time.Time) (*models.Report, error) {
	month = MonthStart(month)
	next := month.AddDate(0, 1, 0)

	est, err := s.estimates.Estimate(mealID)
	if err != nil {
		return nil, err
	}

	var prepared int64
	if err := s.db.Model(&models.Serving{}).
		Where("meal_id = ? AND served_at >= ? AND served_at < ?", mealID, month, next).
		Select("COALESCE(SUM(portion_count), 0)").
		Scan(&prepared).Error; err != nil {
		return nil, err
	}

	possible := est.PossiblePortions
	diff := 0.0
	if possible > 0 {
		diff = float64(possible-int(prepared)) / float64(possible) * 100
	}

	report := models.Report{
		MealID:               mealID,
		Month:                month,
		PreparedPortions:     int(prepared),
		PossiblePortions:     possible,
		DifferencePercentage: diff,
		WarningTriggered:     diff > s.threshold,
	}
	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "meal_id"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"prepared_portions", "possible_portions", "difference_percentage", "warning_triggered", "updated_at",
		}),
	}).Create(&report).Error; err != nil {
		return nil, err
	}

	return &report, nil
}

// GenerateForMonth regenerates reports for every meal for the given month.
// A recently generated (meal, month) pair is skipped via the memo; a meal
// that fails is skipped and logged so one bad row cannot abort the batch.
// Idempotent and safe to trigger twice for the same period.
func (s *ReportService) GenerateForMonth(month time.Time) (int, error) {
	month = MonthStart(month)

	var meals []models.Meal
	if err := s.db.Find(&meals).Error; err != nil {
		return 0, err
	}

	generated := 0
	for _, meal := range meals {
		key := fmt.Sprintf("report_%d_%s", meal.ID, month.Format("2006-01"))
		if _, ok := s.memo.Get(key); ok {
			continue
		}

		report, err := s.Generate(meal.ID, month)
		if err != nil {
			logger.Warn("report generation skipped", "meal_id", meal.ID, "error", err)
			continue
		}

		s.memo.Set(key, report, s.ttl)
		generated++
	}
	return generated, nil
}

// Threshold returns the shortfall percentage above which reports raise
// their warning flag.
func (s *ReportService) Threshold() float64 {
	return s.threshold
}
