package jobs

import (
	"time"

	"github.com/Azizbek0606/kitchen-inventory/config"
	"github.com/Azizbek0606/kitchen-inventory/logger"
	"github.com/Azizbek0606/kitchen-inventory/services"
)

// Scheduler drives the periodic background duties: refreshing portion
// estimates and regenerating the current month's reports. Both jobs are
// idempotent, so an extra tick (or a tick racing a manual trigger through
// the API) is harmless.
type Scheduler struct {
	estimates *services.EstimateService
	reports   *services.ReportService

	estimateEvery time.Duration
	reportEvery   time.Duration
	stop          chan struct{}
}

// Start creates the scheduler and launches its loop. Intervals come from
// ESTIMATE_REFRESH_INTERVAL and REPORT_REFRESH_INTERVAL (both default 24h).
func Start(estimates *services.EstimateService, reports *services.ReportService) *Scheduler {
	s := &Scheduler{
		estimates:     estimates,
		reports:       reports,
		estimateEvery: config.GetEnvDuration("ESTIMATE_REFRESH_INTERVAL", 24*time.Hour),
		reportEvery:   config.GetEnvDuration("REPORT_REFRESH_INTERVAL", 24*time.Hour),
		stop:          make(chan struct{}),
	}
	go s.run()
	logger.Info("scheduler started",
		"estimate_interval", s.estimateEvery.String(),
		"report_interval", s.reportEvery.String(),
	)
	return s
}

// Stop terminates the scheduler loop.
func (s *Scheduler) Stop() {
	close(s.stop)
}

func (s *Scheduler) run() {
	// Prime the estimate projection on startup so the API never serves an
	// empty table after a fresh deployment.
	s.refreshEstimates()

	estimateTick := time.NewTicker(s.estimateEvery)
	reportTick := time.NewTicker(s.reportEvery)
	defer estimateTick.Stop()
	defer reportTick.Stop()

	for {
		select {
		case <-estimateTick.C:
			s.refreshEstimates()
		case <-reportTick.C:
			s.generateReports()
		case <-s.stop:
			return
		}
	}
}

func (s *Scheduler) refreshEstimates() {
	n, err := s.estimates.RefreshAll()
	if err != nil {
		logger.Error("estimate refresh failed", "error", err)
		return
	}
	logger.Info("estimates refreshed", "meals", n)
}

func (s *Scheduler) generateReports() {
	n, err := s.reports.GenerateForMonth(time.Now().UTC())
	if err != nil {
		logger.Error("report generation failed", "error", err)
		return
	}
	logger.Info("monthly reports generated", "reports", n)
}
