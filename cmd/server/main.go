package main

import (
	"net/http"

	"github.com/joho/godotenv"

	"github.com/Azizbek0606/kitchen-inventory/cache"
	"github.com/Azizbek0606/kitchen-inventory/config"
	"github.com/Azizbek0606/kitchen-inventory/database"
	"github.com/Azizbek0606/kitchen-inventory/jobs"
	"github.com/Azizbek0606/kitchen-inventory/logger"
	"github.com/Azizbek0606/kitchen-inventory/routes"
	"github.com/Azizbek0606/kitchen-inventory/services"
)

func main() {
	logger.Init()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, using system env vars")
	}

	database.InitDB()

	// Background refresh of estimates and monthly reports. The scheduler
	// keeps its own memo; request handlers use theirs.
	estimates := services.NewEstimateService(database.DB, cache.New())
	reports := services.NewReportService(database.DB, estimates, cache.New())
	scheduler := jobs.Start(estimates, reports)
	defer scheduler.Stop()

	r := routes.SetupRouter()

	port := config.GetEnv("PORT", "8080")
	logger.Info("server starting", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Error("server failed", "error", err)
	}
}
