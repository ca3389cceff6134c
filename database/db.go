package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Azizbek0606/kitchen-inventory/config"
	"github.com/Azizbek0606/kitchen-inventory/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the shared database handle, initialized once at startup.
var DB *gorm.DB

// InitDB opens the configured database and runs migrations. It terminates
// the process on failure since nothing works without storage.
func InitDB() {
	db, err := Open()
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	if err := AutoMigrate(db); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}
	DB = db
	log.Println("Database connection established")
}

// Open connects to the database selected by DB_DRIVER (postgres by
// default, sqlite for local development and tests).
func Open() (*gorm.DB, error) {
	switch config.GetEnv("DB_DRIVER", "postgres") {
	case "sqlite":
		return OpenSQLite(config.GetEnv("DB_PATH", "data/kitchen.db"))
	default:
		return openPostgres()
	}
}

func openPostgres() (*gorm.DB, error) {
	host := config.GetEnv("DB_HOST", "localhost")
	user := config.GetEnv("DB_USER", "postgres")
	password := config.GetEnv("DB_PASSWORD", "password")
	dbname := config.GetEnv("DB_NAME", "kitchen")
	port := config.GetEnv("DB_PORT", "5432")
	sslmode := config.GetEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode)

	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// OpenSQLite opens a SQLite database at the given path. Write transactions
// begin immediately so concurrent serve calls queue on the single writer
// instead of deadlocking on a lock upgrade.
func OpenSQLite(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := path + "?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	_, _ = sqlDB.Exec("PRAGMA foreign_keys = ON;")

	return db, nil
}

// AutoMigrate runs schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Ingredient{},
		&models.Meal{},
		&models.Recipe{},
		&models.Serving{},
		&models.Report{},
		&models.PortionEstimate{},
	)
}
