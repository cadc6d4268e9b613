package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hottakes/hottakes-api/internal/models"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Init opens the configured database and migrates the schema.
func Init(driver, databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := Open(driver, databaseURL, logLevel)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Open connects without migrating.
func Open(driver, databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(databaseURL)
	case DriverSQLite:
		if err := ensureDir(databaseURL); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(databaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		db.Exec("PRAGMA foreign_keys=ON;")
		db.Exec("PRAGMA busy_timeout=5000;")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

// Migrate creates or updates the tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Sauce{},
	)
}

// ensureDir fails early when the parent directory of a sqlite file is missing.
func ensureDir(dsn string) error {
	if dsn == "" || dsn == ":memory:" || len(dsn) >= 5 && dsn[:5] == "file:" {
		return nil
	}
	if dir := filepath.Dir(dsn); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("sqlite directory: %w", err)
		}
	}
	return nil
}
