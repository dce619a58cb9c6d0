package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/yepitsaaron/order-flow-and-cv-image-detection-sub000/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite:"

// ConnectDatabase opens the database named by cfg.DatabaseURL.
// URLs starting with "sqlite:" use the sqlite driver, everything else postgres.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{}
	if cfg.IsProduction() {
		gormConfig.Logger = logger.Default.LogMode(logger.Warn)
	}

	dialector := Dialector(cfg.DatabaseURL)
	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Printf("Database connection established successfully (%s)", dialector.Name())
	return db, nil
}

// Dialector picks the gorm driver for a database URL
func Dialector(databaseURL string) gorm.Dialector {
	if dsn, ok := strings.CutPrefix(databaseURL, sqlitePrefix); ok {
		return sqlite.Open(dsn)
	}
	return postgres.Open(databaseURL)
}

// Migrate creates or updates the tables for all models
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
