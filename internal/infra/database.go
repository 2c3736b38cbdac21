package infra

import (
	"fmt"

	"shopmanager/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the local SQLite file through GORM and brings the schema
// up to date. One writer at a time is the whole concurrency model here, so
// the connection pool is pinned to a single connection and WAL mode keeps
// dashboard reads from blocking behind a checkout transaction.
func NewDatabase(path string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return db, nil
}

// RunMigrations creates or updates all tables. Shared with tests, which run
// it against an in-memory SQLite database.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Product{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.StockMovement{},
		&model.ShopSetting{},
		&model.User{},
	)
}
