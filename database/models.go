// Package database provides database connection management for the agency
// back-office analytics system.
//
// This package includes:
//   - Database connection management using GORM and PostgreSQL
//   - Structured error types shared by all repositories
//   - Schema auto-migration for the ledger and alert tables
//
// Data Models:
//
//	All data models (BookingTransaction, Client, DJ, OperationalAlert) are
//	defined in the models_pkg package to avoid circular import dependencies.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	models "agency-backoffice/database/models_pkg"
)

// Database holds the GORM database connection and provides access to the
// underlying DB instance. It serves as the central connection point for all
// repositories in the application.
type Database struct {
	db *gorm.DB
}

// DB returns the underlying GORM database instance for direct access when needed.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Connect establishes database connection using GORM
func Connect(host string, port int, dbname, user, password string) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Silent logging for production
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema performs auto-migration for all tables. The booking ledger is
// append-only from this system's point of view; migration only ensures the
// tables exist so a fresh environment can boot.
func (d *Database) InitSchema() error {
	err := d.db.AutoMigrate(
		&models.BookingTransaction{},
		&models.Client{},
		&models.DJ{},
		&models.OperationalAlert{},
	)
	if err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}

// ============================================================================
// Type Aliases
// ============================================================================

// Type aliases so callers can reference the core models through the database
// package without importing models_pkg directly.

type BookingTransaction = models.BookingTransaction
type Client = models.Client
type DJ = models.DJ
type OperationalAlert = models.OperationalAlert
