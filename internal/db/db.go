package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/balkashynov/jornada/internal/config"
	"github.com/balkashynov/jornada/internal/logging"
	"github.com/balkashynov/jornada/internal/models"
)

// Store persists work sessions and breaks through gorm
type Store struct {
	db *gorm.DB
}

// Open connects to the configured database and runs migrations
func Open(cfg config.Database, logger *slog.Logger, verbose bool) (*Store, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	// Open database connection
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logging.NewGormLogger(logger, verbose),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run auto-migrations
	if err := store.migrate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// dialectorFor picks the gorm driver for the configured backend
func dialectorFor(cfg config.Database) (gorm.Dialector, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", config.DriverSQLite:
		path, err := config.ExpandHome(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to get database path: %w", err)
		}
		// Ensure the directory exists
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		return sqlite.Open(path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), nil
	case config.DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("database.dsn is required for the postgres driver")
		}
		return postgres.Open(cfg.DSN), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// migrate creates/updates the database schema
func (s *Store) migrate() error {
	return s.db.AutoMigrate(
		&models.WorkSession{},
		&models.Break{},
	)
}

// Close closes the database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
