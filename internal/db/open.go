package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/terraincognita07/askesis/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres for postgres:// URLs and to SQLite otherwise
// (a file path or a sqlite:// URL), then applies embedded migrations.
func Open(target string, logg *logger.Logger) (*gorm.DB, error) {
	target = strings.TrimSpace(target)
	switch {
	case strings.HasPrefix(target, "postgres://"), strings.HasPrefix(target, "postgresql://"):
		return OpenPostgres(target, logg)
	case strings.HasPrefix(target, "sqlite://"):
		return OpenSQLite(strings.TrimPrefix(target, "sqlite://"), logg)
	default:
		return OpenSQLite(target, logg)
	}
}

func OpenSQLite(dbPath string, logg *logger.Logger) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)
	database, err := gorm.Open(sqlite.Open(dsn), gormConfig(logg))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyEmbeddedMigrations(database, dialectSQLite); err != nil {
		return nil, fmt.Errorf("apply embedded migrations: %w", err)
	}

	return database, nil
}

func OpenPostgres(dsn string, logg *logger.Logger) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.Open(dsn), gormConfig(logg))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := applyEmbeddedMigrations(database, dialectPostgres); err != nil {
		return nil, fmt.Errorf("apply embedded migrations: %w", err)
	}

	return database, nil
}
