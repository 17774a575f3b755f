package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const memoryPath = ":memory:"

const filePragmas = `
	PRAGMA journal_mode       = WAL;
	PRAGMA synchronous        = NORMAL;
	PRAGMA journal_size_limit = 27103364;
	PRAGMA cache_size         = 2000;`

// DBConfig holds configuration options for database initialization
type DBConfig struct {
	// Path is the database file path, or ":memory:"
	Path     string
	LogLevel logger.LogLevel
}

// InitDatabase opens and configures a SQLite database. Migrations are the caller's job.
func InitDatabase(config DBConfig) (*gorm.DB, error) {
	inMemory := config.Path == memoryPath

	if !inMemory {
		dir := filepath.Dir(config.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Error("Failed to create data directory", "dir", dir, "error", err)
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(config.Path), &gorm.Config{
		Logger: logger.Default.LogMode(config.LogLevel),
	})
	if err != nil {
		slog.Error("Failed to connect to database", "dsn", config.Path, "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if inMemory {
		// each pooled connection would otherwise get its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access connection pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	pragmas := "PRAGMA foreign_keys = ON;"
	if !inMemory {
		pragmas += filePragmas
	}
	if err := db.Exec(pragmas).Error; err != nil {
		slog.Error("Failed to configure database", "error", err)
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	return db, nil
}
