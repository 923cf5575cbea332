// Package db provides database connection functionality for the PressKeep server.
package db

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultSQLiteFile is the sqlite database file created when no DSN is supplied.
const DefaultSQLiteFile = "presskeep.db"

// NewDBConnection creates a new database connection based on the provided DSN.
// A postgres:// DSN connects to Postgres; anything else (including an empty
// string) is treated as a sqlite file path. Pass ":memory:" for an in-memory
// sqlite database.
func NewDBConnection(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch {
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		dialector = postgres.Open(dsn)
	case dsn == "":
		dialector = sqlite.Open(DefaultSQLiteFile)
	default:
		dialector = sqlite.Open(dsn)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}
	return conn, nil
}
