// Package migrations manages the database schema for the PressKeep server.
package migrations

import (
	"fmt"

	"github.com/presskeep/presskeep/internal/model"
	"gorm.io/gorm"
)

// Migrate runs the schema migrations for all content store models.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.ContentItem{},
		&model.User{},
		&model.MediaItem{},
		&model.Term{},
		&model.ContentTerm{},
		&model.Pattern{},
		&model.Plugin{},
		&model.Theme{},
		&model.Setting{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}
	return nil
}
