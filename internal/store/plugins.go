package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/presskeep/presskeep/internal/model"
)

// ListPlugins returns the installed plugins. active filters the list when
// non-nil.
func (s *Store) ListPlugins(active *bool) ([]model.Plugin, error) {
	tx := s.db.Model(&model.Plugin{})
	if active != nil {
		tx = tx.Where("active = ?", *active)
	}
	var plugins []model.Plugin
	if err := tx.Order("file ASC").Find(&plugins).Error; err != nil {
		return nil, fmt.Errorf("failed to list plugins: %w", err)
	}
	return plugins, nil
}

// GetPlugin returns the plugin identified by its entry file.
func (s *Store) GetPlugin(file string) (*model.Plugin, error) {
	var plugin model.Plugin
	if err := s.db.Where("file = ?", file).First(&plugin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch plugin %s: %w", file, err)
	}
	return &plugin, nil
}

// SetPluginActive activates or deactivates the plugin identified by file.
func (s *Store) SetPluginActive(file string, active bool) error {
	plugin, err := s.GetPlugin(file)
	if err != nil {
		return err
	}
	if plugin.Active == active {
		return nil
	}
	plugin.Active = active
	if err := s.db.Save(plugin).Error; err != nil {
		return fmt.Errorf("failed to update plugin %s: %w", file, err)
	}
	return nil
}

// CountActivePlugins returns the size of the active plugin set.
func (s *Store) CountActivePlugins() (int64, error) {
	var count int64
	err := s.db.Model(&model.Plugin{}).Where("active = ?", true).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active plugins: %w", err)
	}
	return count, nil
}

// ActiveTheme returns the currently active theme.
func (s *Store) ActiveTheme() (*model.Theme, error) {
	var theme model.Theme
	if err := s.db.Where("active = ?", true).First(&theme).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch active theme: %w", err)
	}
	return &theme, nil
}

// RegisterPlugin creates or updates a plugin descriptor.
func (s *Store) RegisterPlugin(plugin *model.Plugin) error {
	var existing model.Plugin
	err := s.db.Where("file = ?", plugin.File).First(&existing).Error
	switch {
	case err == nil:
		plugin.ID = existing.ID
		plugin.CreatedAt = existing.CreatedAt
		if err := s.db.Save(plugin).Error; err != nil {
			return fmt.Errorf("failed to update plugin %s: %w", plugin.File, err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.db.Create(plugin).Error; err != nil {
			return fmt.Errorf("failed to create plugin %s: %w", plugin.File, err)
		}
	default:
		return fmt.Errorf("failed to check for existing plugin: %w", err)
	}
	return nil
}

// RegisterTheme creates or updates a theme descriptor.
func (s *Store) RegisterTheme(theme *model.Theme) error {
	var existing model.Theme
	err := s.db.Where("slug = ?", theme.Slug).First(&existing).Error
	switch {
	case err == nil:
		theme.ID = existing.ID
		theme.CreatedAt = existing.CreatedAt
		if err := s.db.Save(theme).Error; err != nil {
			return fmt.Errorf("failed to update theme %s: %w", theme.Slug, err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.db.Create(theme).Error; err != nil {
			return fmt.Errorf("failed to create theme %s: %w", theme.Slug, err)
		}
	default:
		return fmt.Errorf("failed to check for existing theme: %w", err)
	}
	return nil
}
