package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/presskeep/presskeep/internal/model"
)

// PatternQuery describes a filtered pattern listing.
type PatternQuery struct {
	Category string

	// Search matches against the pattern name and title, case-insensitively.
	Search string
}

// PatternUsage records one content item referencing a pattern.
type PatternUsage struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

// RegisterPattern creates or replaces the pattern registered under its name.
// Re-registering an existing name overwrites the previous definition, the way
// a pattern registry behaves.
func (s *Store) RegisterPattern(p *model.Pattern) (*model.Pattern, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("pattern name must not be empty")
	}
	if p.Content == "" {
		return nil, fmt.Errorf("pattern content must not be empty")
	}
	if p.Category == "" {
		p.Category = "default"
	}
	if p.Keywords == nil {
		p.Keywords = datatypes.JSON(`[]`)
	}

	var existing model.Pattern
	err := s.db.Where("name = ?", p.Name).First(&existing).Error
	switch {
	case err == nil:
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		if err := s.db.Save(p).Error; err != nil {
			return nil, fmt.Errorf("failed to update pattern %s: %w", p.Name, err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.db.Create(p).Error; err != nil {
			return nil, fmt.Errorf("failed to create pattern %s: %w", p.Name, err)
		}
	default:
		return nil, fmt.Errorf("failed to check for existing pattern: %w", err)
	}
	return p, nil
}

// GetPatternByName returns the pattern registered under name.
func (s *Store) GetPatternByName(name string) (*model.Pattern, error) {
	var p model.Pattern
	if err := s.db.Where("name = ?", name).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch pattern %s: %w", name, err)
	}
	return &p, nil
}

// ListPatterns returns the patterns matching the query, ordered by name.
func (s *Store) ListPatterns(q PatternQuery) ([]model.Pattern, error) {
	tx := s.db.Model(&model.Pattern{})
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.Search != "" {
		like := "%" + strings.ToLower(q.Search) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(title) LIKE ?", like, like)
	}

	var patterns []model.Pattern
	if err := tx.Order("name ASC").Find(&patterns).Error; err != nil {
		return nil, fmt.Errorf("failed to list patterns: %w", err)
	}
	return patterns, nil
}

// DeletePattern removes the pattern registered under name.
func (s *Store) DeletePattern(name string) error {
	p, err := s.GetPatternByName(name)
	if err != nil {
		return err
	}
	if err := s.db.Unscoped().Delete(p).Error; err != nil {
		return fmt.Errorf("failed to delete pattern %s: %w", name, err)
	}
	return nil
}

// FindPatternUsage returns the content items whose content references the
// pattern name, across all statuses.
func (s *Store) FindPatternUsage(name string) ([]PatternUsage, error) {
	var items []model.ContentItem
	err := s.db.Where("content LIKE ?", "%"+name+"%").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search content for pattern %s: %w", name, err)
	}
	usage := make([]PatternUsage, 0, len(items))
	for i := range items {
		usage = append(usage, PatternUsage{
			ID:    items[i].ID,
			Title: items[i].Title,
			Type:  string(items[i].Type),
			URL:   s.Permalink(&items[i]),
		})
	}
	return usage, nil
}
