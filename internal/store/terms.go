package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/presskeep/presskeep/internal/model"
)

// ErrTermExists is returned when creating a term whose slug is already taken
// within its taxonomy.
var ErrTermExists = errors.New("term already exists")

// TermQuery describes a filtered term listing.
type TermQuery struct {
	Taxonomy model.Taxonomy

	// ParentID filters by parent term. Set HasParent to filter on ParentID 0.
	ParentID  uint
	HasParent bool

	// HideEmpty excludes terms with no published items assigned.
	HideEmpty bool

	// Search matches against the term name.
	Search string

	// OrderBy is "name" or "count".
	OrderBy string
}

// CreateTerm persists a new term. A missing slug is derived from the name.
func (s *Store) CreateTerm(term *model.Term) (*model.Term, error) {
	if term.Name == "" {
		return nil, fmt.Errorf("term name must not be empty")
	}
	if term.Taxonomy == "" {
		return nil, fmt.Errorf("term taxonomy must not be empty")
	}
	if term.Slug == "" {
		term.Slug = Slugify(term.Name)
	}

	var existing model.Term
	err := s.db.Where("taxonomy = ? AND slug = ?", term.Taxonomy, term.Slug).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: %s", ErrTermExists, term.Slug)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for existing term: %w", err)
	}

	if err := s.db.Create(term).Error; err != nil {
		return nil, fmt.Errorf("failed to create term: %w", err)
	}
	return term, nil
}

// GetTerm returns the term with the given ID within the taxonomy.
func (s *Store) GetTerm(taxonomy model.Taxonomy, id uint) (*model.Term, error) {
	var term model.Term
	err := s.db.Where("id = ? AND taxonomy = ?", id, taxonomy).First(&term).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch term %d: %w", id, err)
	}
	return &term, nil
}

// UpdateTerm saves the modified term.
func (s *Store) UpdateTerm(term *model.Term) error {
	if err := s.db.Save(term).Error; err != nil {
		return fmt.Errorf("failed to update term %d: %w", term.ID, err)
	}
	return nil
}

// ListTerms returns the terms matching the query.
func (s *Store) ListTerms(q TermQuery) ([]model.Term, error) {
	tx := s.db.Model(&model.Term{})
	if q.Taxonomy != "" {
		tx = tx.Where("taxonomy = ?", q.Taxonomy)
	}
	if q.HasParent {
		tx = tx.Where("parent_id = ?", q.ParentID)
	}
	if q.HideEmpty {
		tx = tx.Where("count > 0")
	}
	if q.Search != "" {
		tx = tx.Where("name LIKE ?", "%"+q.Search+"%")
	}

	order := "name ASC"
	if q.OrderBy == "count" {
		order = "count DESC"
	}

	var terms []model.Term
	if err := tx.Order(order).Find(&terms).Error; err != nil {
		return nil, fmt.Errorf("failed to list terms: %w", err)
	}
	return terms, nil
}
