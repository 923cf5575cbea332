package model

import "gorm.io/gorm"

// Taxonomy identifies the taxonomy a term belongs to.
type Taxonomy string

const (
	TaxonomyCategory Taxonomy = "category"
	TaxonomyTag      Taxonomy = "post_tag"
)

// Term represents a taxonomy term (a category or a tag).
// A term name is unique within its taxonomy.
type Term struct {
	gorm.Model

	Taxonomy    Taxonomy `json:"taxonomy" gorm:"type:varchar(30);not null;uniqueIndex:idx_term_taxonomy_slug"`
	Name        string   `json:"name" gorm:"not null"`
	Slug        string   `json:"slug" gorm:"not null;uniqueIndex:idx_term_taxonomy_slug"`
	Description string   `json:"description"`

	// ParentID is the ID of the parent term, 0 for top-level terms.
	// Only categories are hierarchical.
	ParentID uint `json:"parent_id" gorm:"default:0"`

	// Count is the number of published content items assigned to this term.
	Count int `json:"count" gorm:"default:0"`
}

// ContentTerm assigns a term to a content item.
type ContentTerm struct {
	ContentID uint `gorm:"primaryKey"`
	TermID    uint `gorm:"primaryKey;index"`
}
