package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Pattern represents a named, reusable content template (a block pattern)
// registered in the content store's pattern registry.
type Pattern struct {
	gorm.Model

	// Name is the unique slug identifying the pattern (e.g. "presskeep/hero-banner").
	Name string `json:"name" gorm:"uniqueIndex;not null"`

	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`

	// Content is the serialized block markup of the pattern.
	Content string `json:"content" gorm:"not null"`

	Category string `json:"category" gorm:"index"`

	// Keywords is a JSON array of search keywords for the pattern.
	Keywords datatypes.JSON `json:"keywords" gorm:"type:jsonb"`
}
