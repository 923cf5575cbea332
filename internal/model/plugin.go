package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Plugin represents an installed plugin descriptor known to the content store.
type Plugin struct {
	gorm.Model

	// File is the unique plugin identifier, conventionally the plugin's
	// entry file path (e.g. "akismet/akismet.php").
	File string `json:"file" gorm:"uniqueIndex;not null"`

	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	Version     string `json:"version"`
	Author      string `json:"author"`

	// Active indicates whether the plugin is part of the active set.
	Active bool `json:"active" gorm:"default:false;index"`
}

// Theme represents an installed theme descriptor known to the content store.
// At most one theme is active at a time.
type Theme struct {
	gorm.Model

	// Slug is the unique theme identifier (e.g. "twentytwentyfive").
	Slug string `json:"slug" gorm:"uniqueIndex;not null"`

	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	Version     string `json:"version"`
	Author      string `json:"author"`

	Active bool `json:"active" gorm:"default:false;index"`

	// Supports is a JSON object mapping theme feature names to whether the
	// theme supports them (e.g. {"post-thumbnails": true}).
	Supports datatypes.JSON `json:"supports" gorm:"type:jsonb"`
}
