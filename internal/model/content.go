// Package model contains the database models for the PressKeep content store.
package model

import (
	"gorm.io/gorm"
)

// ContentType identifies the kind of a content item.
type ContentType string

const (
	ContentTypePage ContentType = "page"
	ContentTypePost ContentType = "post"
)

// Content statuses. StatusTrash marks an item as soft-deleted: it is excluded
// from reads and queries but can still be restored by the hosting platform.
const (
	StatusDraft   = "draft"
	StatusPublish = "publish"
	StatusPrivate = "private"
	StatusTrash   = "trash"
)

// ContentItem represents a single piece of content (a page or a post)
// stored in the content store.
type ContentItem struct {
	gorm.Model

	Type   ContentType `json:"type" gorm:"type:varchar(20);not null;index"`
	Title  string      `json:"title" gorm:"not null"`
	Slug   string      `json:"slug" gorm:"index"`
	Status string      `json:"status" gorm:"type:varchar(20);default:'draft';index"`

	Content string `json:"content"`
	Excerpt string `json:"excerpt"`

	// AuthorID is the ID of the user who created this item.
	AuthorID uint `json:"author_id" gorm:"index"`

	// ParentID is the ID of the parent page, 0 for top-level items.
	// Only meaningful for pages.
	ParentID uint `json:"parent_id" gorm:"default:0"`

	// Template is the page template assigned to this item, if any.
	Template string `json:"template"`

	// FeaturedImageID references a MediaItem used as the featured image, 0 if unset.
	FeaturedImageID uint `json:"featured_image_id" gorm:"default:0"`
}
