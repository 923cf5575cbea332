package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MediaItem represents an uploaded media file (attachment).
// The file bytes live on the media filesystem; this row holds the metadata.
type MediaItem struct {
	gorm.Model

	Title       string `json:"title"`
	Description string `json:"description"`

	// FileName is the sanitized name of the uploaded file.
	FileName string `json:"filename" gorm:"not null"`

	// Path is the location of the file relative to the upload directory.
	Path string `json:"-" gorm:"not null"`

	MimeType string `json:"mime_type" gorm:"type:varchar(100);index"`

	// Width and Height are set for image uploads, 0 otherwise.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Meta holds additional attachment metadata (e.g. generated sizes) as JSON.
	Meta datatypes.JSON `json:"meta" gorm:"type:jsonb"`

	// AuthorID is the ID of the user who uploaded this file.
	AuthorID uint `json:"author_id" gorm:"index"`
}
