package store

import (
	"errors"
	"fmt"
	"mime"
	"path"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"gorm.io/gorm"

	"github.com/presskeep/presskeep/internal/model"
)

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeFileName strips path components and unsafe characters from an
// uploaded file name.
func SanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFileNameChars.ReplaceAllString(name, "-")
	return strings.Trim(name, "-.")
}

// MediaQuery describes a filtered, paginated media listing.
type MediaQuery struct {
	// MimePrefix filters by MIME type prefix ("image", "video", "audio").
	MimePrefix string

	// Search matches against title and file name.
	Search string

	PerPage int
	Page    int
}

// SaveMedia writes the file bytes to the media filesystem and persists the
// metadata row. The item's FileName is sanitized; its Path and MimeType are
// derived here.
func (s *Store) SaveMedia(item *model.MediaItem, data []byte) (*model.MediaItem, error) {
	fileName := SanitizeFileName(item.FileName)
	if fileName == "" {
		return nil, fmt.Errorf("invalid file name")
	}
	item.FileName = fileName
	if item.MimeType == "" {
		item.MimeType = mime.TypeByExtension(path.Ext(fileName))
	}
	if item.Title == "" {
		item.Title = strings.TrimSuffix(fileName, path.Ext(fileName))
	}

	if err := s.files.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	// Persist the row first so the file path can carry the unique ID.
	if err := s.db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create media item: %w", err)
	}
	item.Path = fmt.Sprintf("%d-%s", item.ID, fileName)

	filePath := path.Join(s.uploadDir, item.Path)
	if err := afero.WriteFile(s.files, filePath, data, 0o644); err != nil {
		s.db.Unscoped().Delete(item)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := s.db.Save(item).Error; err != nil {
		return nil, fmt.Errorf("failed to update media item: %w", err)
	}
	return item, nil
}

// GetMedia returns the media item with the given ID.
func (s *Store) GetMedia(id uint) (*model.MediaItem, error) {
	var item model.MediaItem
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch media item %d: %w", id, err)
	}
	return &item, nil
}

// ListMedia returns the media items matching the query, newest first, and the
// total match count.
func (s *Store) ListMedia(q MediaQuery) ([]model.MediaItem, int64, error) {
	if q.PerPage <= 0 {
		q.PerPage = defaultPerPage
	}
	if q.PerPage > maxPerPage {
		q.PerPage = maxPerPage
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	tx := s.db.Model(&model.MediaItem{})
	if q.MimePrefix != "" {
		tx = tx.Where("mime_type LIKE ?", q.MimePrefix+"/%")
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		tx = tx.Where("title LIKE ? OR file_name LIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count media items: %w", err)
	}

	var items []model.MediaItem
	err := tx.Order("created_at DESC").
		Limit(q.PerPage).
		Offset((q.Page - 1) * q.PerPage).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list media items: %w", err)
	}
	return items, total, nil
}

// MediaURL builds the public URL of a media item's file.
func (s *Store) MediaURL(item *model.MediaItem) string {
	return fmt.Sprintf("%s/media/%s", s.baseURL, item.Path)
}

// ReadMedia returns the stored bytes of a media item.
func (s *Store) ReadMedia(item *model.MediaItem) ([]byte, error) {
	data, err := afero.ReadFile(s.files, path.Join(s.uploadDir, item.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to read media file %s: %w", item.Path, err)
	}
	return data, nil
}
