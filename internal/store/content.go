package store

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/presskeep/presskeep/internal/model"
)

// ErrNotFound is returned by lookups that miss.
var ErrNotFound = errors.New("record not found")

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)

// Slugify converts a title into a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = strings.Trim(s, "-")
	return s
}

// ContentQuery describes a filtered, paginated content listing.
// Zero-valued fields are ignored. PerPage defaults to 10 and is capped at 100.
type ContentQuery struct {
	Types    []model.ContentType
	Statuses []string

	AuthorID uint

	// ParentID filters by parent page. Set HasParent to filter on ParentID 0.
	ParentID  uint
	HasParent bool

	// CategoryID and TagSlug filter posts by assigned terms.
	CategoryID uint
	TagSlug    string

	// Search matches against title and content.
	Search string

	// DateAfter and DateBefore bound the creation date, inclusive (YYYY-MM-DD).
	DateAfter  string
	DateBefore string

	PerPage int
	Page    int

	// OrderBy is a column name ("title", "created_at"); Order is ASC or DESC.
	OrderBy string
	Order   string
}

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// Normalize applies the pagination defaults and caps.
func (q *ContentQuery) Normalize() {
	if q.PerPage <= 0 {
		q.PerPage = defaultPerPage
	}
	if q.PerPage > maxPerPage {
		q.PerPage = maxPerPage
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	switch q.OrderBy {
	case "title", "created_at", "updated_at":
	default:
		q.OrderBy = "created_at"
	}
	if !strings.EqualFold(q.Order, "ASC") {
		q.Order = "DESC"
	} else {
		q.Order = "ASC"
	}
}

// CreateContent persists a new content item. A missing slug is derived from
// the title; a missing status defaults to draft.
func (s *Store) CreateContent(item *model.ContentItem) (*model.ContentItem, error) {
	if item.Title == "" {
		return nil, fmt.Errorf("title must not be empty")
	}
	if item.Slug == "" {
		item.Slug = Slugify(item.Title)
	}
	if item.Status == "" {
		item.Status = model.StatusDraft
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", item.Type, err)
	}
	return item, nil
}

// GetContent returns the content item with the given ID if it is of the
// requested type. Trashed items are still returned; they only disappear from
// listings.
func (s *Store) GetContent(typ model.ContentType, id uint) (*model.ContentItem, error) {
	var item model.ContentItem
	err := s.db.Where("id = ? AND type = ?", id, typ).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch %s %d: %w", typ, id, err)
	}
	return &item, nil
}

// UpdateContent saves the modified content item.
func (s *Store) UpdateContent(item *model.ContentItem) error {
	if err := s.db.Save(item).Error; err != nil {
		return fmt.Errorf("failed to update %s %d: %w", item.Type, item.ID, err)
	}
	return nil
}

// DeleteContent removes a content item. With force it is permanently deleted
// along with its term assignments; otherwise it is moved to trash.
func (s *Store) DeleteContent(typ model.ContentType, id uint, force bool) error {
	item, err := s.GetContent(typ, id)
	if err != nil {
		return err
	}
	if force {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("content_id = ?", item.ID).Delete(&model.ContentTerm{}).Error; err != nil {
				return fmt.Errorf("failed to remove term assignments: %w", err)
			}
			if err := tx.Unscoped().Delete(item).Error; err != nil {
				return fmt.Errorf("failed to delete %s %d: %w", typ, id, err)
			}
			return nil
		})
	}
	item.Status = model.StatusTrash
	return s.UpdateContent(item)
}

// QueryContent returns the content items matching the query along with the
// total number of matches before pagination.
func (s *Store) QueryContent(q ContentQuery) ([]model.ContentItem, int64, error) {
	q.Normalize()

	tx := s.db.Model(&model.ContentItem{})

	if len(q.Types) > 0 {
		tx = tx.Where("type IN ?", q.Types)
	}
	if len(q.Statuses) > 0 {
		tx = tx.Where("status IN ?", q.Statuses)
	} else {
		// Trashed items never show up unless asked for explicitly.
		tx = tx.Where("status <> ?", model.StatusTrash)
	}
	if q.AuthorID != 0 {
		tx = tx.Where("author_id = ?", q.AuthorID)
	}
	if q.HasParent {
		tx = tx.Where("parent_id = ?", q.ParentID)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		tx = tx.Where("title LIKE ? OR content LIKE ?", like, like)
	}
	if q.DateAfter != "" {
		if after, err := time.Parse("2006-01-02", q.DateAfter); err == nil {
			tx = tx.Where("created_at >= ?", after)
		}
	}
	if q.DateBefore != "" {
		if before, err := time.Parse("2006-01-02", q.DateBefore); err == nil {
			// Inclusive of the whole day.
			tx = tx.Where("created_at < ?", before.AddDate(0, 0, 1))
		}
	}
	if q.CategoryID != 0 {
		tx = tx.Where(
			"id IN (?)",
			s.db.Model(&model.ContentTerm{}).Select("content_id").Where("term_id = ?", q.CategoryID),
		)
	}
	if q.TagSlug != "" {
		tx = tx.Where(
			"id IN (?)",
			s.db.Model(&model.ContentTerm{}).Select("content_id").Where(
				"term_id IN (?)",
				s.db.Model(&model.Term{}).Select("id").Where("taxonomy = ? AND slug = ?", model.TaxonomyTag, q.TagSlug),
			),
		)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count content items: %w", err)
	}

	var items []model.ContentItem
	err := tx.
		Order(fmt.Sprintf("%s %s", q.OrderBy, q.Order)).
		Limit(q.PerPage).
		Offset((q.Page - 1) * q.PerPage).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query content items: %w", err)
	}
	return items, total, nil
}

// CountPublished returns the number of published items of the given type.
func (s *Store) CountPublished(typ model.ContentType) (int64, error) {
	var count int64
	err := s.db.Model(&model.ContentItem{}).
		Where("type = ? AND status = ?", typ, model.StatusPublish).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count published %ss: %w", typ, err)
	}
	return count, nil
}

// Permalink builds the public URL of a content item.
func (s *Store) Permalink(item *model.ContentItem) string {
	slug := item.Slug
	if slug == "" {
		return fmt.Sprintf("%s/?p=%d", s.baseURL, item.ID)
	}
	return fmt.Sprintf("%s/%ss/%s", s.baseURL, item.Type, slug)
}

// SetContentCategories replaces a post's category assignments with the given
// term IDs. Unknown IDs and non-category terms are skipped.
func (s *Store) SetContentCategories(contentID uint, termIDs []uint) error {
	return s.setContentTerms(contentID, model.TaxonomyCategory, func(tx *gorm.DB) ([]model.Term, error) {
		var terms []model.Term
		err := tx.Where("taxonomy = ? AND id IN ?", model.TaxonomyCategory, termIDs).Find(&terms).Error
		return terms, err
	})
}

// SetContentTags replaces a post's tag assignments with the named tags,
// creating tags that do not exist yet.
func (s *Store) SetContentTags(contentID uint, tagNames []string) error {
	return s.setContentTerms(contentID, model.TaxonomyTag, func(tx *gorm.DB) ([]model.Term, error) {
		terms := make([]model.Term, 0, len(tagNames))
		for _, name := range tagNames {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			var term model.Term
			err := tx.Where("taxonomy = ? AND slug = ?", model.TaxonomyTag, Slugify(name)).First(&term).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				term = model.Term{Taxonomy: model.TaxonomyTag, Name: name, Slug: Slugify(name)}
				if err := tx.Create(&term).Error; err != nil {
					return nil, err
				}
			} else if err != nil {
				return nil, err
			}
			terms = append(terms, term)
		}
		return terms, nil
	})
}

// ContentTerms returns the assigned terms of a content item in the given taxonomy.
func (s *Store) ContentTerms(contentID uint, taxonomy model.Taxonomy) ([]model.Term, error) {
	var terms []model.Term
	err := s.db.Where(
		"taxonomy = ? AND id IN (?)",
		taxonomy,
		s.db.Model(&model.ContentTerm{}).Select("term_id").Where("content_id = ?", contentID),
	).Find(&terms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch terms for content %d: %w", contentID, err)
	}
	return terms, nil
}

func (s *Store) setContentTerms(contentID uint, taxonomy model.Taxonomy, resolve func(tx *gorm.DB) ([]model.Term, error)) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		terms, err := resolve(tx)
		if err != nil {
			return fmt.Errorf("failed to resolve %s terms: %w", taxonomy, err)
		}
		// Drop existing assignments in this taxonomy only.
		err = tx.Where(
			"content_id = ? AND term_id IN (?)",
			contentID,
			tx.Model(&model.Term{}).Select("id").Where("taxonomy = ?", taxonomy),
		).Delete(&model.ContentTerm{}).Error
		if err != nil {
			return fmt.Errorf("failed to clear %s assignments: %w", taxonomy, err)
		}
		for _, term := range terms {
			assignment := model.ContentTerm{ContentID: contentID, TermID: term.ID}
			if err := tx.Create(&assignment).Error; err != nil {
				return fmt.Errorf("failed to assign term %d: %w", term.ID, err)
			}
		}
		return s.refreshTermCounts(tx, taxonomy)
	})
}

// refreshTermCounts recomputes the published-item count of every term in the taxonomy.
func (s *Store) refreshTermCounts(tx *gorm.DB, taxonomy model.Taxonomy) error {
	err := tx.Model(&model.Term{}).Where("taxonomy = ?", taxonomy).Update(
		"count",
		tx.Model(&model.ContentTerm{}).
			Select("COUNT(*)").
			Where("content_terms.term_id = terms.id").
			Where(
				"content_terms.content_id IN (?)",
				tx.Model(&model.ContentItem{}).Select("id").Where("status = ?", model.StatusPublish),
			),
	).Error
	if err != nil {
		return fmt.Errorf("failed to refresh %s counts: %w", taxonomy, err)
	}
	return nil
}
