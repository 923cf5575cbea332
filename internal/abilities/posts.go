package abilities

import (
	"context"
	"fmt"

	"github.com/presskeep/presskeep/internal/ability"
	"github.com/presskeep/presskeep/internal/model"
	"github.com/presskeep/presskeep/internal/store"
)

// contentKind bundles the per-type naming differences between the page and
// post abilities so both sets come from the same builders.
type contentKind struct {
	typ       model.ContentType
	noun      string // "page" / "post"
	idField   string // "page_id" / "post_id"
	notFound  string // "Page not found" / "Post not found"
	editCap   string
	deleteCap string
}

var pageKind = contentKind{
	typ:       model.ContentTypePage,
	noun:      "page",
	idField:   "page_id",
	notFound:  "Page not found",
	editCap:   "edit_pages",
	deleteCap: "delete_pages",
}

var postKind = contentKind{
	typ:       model.ContentTypePost,
	noun:      "post",
	idField:   "post_id",
	notFound:  "Post not found",
	editCap:   "edit_posts",
	deleteCap: "delete_posts",
}

func contentAbilities(s *store.Store) []*ability.Definition {
	return []*ability.Definition{
		createContentAbility(s, pageKind),
		editContentAbility(s, pageKind),
		getContentAbility(s, pageKind),
		listPagesAbility(s),
		deleteContentAbility(s, pageKind),
		createContentAbility(s, postKind),
		editContentAbility(s, postKind),
		getContentAbility(s, postKind),
		listPostsAbility(s),
		deleteContentAbility(s, postKind),
	}
}

func createContentAbility(s *store.Store, kind contentKind) *ability.Definition {
	props := map[string]*ability.Schema{
		"title":          strProp(titled(kind.noun) + " title"),
		"content":        strProp(titled(kind.noun) + " content (HTML or blocks)"),
		"status":         enumProp(titled(kind.noun)+" status", model.StatusDraft, model.StatusPublish, model.StatusPrivate),
		"slug":           strProp(titled(kind.noun) + " slug"),
		"featured_image": intProp("Featured image ID"),
	}
	if kind.typ == model.ContentTypePage {
		props["parent_id"] = intProp("Parent page ID")
		props["template"] = strProp("Page template")
	} else {
		props["excerpt"] = strProp("Post excerpt")
		props["categories"] = arrProp("Category IDs", intProp(""))
		props["tags"] = arrProp("Tag names", strProp(""))
	}

	return &ability.Definition{
		Name:        "mcp-wp/create-" + kind.noun,
		Label:       "Create " + titled(kind.noun),
		Description: "Create new " + kind.noun,
		Category:    Category,
		InputSchema: objSchema(props, "title", "content"),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			kind.idField: intProp(""),
			"url":        strProp(""),
			"data":       objProp(""),
		}),
		Permission: ability.RequireCapability(kind.editCap),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, caller *ability.Caller) (*ability.Result, error) {
			item := &model.ContentItem{Type: kind.typ}
			item.Title, _ = strArg(input, "title")
			item.Content, _ = strArg(input, "content")
			if status, ok := strArg(input, "status"); ok {
				item.Status = status
			}
			if slug, ok := strArg(input, "slug"); ok {
				item.Slug = store.Slugify(slug)
			}
			if excerpt, ok := strArg(input, "excerpt"); ok {
				item.Excerpt = excerpt
			}
			if parentID, ok := uintArg(input, "parent_id"); ok {
				item.ParentID = parentID
			}
			if template, ok := strArg(input, "template"); ok {
				item.Template = template
			}
			if imageID, ok := uintArg(input, "featured_image"); ok {
				item.FeaturedImageID = imageID
			}
			if caller != nil {
				item.AuthorID = caller.ID
			}

			created, err := s.CreateContent(item)
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}

			if err := assignTerms(s, created.ID, input); err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}

			return ability.OKExtra(formatContent(s, created, true), map[string]any{
				kind.idField: created.ID,
				"url":        s.Permalink(created),
			}), nil
		},
	}
}

func editContentAbility(s *store.Store, kind contentKind) *ability.Definition {
	props := map[string]*ability.Schema{
		kind.idField:     intProp(titled(kind.noun) + " ID to edit"),
		"title":          strProp(titled(kind.noun) + " title"),
		"content":        strProp(titled(kind.noun) + " content"),
		"status":         enumProp("", model.StatusDraft, model.StatusPublish, model.StatusPrivate),
		"slug":           strProp(titled(kind.noun) + " slug"),
		"featured_image": intProp("Featured image ID"),
	}
	if kind.typ == model.ContentTypePage {
		props["parent_id"] = intProp("Parent page ID")
	} else {
		props["excerpt"] = strProp("Post excerpt")
		props["categories"] = arrProp("", intProp(""))
		props["tags"] = arrProp("", strProp(""))
	}

	return &ability.Definition{
		Name:        "mcp-wp/edit-" + kind.noun,
		Label:       "Edit " + titled(kind.noun),
		Description: "Modify existing " + kind.noun,
		Category:    Category,
		InputSchema: objSchema(props, kind.idField),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data": objProp(""),
		}),
		Permission: ability.RequireCapability(kind.editCap),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, caller *ability.Caller) (*ability.Result, error) {
			id, _ := uintArg(input, kind.idField)
			item, err := s.GetContent(kind.typ, id)
			if err != nil {
				return storeFail(err, kind.notFound), nil
			}

			if title, ok := strArg(input, "title"); ok {
				item.Title = title
			}
			if content, ok := strArg(input, "content"); ok {
				item.Content = content
			}
			if status, ok := strArg(input, "status"); ok {
				item.Status = status
			}
			if slug, ok := strArg(input, "slug"); ok {
				item.Slug = store.Slugify(slug)
			}
			if excerpt, ok := strArg(input, "excerpt"); ok {
				item.Excerpt = excerpt
			}
			if parentID, ok := uintArg(input, "parent_id"); ok {
				item.ParentID = parentID
			}
			if imageID, ok := uintArg(input, "featured_image"); ok {
				item.FeaturedImageID = imageID
			}

			if err := s.UpdateContent(item); err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}
			if err := assignTerms(s, item.ID, input); err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}

			return ability.OK(formatContent(s, item, true)), nil
		},
	}
}

func getContentAbility(s *store.Store, kind contentKind) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/get-" + kind.noun,
		Label:       "Get " + titled(kind.noun),
		Description: "Retrieve " + kind.noun + " by ID",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			kind.idField: intProp(titled(kind.noun) + " ID"),
		}, kind.idField),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data": objProp(""),
		}),
		Permission: ability.RequireCapability("read"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			id, _ := uintArg(input, kind.idField)
			item, err := s.GetContent(kind.typ, id)
			if err != nil {
				return storeFail(err, kind.notFound), nil
			}
			return ability.OK(formatContent(s, item, true)), nil
		},
	}
}

func deleteContentAbility(s *store.Store, kind contentKind) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/delete-" + kind.noun,
		Label:       "Delete " + titled(kind.noun),
		Description: "Delete " + kind.noun,
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			kind.idField: intProp(titled(kind.noun) + " ID to delete"),
			"force":      boolProp("Force delete (bypass trash)"),
		}, kind.idField),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"message": strProp(""),
		}),
		Permission: ability.RequireCapability(kind.deleteCap),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			id, _ := uintArg(input, kind.idField)
			force, _ := boolArg(input, "force")

			if err := s.DeleteContent(kind.typ, id, force); err != nil {
				return storeFail(err, kind.notFound), nil
			}

			message := titled(kind.noun) + " moved to trash"
			if force {
				message = titled(kind.noun) + " permanently deleted"
			}
			return ability.OKExtra(nil, map[string]any{"message": message}), nil
		},
	}
}

func listPagesAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/list-pages",
		Label:       "List Pages",
		Description: "Get all pages with filtering",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"status":    enumProp("", model.StatusPublish, model.StatusDraft, model.StatusPrivate, "any"),
			"parent_id": intProp("Filter by parent page"),
			"search":    strProp("Search term"),
			"per_page":  intProp("Number to return (default: 10, max: 100)"),
			"page":      intProp("Page number"),
		}),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data":  arrProp("", objProp("")),
			"total": intProp(""),
		}),
		Permission: ability.RequireCapability("read"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			q := store.ContentQuery{
				Types:   []model.ContentType{model.ContentTypePage},
				OrderBy: "title",
				Order:   "ASC",
			}
			applyStatusFilter(&q, input)
			if parentID, ok := uintArg(input, "parent_id"); ok {
				q.ParentID = parentID
				q.HasParent = true
			}
			q.Search, _ = strArg(input, "search")
			q.PerPage, q.Page = pageArgs(input)

			items, total, err := s.QueryContent(q)
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}
			return ability.OKExtra(formatContentList(s, items), map[string]any{"total": total}), nil
		},
	}
}

func listPostsAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/list-posts",
		Label:       "List Posts",
		Description: "Get all posts with filtering",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"status":    enumProp("", model.StatusPublish, model.StatusDraft, model.StatusPrivate, "any"),
			"category":  intProp("Filter by category ID"),
			"tag":       strProp("Filter by tag slug"),
			"search":    strProp("Search term"),
			"author_id": intProp("Filter by author"),
			"per_page":  intProp("Number to return (default: 10, max: 100)"),
			"page":      intProp("Page number"),
		}),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data":  arrProp("", objProp("")),
			"total": intProp(""),
		}),
		Permission: ability.RequireCapability("read"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			q := store.ContentQuery{
				Types: []model.ContentType{model.ContentTypePost},
			}
			applyStatusFilter(&q, input)
			if categoryID, ok := uintArg(input, "category"); ok {
				q.CategoryID = categoryID
			}
			q.TagSlug, _ = strArg(input, "tag")
			q.Search, _ = strArg(input, "search")
			if authorID, ok := uintArg(input, "author_id"); ok {
				q.AuthorID = authorID
			}
			q.PerPage, q.Page = pageArgs(input)

			items, total, err := s.QueryContent(q)
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}
			return ability.OKExtra(formatContentList(s, items), map[string]any{"total": total}), nil
		},
	}
}

// applyStatusFilter translates the "status" input ("any" means every
// non-trash status) onto the query.
func applyStatusFilter(q *store.ContentQuery, input map[string]any) {
	status, ok := strArg(input, "status")
	if !ok {
		return
	}
	if status == "any" {
		q.Statuses = []string{model.StatusPublish, model.StatusDraft, model.StatusPrivate}
		return
	}
	q.Statuses = []string{status}
}

// assignTerms applies the categories/tags inputs to a post.
func assignTerms(s *store.Store, contentID uint, input map[string]any) error {
	if categoryIDs, ok := uintSliceArg(input, "categories"); ok {
		if err := s.SetContentCategories(contentID, categoryIDs); err != nil {
			return fmt.Errorf("failed to set categories: %w", err)
		}
	}
	if tags, ok := strSliceArg(input, "tags"); ok {
		if err := s.SetContentTags(contentID, tags); err != nil {
			return fmt.Errorf("failed to set tags: %w", err)
		}
	}
	return nil
}

func titled(noun string) string {
	if noun == "" {
		return noun
	}
	return string(noun[0]-'a'+'A') + noun[1:]
}
