package abilities

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/presskeep/presskeep/internal/ability"
	"github.com/presskeep/presskeep/internal/model"
	"github.com/presskeep/presskeep/internal/store"
	"gorm.io/datatypes"
)

func advancedAbilities(s *store.Store) []*ability.Definition {
	return []*ability.Definition{
		customRestCallAbility(s),
		queryPostsAdvancedAbility(s),
		batchUpdateAbility(s),
		exportPatternAbility(s),
		importPatternAbility(s),
		getPatternUsageAbility(s),
		cloneItemAbility(s),
	}
}

func customRestCallAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/custom-rest-call",
		Label:       "Custom REST Call",
		Description: "Dispatch an arbitrary request against the internal REST API",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"route":  strProp("REST route (e.g. '/api/v0/abilities')"),
			"method": enumProp("HTTP method", "GET", "POST", "PUT", "DELETE"),
			"params": objProp("Query parameters"),
			"body":   objProp("Request body"),
		}, "route", "method"),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"status": intProp(""),
			"data":   objProp(""),
		}),
		Permission: ability.RequireCapability("manage_options"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, caller *ability.Caller) (*ability.Result, error) {
			route, _ := strArg(input, "route")
			method, _ := strArg(input, "method")
			params, _ := input["params"].(map[string]any)
			body, _ := input["body"].(map[string]any)

			// The dispatched request runs as the invoking user, not
			// anonymously.
			ctx = ability.ContextWithCaller(ctx, caller)
			status, response, err := s.DispatchRest(ctx, method, route, params, body)
			if err != nil {
				return ability.FailCode(ability.CodeUnsupported, err.Error()), nil
			}
			return ability.OKExtra(response, map[string]any{"status": status}), nil
		},
	}
}

func queryPostsAdvancedAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/query-posts-advanced",
		Label:       "Advanced Content Query",
		Description: "Query content across types with combined filters",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"post_type":  arrProp("Content types to include", enumProp("", "post", "page")),
			"status":     arrProp("Statuses to include", enumProp("", model.StatusPublish, model.StatusDraft, model.StatusPrivate)),
			"author_id":  intProp("Filter by author"),
			"date_after": strProp("Only items created on or after this date (YYYY-MM-DD)"),
			"date_before": strProp("Only items created on or before this date " +
				"(YYYY-MM-DD)"),
			"search":   strProp("Search term"),
			"per_page": intProp("Number to return (default: 10, max: 100)"),
			"page":     intProp("Page number"),
		}),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data":  arrProp("", objProp("")),
			"total": intProp(""),
			"pages": intProp(""),
		}),
		Permission: ability.RequireCapability("read"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			q := store.ContentQuery{}
			if types, ok := strSliceArg(input, "post_type"); ok {
				for _, t := range types {
					q.Types = append(q.Types, model.ContentType(t))
				}
			}
			q.Statuses, _ = strSliceArg(input, "status")
			if authorID, ok := uintArg(input, "author_id"); ok {
				q.AuthorID = authorID
			}
			q.DateAfter, _ = strArg(input, "date_after")
			q.DateBefore, _ = strArg(input, "date_before")
			q.Search, _ = strArg(input, "search")
			q.PerPage, q.Page = pageArgs(input)
			q.Normalize()

			items, total, err := s.QueryContent(q)
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}

			pages := int64(0)
			if q.PerPage > 0 {
				pages = (total + int64(q.PerPage) - 1) / int64(q.PerPage)
			}
			return ability.OKExtra(formatContentList(s, items), map[string]any{
				"total": total,
				"pages": pages,
			}), nil
		},
	}
}

func batchUpdateAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/batch-update",
		Label:       "Batch Update",
		Description: "Apply updates to multiple items in one call",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"type":  enumProp("Item type being updated", "post", "page", "term"),
			"items": arrProp("Updates to apply; each entry needs an 'id'", objProp("")),
		}, "type", "items"),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"updated": intProp(""),
			"failed":  intProp(""),
			"errors":  arrProp("", strProp("")),
		}),
		Permission: ability.RequireCapability("edit_posts"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			itemType, _ := strArg(input, "type")
			rawItems, _ := input["items"].([]any)

			updated, failed := 0, 0
			errs := []string{}
			for i, raw := range rawItems {
				fields, ok := raw.(map[string]any)
				if !ok {
					failed++
					errs = append(errs, fmt.Sprintf("item %d: not an object", i))
					continue
				}
				if err := applyBatchUpdate(s, itemType, fields); err != nil {
					failed++
					errs = append(errs, fmt.Sprintf("item %d: %s", i, err))
					continue
				}
				updated++
			}

			return ability.OKExtra(nil, map[string]any{
				"updated": updated,
				"failed":  failed,
				"errors":  errs,
			}), nil
		},
	}
}

// applyBatchUpdate applies a single entry of a batch-update call. Content
// entries may change title, content, status and excerpt; term entries may
// change name and description.
func applyBatchUpdate(s *store.Store, itemType string, fields map[string]any) error {
	id, ok := uintArg(fields, "id")
	if !ok {
		return fmt.Errorf("missing id")
	}

	if itemType == "term" {
		taxonomy := model.TaxonomyCategory
		if t, ok := strArg(fields, "taxonomy"); ok && t == "post_tag" {
			taxonomy = model.TaxonomyTag
		}
		term, err := s.GetTerm(taxonomy, id)
		if err != nil {
			return fmt.Errorf("term %d not found", id)
		}
		if name, ok := strArg(fields, "name"); ok {
			term.Name = name
		}
		if description, ok := strArg(fields, "description"); ok {
			term.Description = description
		}
		return s.UpdateTerm(term)
	}

	item, err := s.GetContent(model.ContentType(itemType), id)
	if err != nil {
		return fmt.Errorf("%s %d not found", itemType, id)
	}
	if title, ok := strArg(fields, "title"); ok {
		item.Title = title
	}
	if content, ok := strArg(fields, "content"); ok {
		item.Content = content
	}
	if status, ok := strArg(fields, "status"); ok {
		item.Status = status
	}
	if excerpt, ok := strArg(fields, "excerpt"); ok {
		item.Excerpt = excerpt
	}
	return s.UpdateContent(item)
}

func exportPatternAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/export-pattern",
		Label:       "Export Pattern",
		Description: "Export a block pattern as portable JSON",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"name": strProp("Pattern name to export"),
		}, "name"),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"json": strProp(""),
		}),
		Permission: ability.RequireCapability("edit_posts"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			name, _ := strArg(input, "name")
			pattern, err := s.GetPatternByName(name)
			if err != nil {
				return storeFail(err, "Pattern not found"), nil
			}

			exported, err := json.MarshalIndent(formatPattern(pattern), "", "  ")
			if err != nil {
				return ability.FailCode(ability.CodeInternalError, err.Error()), nil
			}
			return ability.OKExtra(nil, map[string]any{"json": string(exported)}), nil
		},
	}
}

func importPatternAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/import-pattern",
		Label:       "Import Pattern",
		Description: "Import a block pattern from exported JSON",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"json_data": strProp("Exported pattern JSON"),
		}, "json_data"),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data": objProp(""),
		}),
		Permission: ability.RequireCapability("edit_posts"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			raw, _ := strArg(input, "json_data")

			var fields map[string]any
			if err := json.Unmarshal([]byte(raw), &fields); err != nil {
				return ability.FailCode(ability.CodeInvalidInput, "Invalid JSON data"), nil
			}
			name, _ := strArg(fields, "name")
			content, _ := strArg(fields, "content")
			if name == "" || content == "" {
				return ability.FailCode(ability.CodeInvalidInput, "Missing required fields: name, content"), nil
			}

			pattern := &model.Pattern{Name: name, Content: content}
			pattern.Title, _ = strArg(fields, "title")
			pattern.Description, _ = strArg(fields, "description")
			pattern.Category, _ = strArg(fields, "category")
			if keywords, ok := strSliceArg(fields, "keywords"); ok {
				encoded, _ := json.Marshal(keywords)
				pattern.Keywords = datatypes.JSON(encoded)
			}

			imported, err := s.RegisterPattern(pattern)
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}
			return ability.OK(formatPattern(imported)), nil
		},
	}
}

func getPatternUsageAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/get-pattern-usage",
		Label:       "Get Pattern Usage",
		Description: "Find content that uses a block pattern",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"name": strProp("Pattern name to look up"),
		}, "name"),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data":  arrProp("", objProp("")),
			"count": intProp(""),
		}),
		Permission: ability.RequireCapability("edit_posts"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			name, _ := strArg(input, "name")
			if _, err := s.GetPatternByName(name); err != nil {
				return storeFail(err, "Pattern not found"), nil
			}

			usage, err := s.FindPatternUsage(name)
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}

			data := make([]map[string]any, 0, len(usage))
			for _, u := range usage {
				data = append(data, map[string]any{
					"id":    u.ID,
					"title": u.Title,
					"type":  u.Type,
					"url":   u.URL,
				})
			}
			return ability.OKExtra(data, map[string]any{"count": len(data)}), nil
		},
	}
}

func cloneItemAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/clone-item",
		Label:       "Clone Item",
		Description: "Duplicate a post or page as a new draft",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"item_id":   intProp("ID of the item to clone"),
			"type":      enumProp("Item type", "post", "page"),
			"new_title": strProp("Title for the clone (default: original title + ' - Copy')"),
			"status":    enumProp("Status for the clone (default: draft)", model.StatusDraft, model.StatusPublish, model.StatusPrivate),
		}, "item_id", "type"),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"new_id": intProp(""),
			"url":    strProp(""),
			"data":   objProp(""),
		}),
		Permission: ability.RequireCapability("edit_posts"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, caller *ability.Caller) (*ability.Result, error) {
			id, _ := uintArg(input, "item_id")
			itemType, _ := strArg(input, "type")

			original, err := s.GetContent(model.ContentType(itemType), id)
			if err != nil {
				return ability.FailCode(ability.CodeNotFound, "Item not found or type mismatch"), nil
			}

			clone := &model.ContentItem{
				Type:            original.Type,
				Title:           original.Title + " - Copy",
				Content:         original.Content,
				Excerpt:         original.Excerpt,
				Status:          model.StatusDraft,
				ParentID:        original.ParentID,
				Template:        original.Template,
				FeaturedImageID: original.FeaturedImageID,
			}
			if title, ok := strArg(input, "new_title"); ok {
				clone.Title = title
			}
			if status, ok := strArg(input, "status"); ok {
				clone.Status = status
			}
			if caller != nil {
				clone.AuthorID = caller.ID
			}

			created, err := s.CreateContent(clone)
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}
			return ability.OKExtra(formatContent(s, created, true), map[string]any{
				"new_id": created.ID,
				"url":    s.Permalink(created),
			}), nil
		},
	}
}
