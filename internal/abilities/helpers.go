// Package abilities declares the built-in PressKeep abilities: the content,
// media, user, taxonomy, pattern, plugin, settings and advanced operations
// exposed through the registry. Each ability is a thin, schema-described
// adapter over the content store.
package abilities

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/presskeep/presskeep/internal/ability"
	"github.com/presskeep/presskeep/internal/model"
	"github.com/presskeep/presskeep/internal/store"
)

// Category is the grouping tag all built-in abilities share.
const Category = "mcp-wp"

// Schema construction shorthand. Ability definitions read as data; these keep
// the property tables compact.

func objSchema(props map[string]*ability.Schema, required ...string) *ability.Schema {
	return &ability.Schema{Kind: ability.KindObject, Properties: props, Required: required}
}

func strProp(desc string) *ability.Schema {
	return &ability.Schema{Kind: ability.KindString, Description: desc}
}

func enumProp(desc string, values ...string) *ability.Schema {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return &ability.Schema{Kind: ability.KindString, Description: desc, Enum: enum}
}

func intProp(desc string) *ability.Schema {
	return &ability.Schema{Kind: ability.KindInteger, Description: desc}
}

func boolProp(desc string) *ability.Schema {
	return &ability.Schema{Kind: ability.KindBoolean, Description: desc}
}

func arrProp(desc string, items *ability.Schema) *ability.Schema {
	return &ability.Schema{Kind: ability.KindArray, Description: desc, Items: items}
}

func objProp(desc string) *ability.Schema {
	return &ability.Schema{Kind: ability.KindObject, Description: desc}
}

// envelopeSchema builds the common output envelope schema with the given
// ability-specific fields merged in.
func envelopeSchema(extra map[string]*ability.Schema) *ability.Schema {
	props := map[string]*ability.Schema{
		"success": {Kind: ability.KindBoolean},
		"error":   {Kind: ability.KindString},
	}
	for name, schema := range extra {
		props[name] = schema
	}
	return &ability.Schema{Kind: ability.KindObject, Properties: props}
}

// Input readers. Inputs have already passed schema validation, so these only
// distinguish present from absent and normalize JSON number decoding.

func strArg(input map[string]any, key string) (string, bool) {
	v, ok := input[key].(string)
	return v, ok
}

func intArg(input map[string]any, key string) (int, bool) {
	switch n := input[key].(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

func uintArg(input map[string]any, key string) (uint, bool) {
	n, ok := intArg(input, key)
	if !ok || n < 0 {
		return 0, ok
	}
	return uint(n), true
}

func boolArg(input map[string]any, key string) (bool, bool) {
	v, ok := input[key].(bool)
	return v, ok
}

func strSliceArg(input map[string]any, key string) ([]string, bool) {
	raw, ok := input[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}

func uintSliceArg(input map[string]any, key string) ([]uint, bool) {
	raw, ok := input[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]uint, 0, len(raw))
	for _, v := range raw {
		if n, ok := v.(float64); ok && n >= 0 {
			out = append(out, uint(n))
		}
	}
	return out, true
}

// pageArgs reads the shared per_page/page pagination inputs.
func pageArgs(input map[string]any) (perPage, page int) {
	perPage, _ = intArg(input, "per_page")
	page, _ = intArg(input, "page")
	return perPage, page
}

// Response formatting, shared across the content abilities so every surface
// shapes items identically.

func formatContent(s *store.Store, item *model.ContentItem, includeContent bool) map[string]any {
	out := map[string]any{
		"id":                item.ID,
		"title":             item.Title,
		"slug":              item.Slug,
		"status":            item.Status,
		"type":              string(item.Type),
		"author_id":         item.AuthorID,
		"date":              item.CreatedAt.UTC().Format(time.RFC3339),
		"modified":          item.UpdatedAt.UTC().Format(time.RFC3339),
		"excerpt":           item.Excerpt,
		"url":               s.Permalink(item),
		"parent_id":         item.ParentID,
		"featured_image_id": item.FeaturedImageID,
	}
	if includeContent {
		out["content"] = item.Content
	}
	return out
}

func formatContentList(s *store.Store, items []model.ContentItem) []any {
	out := make([]any, len(items))
	for i := range items {
		out[i] = formatContent(s, &items[i], false)
	}
	return out
}

func formatUser(user *model.User) map[string]any {
	return map[string]any{
		"id":           user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"first_name":   user.FirstName,
		"last_name":    user.LastName,
		"roles":        []string{user.Role},
		"registered":   user.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func formatTerm(term *model.Term) map[string]any {
	return map[string]any{
		"id":          term.ID,
		"name":        term.Name,
		"slug":        term.Slug,
		"description": term.Description,
		"parent":      term.ParentID,
		"count":       term.Count,
	}
}

func formatPattern(p *model.Pattern) map[string]any {
	keywords := []any{}
	if len(p.Keywords) > 0 {
		// Stored as a JSON array; on decode failure expose the empty list.
		_ = json.Unmarshal(p.Keywords, &keywords)
	}
	return map[string]any{
		"name":        p.Name,
		"title":       p.Title,
		"description": p.Description,
		"content":     p.Content,
		"category":    p.Category,
		"keywords":    keywords,
	}
}

func formatMedia(s *store.Store, item *model.MediaItem) map[string]any {
	return map[string]any{
		"id":       item.ID,
		"title":    item.Title,
		"filename": item.FileName,
		"url":      s.MediaURL(item),
		"type":     item.MimeType,
		"date":     item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// storeFail maps a store error to a failure envelope with the right code.
func storeFail(err error, notFoundMessage string) *ability.Result {
	if errors.Is(err, store.ErrNotFound) {
		return ability.FailCode(ability.CodeNotFound, notFoundMessage)
	}
	return ability.FailCode(ability.CodeStoreError, err.Error())
}
