package abilities

import (
	"context"
	"encoding/json"

	"github.com/presskeep/presskeep/internal/ability"
	"github.com/presskeep/presskeep/internal/model"
	"github.com/presskeep/presskeep/internal/store"
	"gorm.io/datatypes"
)

func patternAbilities(s *store.Store) []*ability.Definition {
	return []*ability.Definition{
		listPatternsAbility(s),
		getPatternAbility(s),
		createPatternAbility(s),
		editPatternAbility(s),
		deletePatternAbility(s),
		getBlockTypesAbility(s),
		validateBlocksAbility(s),
	}
}

func listPatternsAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/list-patterns",
		Label:       "List Block Patterns",
		Description: "Get all registered block patterns",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"category": strProp("Filter by pattern category"),
			"search":   strProp("Search in pattern names and titles"),
		}),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data":  arrProp("", objProp("")),
			"total": intProp(""),
		}),
		Permission: ability.RequireCapability("edit_posts"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			q := store.PatternQuery{}
			q.Category, _ = strArg(input, "category")
			q.Search, _ = strArg(input, "search")

			patterns, err := s.ListPatterns(q)
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}

			data := make([]map[string]any, 0, len(patterns))
			for i := range patterns {
				data = append(data, formatPattern(&patterns[i]))
			}
			return ability.OKExtra(data, map[string]any{"total": len(data)}), nil
		},
	}
}

func getPatternAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/get-pattern",
		Label:       "Get Block Pattern",
		Description: "Retrieve a specific pattern by name",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"name": strProp("Pattern name (e.g. 'mysite/hero')"),
		}, "name"),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data": objProp(""),
		}),
		Permission: ability.RequireCapability("edit_posts"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			name, _ := strArg(input, "name")
			pattern, err := s.GetPatternByName(name)
			if err != nil {
				return storeFail(err, "Pattern not found"), nil
			}
			return ability.OK(formatPattern(pattern)), nil
		},
	}
}

func createPatternAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/create-pattern",
		Label:       "Create Block Pattern",
		Description: "Register a new block pattern",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"title":       strProp("Pattern title"),
			"name":        strProp("Pattern name (namespace/name format)"),
			"content":     strProp("Pattern block content"),
			"description": strProp("Pattern description"),
			"category":    strProp("Pattern category"),
			"keywords":    arrProp("Search keywords", strProp("")),
		}, "title", "name", "content"),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data": objProp(""),
		}),
		Permission: ability.RequireCapability("edit_posts"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			pattern := &model.Pattern{}
			pattern.Title, _ = strArg(input, "title")
			pattern.Name, _ = strArg(input, "name")
			pattern.Content, _ = strArg(input, "content")
			pattern.Description, _ = strArg(input, "description")
			pattern.Category, _ = strArg(input, "category")
			if keywords, ok := strSliceArg(input, "keywords"); ok {
				raw, _ := json.Marshal(keywords)
				pattern.Keywords = datatypes.JSON(raw)
			}

			registered, err := s.RegisterPattern(pattern)
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}
			return ability.OK(formatPattern(registered)), nil
		},
	}
}

func editPatternAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/edit-pattern",
		Label:       "Edit Block Pattern",
		Description: "Modify an existing block pattern",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"name":        strProp("Pattern name to edit"),
			"title":       strProp("New pattern title"),
			"content":     strProp("New pattern content"),
			"description": strProp("New pattern description"),
			"category":    strProp("New pattern category"),
			"keywords":    arrProp("", strProp("")),
		}, "name"),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data": objProp(""),
		}),
		Permission: ability.RequireCapability("edit_posts"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			name, _ := strArg(input, "name")
			pattern, err := s.GetPatternByName(name)
			if err != nil {
				return storeFail(err, "Pattern not found"), nil
			}

			if title, ok := strArg(input, "title"); ok {
				pattern.Title = title
			}
			if content, ok := strArg(input, "content"); ok {
				pattern.Content = content
			}
			if description, ok := strArg(input, "description"); ok {
				pattern.Description = description
			}
			if category, ok := strArg(input, "category"); ok {
				pattern.Category = category
			}
			if keywords, ok := strSliceArg(input, "keywords"); ok {
				raw, _ := json.Marshal(keywords)
				pattern.Keywords = datatypes.JSON(raw)
			}

			updated, err := s.RegisterPattern(pattern)
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}
			return ability.OK(formatPattern(updated)), nil
		},
	}
}

func deletePatternAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/delete-pattern",
		Label:       "Delete Block Pattern",
		Description: "Unregister a block pattern",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"name": strProp("Pattern name to delete"),
		}, "name"),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"message": strProp(""),
		}),
		Permission: ability.RequireCapability("delete_posts"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			name, _ := strArg(input, "name")
			if err := s.DeletePattern(name); err != nil {
				return storeFail(err, "Pattern not found"), nil
			}
			return ability.OKExtra(nil, map[string]any{"message": "Pattern deleted successfully"}), nil
		},
	}
}

func getBlockTypesAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/get-block-types",
		Label:       "Get Block Types",
		Description: "List all registered block types",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"namespace":          strProp("Filter by namespace (e.g. 'core')"),
			"include_deprecated": boolProp("Include deprecated blocks"),
		}),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data":  arrProp("", objProp("")),
			"total": intProp(""),
		}),
		Permission: ability.RequireCapability("edit_posts"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			namespace, _ := strArg(input, "namespace")
			includeDeprecated, _ := boolArg(input, "include_deprecated")

			blocks := s.BlockTypes(namespace, includeDeprecated)
			data := make([]map[string]any, 0, len(blocks))
			for _, b := range blocks {
				data = append(data, map[string]any{
					"name":        b.Name,
					"title":       b.Title,
					"category":    b.Category,
					"description": b.Description,
					"attributes":  b.Attributes,
				})
			}
			return ability.OKExtra(data, map[string]any{"total": len(data)}), nil
		},
	}
}

func validateBlocksAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/validate-blocks",
		Label:       "Validate Block Markup",
		Description: "Validate serialized block JSON",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"blocks": strProp("Serialized block JSON to validate"),
		}, "blocks"),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"valid":  boolProp(""),
			"errors": arrProp("", strProp("")),
		}),
		Permission: ability.RequireCapability("edit_posts"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			blocks, _ := strArg(input, "blocks")
			valid, errs := store.ValidateBlockJSON(blocks)
			return ability.OKExtra(nil, map[string]any{
				"valid":  valid,
				"errors": errs,
			}), nil
		},
	}
}
