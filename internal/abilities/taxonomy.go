package abilities

import (
	"context"
	"errors"

	"github.com/presskeep/presskeep/internal/ability"
	"github.com/presskeep/presskeep/internal/model"
	"github.com/presskeep/presskeep/internal/store"
)

func taxonomyAbilities(s *store.Store) []*ability.Definition {
	return []*ability.Definition{
		listCategoriesAbility(s),
		listTagsAbility(s),
		createTermAbility(s, model.TaxonomyCategory, "category", "category_id", "Create Category", "Create a new category"),
		createTermAbility(s, model.TaxonomyTag, "tag", "tag_id", "Create Tag", "Create a new tag"),
	}
}

func listCategoriesAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/list-categories",
		Label:       "List Categories",
		Description: "Get all categories",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"parent":     intProp("Filter by parent category ID"),
			"hide_empty": boolProp("Exclude categories with no published posts (default: true)"),
			"search":     strProp("Search in category names"),
		}),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data":  arrProp("", objProp("")),
			"total": intProp(""),
		}),
		Permission: ability.RequireCapability("read"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			q := store.TermQuery{Taxonomy: model.TaxonomyCategory, HideEmpty: true}
			if parentID, ok := uintArg(input, "parent"); ok {
				q.ParentID = parentID
				q.HasParent = true
			}
			if hideEmpty, ok := boolArg(input, "hide_empty"); ok {
				q.HideEmpty = hideEmpty
			}
			q.Search, _ = strArg(input, "search")

			terms, err := s.ListTerms(q)
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}
			return ability.OKExtra(formatTermList(terms), map[string]any{"total": len(terms)}), nil
		},
	}
}

func listTagsAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/list-tags",
		Label:       "List Tags",
		Description: "Get all tags",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"hide_empty": boolProp("Exclude tags with no published posts (default: true)"),
			"search":     strProp("Search in tag names"),
			"orderby":    enumProp("Sort order", "name", "count"),
		}),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data":  arrProp("", objProp("")),
			"total": intProp(""),
		}),
		Permission: ability.RequireCapability("read"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			q := store.TermQuery{Taxonomy: model.TaxonomyTag, HideEmpty: true}
			if hideEmpty, ok := boolArg(input, "hide_empty"); ok {
				q.HideEmpty = hideEmpty
			}
			q.Search, _ = strArg(input, "search")
			q.OrderBy, _ = strArg(input, "orderby")

			terms, err := s.ListTerms(q)
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}
			return ability.OKExtra(formatTermList(terms), map[string]any{"total": len(terms)}), nil
		},
	}
}

func createTermAbility(s *store.Store, taxonomy model.Taxonomy, noun, idField, label, description string) *ability.Definition {
	props := map[string]*ability.Schema{
		"name":        strProp(titled(noun) + " name"),
		"slug":        strProp(titled(noun) + " slug"),
		"description": strProp(titled(noun) + " description"),
	}
	if taxonomy == model.TaxonomyCategory {
		props["parent"] = intProp("Parent category ID")
	}

	return &ability.Definition{
		Name:        "mcp-wp/create-" + noun,
		Label:       label,
		Description: description,
		Category:    Category,
		InputSchema: objSchema(props, "name"),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			idField: intProp(""),
			"data":  objProp(""),
		}),
		Permission: ability.RequireCapability("manage_categories"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			term := &model.Term{Taxonomy: taxonomy}
			term.Name, _ = strArg(input, "name")
			if slug, ok := strArg(input, "slug"); ok {
				term.Slug = store.Slugify(slug)
			}
			term.Description, _ = strArg(input, "description")
			if parentID, ok := uintArg(input, "parent"); ok {
				term.ParentID = parentID
			}

			created, err := s.CreateTerm(term)
			if err != nil {
				if errors.Is(err, store.ErrTermExists) {
					return ability.Fail("A " + noun + " with this slug already exists"), nil
				}
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}
			return ability.OKExtra(formatTerm(created), map[string]any{idField: created.ID}), nil
		},
	}
}

func formatTermList(terms []model.Term) []any {
	out := make([]any, len(terms))
	for i := range terms {
		out[i] = formatTerm(&terms[i])
	}
	return out
}
