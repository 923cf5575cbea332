package abilities

import (
	"context"
	"fmt"

	"github.com/presskeep/presskeep/internal/ability"
	"github.com/presskeep/presskeep/internal/store"
)

// RegisterAll registers every built-in ability with the registry, backed by
// the given store. Registration order determines listing order.
func RegisterAll(registry *ability.Registry, s *store.Store) error {
	registry.RegisterCategory(Category, "Content Management")

	groups := [][]*ability.Definition{
		contentAbilities(s),
		patternAbilities(s),
		userAbilities(s),
		mediaAbilities(s),
		taxonomyAbilities(s),
		settingsAbilities(s),
		pluginAbilities(s),
		advancedAbilities(s),
		{connectivityAbility()},
	}
	for _, group := range groups {
		for _, def := range group {
			if err := registry.Register(def); err != nil {
				return fmt.Errorf("failed to register ability %s: %w", def.Name, err)
			}
		}
	}
	return nil
}

// connectivityAbility answers a static payload without touching the store,
// so callers can verify the invocation path end to end.
func connectivityAbility() *ability.Definition {
	return &ability.Definition{
		Name:         "mcp-wp/test",
		Label:        "Connectivity Test",
		Description:  "Verify the ability pipeline is reachable",
		Category:     Category,
		InputSchema:  objSchema(nil),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{"message": strProp("")}),
		Permission:   ability.AllowAnonymous(),
		Visibility:   ability.VisibilityInternal,
		Execute: func(ctx context.Context, _ map[string]any, _ *ability.Caller) (*ability.Result, error) {
			return ability.OKExtra(nil, map[string]any{"message": "MCP connection working!"}), nil
		},
	}
}
