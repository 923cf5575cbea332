package abilities

import (
	"context"

	"github.com/presskeep/presskeep/internal/ability"
	"github.com/presskeep/presskeep/internal/store"
	"github.com/presskeep/presskeep/pkg/version"
)

func settingsAbilities(s *store.Store) []*ability.Definition {
	return []*ability.Definition{
		getSettingsAbility(s),
		getGutenbergSettingsAbility(s),
		getSiteStatsAbility(s),
	}
}

func getSettingsAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:         "mcp-wp/get-settings",
		Label:        "Get Site Settings",
		Description:  "Retrieve general site settings",
		Category:     Category,
		InputSchema:  objSchema(nil),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{"data": objProp("")}),
		Permission:   ability.RequireCapability("manage_options"),
		Visibility:   ability.VisibilityPublic,
		Execute: func(ctx context.Context, _ map[string]any, _ *ability.Caller) (*ability.Result, error) {
			settings, err := s.AllSettings()
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}
			settings["site_url"] = s.BaseURL()
			settings["server_version"] = version.GetVersion()
			return ability.OK(settings), nil
		},
	}
}

func getGutenbergSettingsAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:         "mcp-wp/get-gutenberg-settings",
		Label:        "Get Editor Settings",
		Description:  "Retrieve block editor configuration",
		Category:     Category,
		InputSchema:  objSchema(nil),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{"data": objProp("")}),
		Permission:   ability.RequireCapability("manage_options"),
		Visibility:   ability.VisibilityPublic,
		Execute: func(ctx context.Context, _ map[string]any, _ *ability.Caller) (*ability.Result, error) {
			settings, err := s.EditorSettings()
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}
			return ability.OK(settings), nil
		},
	}
}

func getSiteStatsAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:         "mcp-wp/get-site-stats",
		Label:        "Get Site Statistics",
		Description:  "Retrieve site health and content statistics",
		Category:     Category,
		InputSchema:  objSchema(nil),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{"data": objProp("")}),
		Permission:   ability.RequireCapability("manage_options"),
		Visibility:   ability.VisibilityPublic,
		Execute: func(ctx context.Context, _ map[string]any, _ *ability.Caller) (*ability.Result, error) {
			stats, err := s.SiteStats()
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}
			return ability.OK(stats), nil
		},
	}
}
