package abilities

import (
	"context"
	"encoding/json"

	"github.com/presskeep/presskeep/internal/ability"
	"github.com/presskeep/presskeep/internal/model"
	"github.com/presskeep/presskeep/internal/store"
)

func pluginAbilities(s *store.Store) []*ability.Definition {
	return []*ability.Definition{
		listPluginsAbility(s),
		getPluginAbility(s),
		setPluginActiveAbility(s, true),
		setPluginActiveAbility(s, false),
		getThemeAbility(s),
		getThemeSupportsAbility(s),
	}
}

func formatPlugin(p *model.Plugin) map[string]any {
	status := "inactive"
	if p.Active {
		status = "active"
	}
	return map[string]any{
		"file":        p.File,
		"name":        p.Name,
		"description": p.Description,
		"version":     p.Version,
		"author":      p.Author,
		"status":      status,
	}
}

func listPluginsAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/list-plugins",
		Label:       "List Plugins",
		Description: "Get all installed plugins",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"status": enumProp("Filter by activation status", "active", "inactive", "all"),
		}),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data":  arrProp("", objProp("")),
			"total": intProp(""),
		}),
		Permission: ability.RequireCapability("manage_plugins"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			var active *bool
			if status, ok := strArg(input, "status"); ok && status != "all" {
				v := status == "active"
				active = &v
			}

			plugins, err := s.ListPlugins(active)
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}

			data := make([]map[string]any, 0, len(plugins))
			for i := range plugins {
				data = append(data, formatPlugin(&plugins[i]))
			}
			return ability.OKExtra(data, map[string]any{"total": len(data)}), nil
		},
	}
}

func getPluginAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:        "mcp-wp/get-plugin",
		Label:       "Get Plugin",
		Description: "Retrieve details of a specific plugin",
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"plugin": strProp("Plugin file (e.g. 'akismet/akismet.php')"),
		}, "plugin"),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"data": objProp(""),
		}),
		Permission: ability.RequireCapability("manage_plugins"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			file, _ := strArg(input, "plugin")
			plugin, err := s.GetPlugin(file)
			if err != nil {
				return storeFail(err, "Plugin not found"), nil
			}
			return ability.OK(formatPlugin(plugin)), nil
		},
	}
}

func setPluginActiveAbility(s *store.Store, activate bool) *ability.Definition {
	name := "mcp-wp/deactivate-plugin"
	label := "Deactivate Plugin"
	description := "Deactivate an active plugin"
	message := "Plugin deactivated successfully"
	if activate {
		name = "mcp-wp/activate-plugin"
		label = "Activate Plugin"
		description = "Activate an installed plugin"
		message = "Plugin activated successfully"
	}

	return &ability.Definition{
		Name:        name,
		Label:       label,
		Description: description,
		Category:    Category,
		InputSchema: objSchema(map[string]*ability.Schema{
			"plugin": strProp("Plugin file (e.g. 'akismet/akismet.php')"),
		}, "plugin"),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{
			"message": strProp(""),
		}),
		Permission: ability.RequireCapability("manage_plugins"),
		Visibility: ability.VisibilityPublic,
		Execute: func(ctx context.Context, input map[string]any, _ *ability.Caller) (*ability.Result, error) {
			file, _ := strArg(input, "plugin")
			if err := s.SetPluginActive(file, activate); err != nil {
				return storeFail(err, "Plugin not found"), nil
			}
			return ability.OKExtra(nil, map[string]any{"message": message}), nil
		},
	}
}

func getThemeAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:         "mcp-wp/get-theme",
		Label:        "Get Active Theme",
		Description:  "Retrieve details of the active theme",
		Category:     Category,
		InputSchema:  objSchema(nil),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{"data": objProp("")}),
		Permission:   ability.RequireCapability("switch_themes"),
		Visibility:   ability.VisibilityPublic,
		Execute: func(ctx context.Context, _ map[string]any, _ *ability.Caller) (*ability.Result, error) {
			theme, err := s.ActiveTheme()
			if err != nil {
				return storeFail(err, "No active theme"), nil
			}

			supports := map[string]any{}
			if len(theme.Supports) > 0 {
				_ = json.Unmarshal(theme.Supports, &supports)
			}
			return ability.OK(map[string]any{
				"slug":        theme.Slug,
				"name":        theme.Name,
				"description": theme.Description,
				"version":     theme.Version,
				"author":      theme.Author,
				"supports":    supports,
			}), nil
		},
	}
}

func getThemeSupportsAbility(s *store.Store) *ability.Definition {
	return &ability.Definition{
		Name:         "mcp-wp/get-theme-supports",
		Label:        "Get Theme Supports",
		Description:  "Retrieve the feature support flags of the active theme",
		Category:     Category,
		InputSchema:  objSchema(nil),
		OutputSchema: envelopeSchema(map[string]*ability.Schema{"data": objProp("")}),
		Permission:   ability.RequireCapability("switch_themes"),
		Visibility:   ability.VisibilityPublic,
		Execute: func(ctx context.Context, _ map[string]any, _ *ability.Caller) (*ability.Result, error) {
			supports, err := s.ThemeSupports()
			if err != nil {
				return ability.FailCode(ability.CodeStoreError, err.Error()), nil
			}
			return ability.OK(supports), nil
		},
	}
}
