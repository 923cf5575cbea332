package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/presskeep/presskeep/internal/model"
	"github.com/presskeep/presskeep/pkg/version"
)

// Well-known setting keys seeded at startup.
const (
	SettingSiteTitle        = "site_title"
	SettingSiteTagline      = "site_tagline"
	SettingAdminEmail       = "admin_email"
	SettingTimezone         = "timezone"
	SettingDateFormat       = "date_format"
	SettingTimeFormat       = "time_format"
	SettingPostsPerPage     = "posts_per_page"
	SettingBlogPublic       = "blog_public"
	SettingUsersCanRegister = "users_can_register"
	SettingDefaultUserRole  = "default_user_role"
	SettingLanguage         = "language"
	SettingPermalinkFormat  = "permalink_structure"
)

// GetSetting returns the decoded value of a setting key.
func (s *Store) GetSetting(key string) (any, error) {
	var setting model.Setting
	if err := s.db.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch setting %s: %w", key, err)
	}
	var value any
	if err := json.Unmarshal(setting.Value, &value); err != nil {
		return nil, fmt.Errorf("failed to decode setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting stores a setting value, creating the key if needed.
func (s *Store) SetSetting(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode setting %s: %w", key, err)
	}

	var setting model.Setting
	err = s.db.Where("key = ?", key).First(&setting).Error
	switch {
	case err == nil:
		setting.Value = datatypes.JSON(raw)
		if err := s.db.Save(&setting).Error; err != nil {
			return fmt.Errorf("failed to update setting %s: %w", key, err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		setting = model.Setting{Key: key, Value: datatypes.JSON(raw)}
		if err := s.db.Create(&setting).Error; err != nil {
			return fmt.Errorf("failed to create setting %s: %w", key, err)
		}
	default:
		return fmt.Errorf("failed to check for existing setting: %w", err)
	}
	return nil
}

// AllSettings returns every setting key with its decoded value.
func (s *Store) AllSettings() (map[string]any, error) {
	var settings []model.Setting
	if err := s.db.Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	out := make(map[string]any, len(settings))
	for _, setting := range settings {
		var value any
		if err := json.Unmarshal(setting.Value, &value); err != nil {
			return nil, fmt.Errorf("failed to decode setting %s: %w", setting.Key, err)
		}
		out[setting.Key] = value
	}
	return out, nil
}

// SiteStats returns the site overview statistics.
func (s *Store) SiteStats() (map[string]any, error) {
	pageCount, err := s.CountPublished(model.ContentTypePage)
	if err != nil {
		return nil, err
	}
	postCount, err := s.CountPublished(model.ContentTypePost)
	if err != nil {
		return nil, err
	}
	userCount, err := s.CountUsers()
	if err != nil {
		return nil, err
	}
	activePlugins, err := s.CountActivePlugins()
	if err != nil {
		return nil, err
	}

	activeTheme := ""
	if theme, err := s.ActiveTheme(); err == nil {
		activeTheme = theme.Name
	}

	settingOrDefault := func(key string, fallback any) any {
		if v, err := s.GetSetting(key); err == nil {
			return v
		}
		return fallback
	}

	return map[string]any{
		"site_title":     settingOrDefault(SettingSiteTitle, ""),
		"site_url":       s.baseURL,
		"admin_email":    settingOrDefault(SettingAdminEmail, ""),
		"page_count":     pageCount,
		"post_count":     postCount,
		"user_count":     userCount,
		"active_plugins": activePlugins,
		"active_theme":   activeTheme,
		"server_version": version.GetVersion(),
		"go_version":     runtime.Version(),
		"timezone":       settingOrDefault(SettingTimezone, "UTC"),
		"language":       settingOrDefault(SettingLanguage, "en_US"),
	}, nil
}

// defaultSettings is the seed content of an empty settings table.
var defaultSettings = map[string]any{
	SettingSiteTitle:        "PressKeep",
	SettingSiteTagline:      "Just another PressKeep site",
	SettingAdminEmail:       "admin@example.com",
	SettingTimezone:         "UTC",
	SettingDateFormat:       "2006-01-02",
	SettingTimeFormat:       "15:04",
	SettingPostsPerPage:     10,
	SettingBlogPublic:       true,
	SettingUsersCanRegister: false,
	SettingDefaultUserRole:  model.RoleSubscriber,
	SettingLanguage:         "en_US",
	SettingPermalinkFormat:  "/%type%s/%slug%",
}

// EnsureDefaults seeds an empty database: the default settings, a default
// active theme, and an administrator account. It returns the admin user and
// its freshly generated access token when one was created, so startup can
// print the token exactly once.
func (s *Store) EnsureDefaults() (*model.User, error) {
	for key, value := range defaultSettings {
		if _, err := s.GetSetting(key); errors.Is(err, ErrNotFound) {
			if err := s.SetSetting(key, value); err != nil {
				return nil, err
			}
		}
	}

	if _, err := s.ActiveTheme(); errors.Is(err, ErrNotFound) {
		theme := model.Theme{
			Slug:        "keepnote",
			Name:        "KeepNote",
			Description: "The default PressKeep theme",
			Version:     version.GetVersion(),
			Author:      "PressKeep",
			Active:      true,
			Supports: datatypes.JSON(`{
				"post-thumbnails": true,
				"html5": true,
				"widgets": false,
				"menus": true,
				"automatic-feed-links": false,
				"align-wide": true,
				"wp-block-styles": true,
				"editor-color-palette": true,
				"editor-font-sizes": true
			}`),
		}
		if err := s.RegisterTheme(&theme); err != nil {
			return nil, err
		}
	}

	count, err := s.CountUsers()
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}

	admin := model.User{
		Username:    "admin",
		Email:       defaultSettings[SettingAdminEmail].(string),
		DisplayName: "Administrator",
		Role:        model.RoleAdministrator,
	}
	password := fmt.Sprintf("presskeep-%d", time.Now().UnixNano())
	if _, err := s.CreateUser(&admin, password); err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}
	return &admin, nil
}
