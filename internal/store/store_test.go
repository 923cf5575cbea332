package store

import (
	"errors"
	"testing"

	"github.com/presskeep/presskeep/internal/ability"
	"github.com/presskeep/presskeep/internal/model"
	"github.com/presskeep/presskeep/pkg/testhelpers"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := testhelpers.CreateTestDB()
	testhelpers.AssertNoError(t, err)
	s, err := NewStore(&Config{DB: db, BaseURL: "http://example.test"})
	testhelpers.AssertNoError(t, err)
	return s
}

func TestContentCRUD(t *testing.T) {
	s := newTestStore(t)

	page, err := s.CreateContent(&model.ContentItem{
		Type:    model.ContentTypePage,
		Title:   "About Us",
		Content: "<p>Hello</p>",
	})
	testhelpers.AssertNoError(t, err)
	if page.Slug != "about-us" {
		t.Errorf("Expected derived slug about-us, got %q", page.Slug)
	}
	if page.Status != model.StatusDraft {
		t.Errorf("Expected default status draft, got %q", page.Status)
	}

	t.Run("get returns the created item", func(t *testing.T) {
		got, err := s.GetContent(model.ContentTypePage, page.ID)
		testhelpers.AssertNoError(t, err)
		if got.Title != "About Us" {
			t.Errorf("Expected About Us, got %q", got.Title)
		}
	})

	t.Run("type mismatch is not found", func(t *testing.T) {
		_, err := s.GetContent(model.ContentTypePost, page.ID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got: %v", err)
		}
	})

	t.Run("update persists changes", func(t *testing.T) {
		page.Status = model.StatusPublish
		testhelpers.AssertNoError(t, s.UpdateContent(page))
		got, err := s.GetContent(model.ContentTypePage, page.ID)
		testhelpers.AssertNoError(t, err)
		if got.Status != model.StatusPublish {
			t.Errorf("Expected publish, got %q", got.Status)
		}
	})

	t.Run("soft delete moves to trash", func(t *testing.T) {
		testhelpers.AssertNoError(t, s.DeleteContent(model.ContentTypePage, page.ID, false))
		got, err := s.GetContent(model.ContentTypePage, page.ID)
		testhelpers.AssertNoError(t, err)
		if got.Status != model.StatusTrash {
			t.Errorf("Expected trash, got %q", got.Status)
		}
		// Trashed items disappear from listings.
		items, total, err := s.QueryContent(ContentQuery{Types: []model.ContentType{model.ContentTypePage}})
		testhelpers.AssertNoError(t, err)
		if total != 0 || len(items) != 0 {
			t.Errorf("Expected trashed item to be excluded, got %d items", len(items))
		}
	})

	t.Run("force delete removes the row", func(t *testing.T) {
		testhelpers.AssertNoError(t, s.DeleteContent(model.ContentTypePage, page.ID, true))
		_, err := s.GetContent(model.ContentTypePage, page.ID)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound after force delete, got: %v", err)
		}
	})
}

func TestQueryContent(t *testing.T) {
	s := newTestStore(t)

	titles := []string{"Zebra", "Apple", "Mango"}
	for _, title := range titles {
		_, err := s.CreateContent(&model.ContentItem{
			Type:    model.ContentTypePage,
			Title:   title,
			Content: "content of " + title,
			Status:  model.StatusPublish,
		})
		testhelpers.AssertNoError(t, err)
	}

	t.Run("title ordering", func(t *testing.T) {
		items, total, err := s.QueryContent(ContentQuery{
			Types:   []model.ContentType{model.ContentTypePage},
			OrderBy: "title",
			Order:   "ASC",
		})
		testhelpers.AssertNoError(t, err)
		if total != 3 {
			t.Fatalf("Expected total 3, got %d", total)
		}
		if items[0].Title != "Apple" || items[2].Title != "Zebra" {
			t.Errorf("Expected alphabetical order, got %q..%q", items[0].Title, items[2].Title)
		}
	})

	t.Run("search matches title", func(t *testing.T) {
		items, total, err := s.QueryContent(ContentQuery{Search: "Mang"})
		testhelpers.AssertNoError(t, err)
		if total != 1 || items[0].Title != "Mango" {
			t.Errorf("Expected only Mango, got %d items", len(items))
		}
	})

	t.Run("pagination caps and pages", func(t *testing.T) {
		items, total, err := s.QueryContent(ContentQuery{PerPage: 2, Page: 2, OrderBy: "title", Order: "ASC"})
		testhelpers.AssertNoError(t, err)
		if total != 3 {
			t.Errorf("Expected total 3 regardless of page, got %d", total)
		}
		if len(items) != 1 || items[0].Title != "Zebra" {
			t.Errorf("Expected last page to hold Zebra, got %v", items)
		}
	})
}

func TestContentTerms(t *testing.T) {
	s := newTestStore(t)

	post, err := s.CreateContent(&model.ContentItem{
		Type:    model.ContentTypePost,
		Title:   "Tagged post",
		Content: "body",
		Status:  model.StatusPublish,
	})
	testhelpers.AssertNoError(t, err)

	news, err := s.CreateTerm(&model.Term{Taxonomy: model.TaxonomyCategory, Name: "News"})
	testhelpers.AssertNoError(t, err)

	testhelpers.AssertNoError(t, s.SetContentCategories(post.ID, []uint{news.ID}))
	testhelpers.AssertNoError(t, s.SetContentTags(post.ID, []string{"golang", "cms"}))

	t.Run("tags are created on assignment", func(t *testing.T) {
		tags, err := s.ContentTerms(post.ID, model.TaxonomyTag)
		testhelpers.AssertNoError(t, err)
		if len(tags) != 2 {
			t.Fatalf("Expected 2 tags, got %d", len(tags))
		}
	})

	t.Run("category filter finds the post", func(t *testing.T) {
		items, total, err := s.QueryContent(ContentQuery{CategoryID: news.ID})
		testhelpers.AssertNoError(t, err)
		if total != 1 || items[0].ID != post.ID {
			t.Errorf("Expected the tagged post, got %d items", len(items))
		}
	})

	t.Run("tag slug filter finds the post", func(t *testing.T) {
		items, _, err := s.QueryContent(ContentQuery{TagSlug: "golang"})
		testhelpers.AssertNoError(t, err)
		if len(items) != 1 {
			t.Errorf("Expected the tagged post, got %d items", len(items))
		}
	})

	t.Run("term counts reflect published items", func(t *testing.T) {
		got, err := s.GetTerm(model.TaxonomyCategory, news.ID)
		testhelpers.AssertNoError(t, err)
		if got.Count != 1 {
			t.Errorf("Expected count 1, got %d", got.Count)
		}
	})
}

func TestUsersAndCapabilities(t *testing.T) {
	s := newTestStore(t)

	editor, err := s.CreateUser(&model.User{Username: "jo", Email: "jo@example.test", Role: model.RoleEditor}, "secret")
	testhelpers.AssertNoError(t, err)
	if editor.AccessToken == "" {
		t.Error("Expected a generated access token")
	}
	if editor.DisplayName != "jo" {
		t.Errorf("Expected display name to default to username, got %q", editor.DisplayName)
	}

	t.Run("duplicate username is rejected", func(t *testing.T) {
		_, err := s.CreateUser(&model.User{Username: "jo", Email: "other@example.test"}, "pw")
		testhelpers.AssertError(t, err)
	})

	t.Run("invalid role is rejected", func(t *testing.T) {
		_, err := s.CreateUser(&model.User{Username: "bad", Role: "superuser"}, "pw")
		testhelpers.AssertError(t, err)
	})

	t.Run("token lookup", func(t *testing.T) {
		got, err := s.GetUserByAccessToken(editor.AccessToken)
		testhelpers.AssertNoError(t, err)
		if got.Username != "jo" {
			t.Errorf("Expected jo, got %q", got.Username)
		}
		_, err = s.GetUserByAccessToken("no-such-token")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got: %v", err)
		}
	})

	t.Run("password check", func(t *testing.T) {
		if !s.CheckPassword(editor, "secret") {
			t.Error("Expected correct password to verify")
		}
		if s.CheckPassword(editor, "wrong") {
			t.Error("Expected wrong password to fail")
		}
	})

	t.Run("capabilities by role", func(t *testing.T) {
		caller := &ability.Caller{ID: editor.ID, Username: editor.Username, Role: editor.Role}
		if !s.HasCapability(caller, "edit_pages") {
			t.Error("Expected editor to have edit_pages")
		}
		if s.HasCapability(caller, "manage_options") {
			t.Error("Expected editor to lack manage_options")
		}
		if s.HasCapability(nil, "read") {
			t.Error("Expected anonymous caller to lack every capability")
		}
	})

	t.Run("list with role filter", func(t *testing.T) {
		_, err := s.CreateUser(&model.User{Username: "sam", Role: model.RoleAuthor}, "pw")
		testhelpers.AssertNoError(t, err)
		users, total, err := s.ListUsers(UserQuery{Role: model.RoleEditor})
		testhelpers.AssertNoError(t, err)
		if total != 1 || users[0].Username != "jo" {
			t.Errorf("Expected only jo, got %d users", len(users))
		}
	})
}

func TestMedia(t *testing.T) {
	s := newTestStore(t)

	item, err := s.SaveMedia(&model.MediaItem{FileName: "../evil/photo.png", AuthorID: 1}, []byte{1, 2, 3})
	testhelpers.AssertNoError(t, err)
	if item.FileName != "photo.png" {
		t.Errorf("Expected sanitized file name photo.png, got %q", item.FileName)
	}
	if item.MimeType != "image/png" {
		t.Errorf("Expected image/png, got %q", item.MimeType)
	}
	if item.Title != "photo" {
		t.Errorf("Expected derived title photo, got %q", item.Title)
	}

	data, err := s.ReadMedia(item)
	testhelpers.AssertNoError(t, err)
	if len(data) != 3 {
		t.Errorf("Expected 3 bytes, got %d", len(data))
	}

	items, total, err := s.ListMedia(MediaQuery{MimePrefix: "image"})
	testhelpers.AssertNoError(t, err)
	if total != 1 || len(items) != 1 {
		t.Errorf("Expected one image, got %d", len(items))
	}

	_, _, err = s.ListMedia(MediaQuery{MimePrefix: "video"})
	testhelpers.AssertNoError(t, err)
}

func TestPatterns(t *testing.T) {
	s := newTestStore(t)

	p, err := s.RegisterPattern(&model.Pattern{
		Name:    "presskeep/hero",
		Title:   "Hero",
		Content: "<!-- wp:core/heading -->",
	})
	testhelpers.AssertNoError(t, err)
	if p.Category != "default" {
		t.Errorf("Expected default category, got %q", p.Category)
	}

	t.Run("re-registration overwrites", func(t *testing.T) {
		_, err := s.RegisterPattern(&model.Pattern{
			Name:    "presskeep/hero",
			Title:   "Hero v2",
			Content: "<!-- wp:core/heading -->",
		})
		testhelpers.AssertNoError(t, err)
		got, err := s.GetPatternByName("presskeep/hero")
		testhelpers.AssertNoError(t, err)
		if got.Title != "Hero v2" {
			t.Errorf("Expected overwritten title, got %q", got.Title)
		}
		patterns, err := s.ListPatterns(PatternQuery{})
		testhelpers.AssertNoError(t, err)
		if len(patterns) != 1 {
			t.Errorf("Expected a single pattern, got %d", len(patterns))
		}
	})

	t.Run("usage search", func(t *testing.T) {
		_, err := s.CreateContent(&model.ContentItem{
			Type:    model.ContentTypePage,
			Title:   "Landing",
			Content: `<!-- wp:pattern {"slug":"presskeep/hero"} -->`,
		})
		testhelpers.AssertNoError(t, err)
		usage, err := s.FindPatternUsage("presskeep/hero")
		testhelpers.AssertNoError(t, err)
		if len(usage) != 1 || usage[0].Title != "Landing" {
			t.Errorf("Expected Landing page in usage, got %v", usage)
		}
	})

	t.Run("delete then get", func(t *testing.T) {
		testhelpers.AssertNoError(t, s.DeletePattern("presskeep/hero"))
		_, err := s.GetPatternByName("presskeep/hero")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got: %v", err)
		}
	})
}

func TestPluginsAndThemes(t *testing.T) {
	s := newTestStore(t)

	testhelpers.AssertNoError(t, s.RegisterPlugin(&model.Plugin{File: "cache/cache.go", Name: "Cache"}))
	testhelpers.AssertNoError(t, s.RegisterPlugin(&model.Plugin{File: "seo/seo.go", Name: "SEO", Active: true}))

	active := true
	plugins, err := s.ListPlugins(&active)
	testhelpers.AssertNoError(t, err)
	if len(plugins) != 1 || plugins[0].Name != "SEO" {
		t.Errorf("Expected only SEO active, got %v", plugins)
	}

	testhelpers.AssertNoError(t, s.SetPluginActive("cache/cache.go", true))
	count, err := s.CountActivePlugins()
	testhelpers.AssertNoError(t, err)
	if count != 2 {
		t.Errorf("Expected 2 active plugins, got %d", count)
	}

	if err := s.SetPluginActive("missing/missing.go", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown plugin, got: %v", err)
	}
}

func TestEnsureDefaults(t *testing.T) {
	s := newTestStore(t)

	admin, err := s.EnsureDefaults()
	testhelpers.AssertNoError(t, err)
	testhelpers.AssertNotNil(t, admin)
	if admin.Role != model.RoleAdministrator {
		t.Errorf("Expected administrator role, got %q", admin.Role)
	}
	if admin.AccessToken == "" {
		t.Error("Expected admin to get an access token")
	}

	t.Run("idempotent on second run", func(t *testing.T) {
		again, err := s.EnsureDefaults()
		testhelpers.AssertNoError(t, err)
		if again != nil {
			t.Error("Expected no new admin on a populated database")
		}
		count, err := s.CountUsers()
		testhelpers.AssertNoError(t, err)
		if count != 1 {
			t.Errorf("Expected a single user, got %d", count)
		}
	})

	t.Run("theme and settings are seeded", func(t *testing.T) {
		theme, err := s.ActiveTheme()
		testhelpers.AssertNoError(t, err)
		if theme.Slug != "keepnote" {
			t.Errorf("Expected default theme, got %q", theme.Slug)
		}
		title, err := s.GetSetting(SettingSiteTitle)
		testhelpers.AssertNoError(t, err)
		if title != "PressKeep" {
			t.Errorf("Expected seeded site title, got %v", title)
		}
	})

	t.Run("site stats", func(t *testing.T) {
		stats, err := s.SiteStats()
		testhelpers.AssertNoError(t, err)
		if stats["user_count"].(int64) != 1 {
			t.Errorf("Expected user_count 1, got %v", stats["user_count"])
		}
		if stats["active_theme"] != "KeepNote" {
			t.Errorf("Expected KeepNote, got %v", stats["active_theme"])
		}
	})
}

func TestValidateBlockJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		valid   bool
		nerrors int
	}{
		{"valid blocks", `[{"blockName":"core/paragraph","attrs":{}}]`, true, 0},
		{"invalid json", `{not json`, false, 1},
		{"not an array", `{"blockName":"core/paragraph"}`, false, 1},
		{"missing blockName", `[{"attrs":{}},{"blockName":"core/list"}]`, false, 1},
		{"non-object element", `[42]`, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, errs := ValidateBlockJSON(tt.input)
			if valid != tt.valid {
				t.Errorf("Expected valid=%v, got %v (%v)", tt.valid, valid, errs)
			}
			if len(errs) != tt.nerrors {
				t.Errorf("Expected %d errors, got %d: %v", tt.nerrors, len(errs), errs)
			}
		})
	}
}

func TestBlockTypesCatalog(t *testing.T) {
	s := newTestStore(t)

	all := s.BlockTypes("", false)
	for _, bt := range all {
		if bt.Deprecated {
			t.Errorf("Expected no deprecated blocks by default, got %s", bt.Name)
		}
	}

	withDeprecated := s.BlockTypes("core", true)
	if len(withDeprecated) <= len(all) {
		t.Error("Expected deprecated blocks to be included on request")
	}

	if got := s.BlockTypes("acme", false); len(got) != 0 {
		t.Errorf("Expected no blocks in acme namespace, got %d", len(got))
	}
}
