package abilities

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/presskeep/presskeep/internal/ability"
	"github.com/presskeep/presskeep/internal/model"
	"github.com/presskeep/presskeep/internal/store"
	"github.com/presskeep/presskeep/pkg/testhelpers"
)

// harness wires a registry, store and invoker the way the server does at
// startup, with the bootstrap admin as the default caller.
type harness struct {
	store    *store.Store
	registry *ability.Registry
	invoker  *ability.Invoker
	admin    *ability.Caller
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, err := testhelpers.CreateTestDB()
	testhelpers.AssertNoError(t, err)
	s, err := store.NewStore(&store.Config{DB: db, BaseURL: "http://example.test"})
	testhelpers.AssertNoError(t, err)
	adminUser, err := s.EnsureDefaults()
	testhelpers.AssertNoError(t, err)
	testhelpers.AssertNotNil(t, adminUser)

	registry := ability.NewRegistry()
	if err := RegisterAll(registry, s); err != nil {
		t.Fatalf("Expected RegisterAll to succeed, got %v", err)
	}
	invoker, err := ability.NewInvoker(&ability.InvokerConfig{
		Registry:     registry,
		Capabilities: s,
	})
	testhelpers.AssertNoError(t, err)

	return &harness{
		store:    s,
		registry: registry,
		invoker:  invoker,
		admin: &ability.Caller{
			ID:       adminUser.ID,
			Username: adminUser.Username,
			Role:     adminUser.Role,
		},
	}
}

func (h *harness) invoke(name string, input map[string]any) *ability.Result {
	return h.invoker.Invoke(context.Background(), name, input, h.admin)
}

func (h *harness) mustSucceed(t *testing.T, name string, input map[string]any) map[string]any {
	t.Helper()
	result := h.invoke(name, input)
	if !result.Success {
		t.Fatalf("Expected %s to succeed, got error %q (code %s)", name, result.Error, result.Code)
	}
	return result.AsMap()
}

func TestRegisterAll(t *testing.T) {
	h := newHarness(t)

	public := h.registry.List(ability.Filter{Visibility: ability.VisibilityPublic})
	if len(public) != 45 {
		t.Errorf("Expected 45 public abilities, got %d", len(public))
	}

	t.Run("connectivity test is internal only", func(t *testing.T) {
		for _, def := range public {
			if def.Name == "mcp-wp/test" {
				t.Error("Expected mcp-wp/test to be excluded from the public listing")
			}
		}
		result := h.invoker.Invoke(context.Background(), "mcp-wp/test", nil, nil)
		if !result.Success {
			t.Fatalf("Expected anonymous connectivity test to succeed, got %q", result.Error)
		}
		if result.Extra["message"] != "MCP connection working!" {
			t.Errorf("Unexpected connectivity message: %v", result.Extra["message"])
		}
	})
}

func TestPageLifecycle(t *testing.T) {
	h := newHarness(t)

	created := h.invoke("mcp-wp/create-page", map[string]any{
		"title":   "About Us",
		"content": "<p>Hello</p>",
		"status":  "publish",
	})
	if !created.Success {
		t.Fatalf("Expected create-page to succeed, got %q", created.Error)
	}
	pageID, ok := created.Extra["page_id"].(uint)
	if !ok || pageID == 0 {
		t.Fatalf("Expected a page_id extra, got %v", created.Extra["page_id"])
	}
	if created.Extra["url"] == "" {
		t.Error("Expected a permalink in the create response")
	}

	t.Run("get returns the created page", func(t *testing.T) {
		out := h.mustSucceed(t, "mcp-wp/get-page", map[string]any{"page_id": float64(pageID)})
		data := out["data"].(map[string]any)
		if data["title"] != "About Us" {
			t.Errorf("Expected title About Us, got %v", data["title"])
		}
		if data["content"] != "<p>Hello</p>" {
			t.Errorf("Expected full content in single-item response, got %v", data["content"])
		}
	})

	t.Run("edit updates fields in place", func(t *testing.T) {
		h.mustSucceed(t, "mcp-wp/edit-page", map[string]any{
			"page_id": float64(pageID),
			"title":   "About",
		})
		out := h.mustSucceed(t, "mcp-wp/get-page", map[string]any{"page_id": float64(pageID)})
		if out["data"].(map[string]any)["title"] != "About" {
			t.Error("Expected edited title to persist")
		}
	})

	t.Run("missing page is a domain failure", func(t *testing.T) {
		result := h.invoke("mcp-wp/get-page", map[string]any{"page_id": float64(99999)})
		if result.Success {
			t.Fatal("Expected lookup of missing page to fail")
		}
		if result.Code != ability.CodeNotFound || result.Error != "Page not found" {
			t.Errorf("Expected not_found / Page not found, got %s / %q", result.Code, result.Error)
		}
	})

	t.Run("delete moves to trash then force deletes", func(t *testing.T) {
		out := h.mustSucceed(t, "mcp-wp/delete-page", map[string]any{"page_id": float64(pageID)})
		if out["message"] != "Page moved to trash" {
			t.Errorf("Expected trash message, got %v", out["message"])
		}
		out = h.mustSucceed(t, "mcp-wp/delete-page", map[string]any{
			"page_id": float64(pageID),
			"force":   true,
		})
		if out["message"] != "Page permanently deleted" {
			t.Errorf("Expected permanent delete message, got %v", out["message"])
		}
		result := h.invoke("mcp-wp/get-page", map[string]any{"page_id": float64(pageID)})
		if result.Success {
			t.Error("Expected force-deleted page to be gone")
		}
	})
}

func TestPostsWithTerms(t *testing.T) {
	h := newHarness(t)

	category := h.invoke("mcp-wp/create-category", map[string]any{"name": "News"})
	if !category.Success {
		t.Fatalf("Expected create-category to succeed, got %q", category.Error)
	}
	categoryID := category.Extra["category_id"].(uint)

	t.Run("duplicate category slug is rejected", func(t *testing.T) {
		result := h.invoke("mcp-wp/create-category", map[string]any{"name": "News"})
		if result.Success {
			t.Fatal("Expected duplicate category to fail")
		}
	})

	created := h.invoke("mcp-wp/create-post", map[string]any{
		"title":      "Launch Day",
		"content":    "<p>We shipped.</p>",
		"status":     "publish",
		"categories": []any{float64(categoryID)},
		"tags":       []any{"release", "announcement"},
	})
	if !created.Success {
		t.Fatalf("Expected create-post to succeed, got %q", created.Error)
	}

	t.Run("list-posts filters by category", func(t *testing.T) {
		out := h.mustSucceed(t, "mcp-wp/list-posts", map[string]any{
			"category": float64(categoryID),
		})
		if out["total"].(int64) != 1 {
			t.Errorf("Expected 1 post in category, got %v", out["total"])
		}
	})

	t.Run("tags were created on assignment", func(t *testing.T) {
		out := h.mustSucceed(t, "mcp-wp/list-tags", map[string]any{})
		if len(out["data"].([]any)) != 2 {
			t.Errorf("Expected 2 tags, got %d", len(out["data"].([]any)))
		}
	})

	t.Run("unknown tag filter matches nothing", func(t *testing.T) {
		out := h.mustSucceed(t, "mcp-wp/list-posts", map[string]any{"tag": "nonexistent"})
		if out["total"].(int64) != 0 {
			t.Errorf("Expected no posts for unknown tag, got %v", out["total"])
		}
	})
}

func TestPermissionsEnforced(t *testing.T) {
	h := newHarness(t)

	subscriber, err := h.store.CreateUser(&model.User{
		Username: "reader",
		Email:    "reader@example.test",
		Role:     model.RoleSubscriber,
	}, "secret-pw")
	testhelpers.AssertNoError(t, err)
	caller := &ability.Caller{ID: subscriber.ID, Username: subscriber.Username, Role: subscriber.Role}

	t.Run("subscriber cannot create pages", func(t *testing.T) {
		result := h.invoker.Invoke(context.Background(), "mcp-wp/create-page", map[string]any{
			"title":   "Nope",
			"content": "x",
		}, caller)
		if result.Success || result.Code != ability.CodeUnauthorized {
			t.Errorf("Expected unauthorized, got success=%v code=%s", result.Success, result.Code)
		}
	})

	t.Run("subscriber can run advanced queries", func(t *testing.T) {
		result := h.invoker.Invoke(context.Background(), "mcp-wp/query-posts-advanced", map[string]any{
			"post_type": []any{"post"},
		}, caller)
		if !result.Success {
			t.Errorf("Expected read access to suffice, got %q", result.Error)
		}
	})

	t.Run("anonymous caller is rejected before execution", func(t *testing.T) {
		result := h.invoker.Invoke(context.Background(), "mcp-wp/list-users", nil, nil)
		if result.Success || result.Code != ability.CodeUnauthorized {
			t.Errorf("Expected unauthorized, got success=%v code=%s", result.Success, result.Code)
		}
	})

	t.Run("get-current-user reflects the caller", func(t *testing.T) {
		result := h.invoker.Invoke(context.Background(), "mcp-wp/get-current-user", nil, caller)
		if !result.Success {
			t.Fatalf("Expected get-current-user to succeed, got %q", result.Error)
		}
		data := result.Data.(map[string]any)
		if data["username"] != "reader" {
			t.Errorf("Expected username reader, got %v", data["username"])
		}
	})
}

func TestInvalidInputRejected(t *testing.T) {
	h := newHarness(t)

	t.Run("missing required field", func(t *testing.T) {
		result := h.invoke("mcp-wp/create-page", map[string]any{"title": "No Content"})
		if result.Success || result.Code != ability.CodeInvalidInput {
			t.Errorf("Expected invalid_input, got success=%v code=%s", result.Success, result.Code)
		}
	})

	t.Run("enum violation", func(t *testing.T) {
		result := h.invoke("mcp-wp/create-page", map[string]any{
			"title":   "x",
			"content": "y",
			"status":  "pending",
		})
		if result.Success || result.Code != ability.CodeInvalidInput {
			t.Errorf("Expected invalid_input for bad status, got success=%v code=%s", result.Success, result.Code)
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		result := h.invoke("mcp-wp/get-page", map[string]any{"page_id": "7"})
		if result.Success || result.Code != ability.CodeInvalidInput {
			t.Errorf("Expected invalid_input for string id, got success=%v code=%s", result.Success, result.Code)
		}
	})
}

func TestMediaRoundTrip(t *testing.T) {
	h := newHarness(t)

	payload := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))
	uploaded := h.invoke("mcp-wp/upload-media", map[string]any{
		"filename":    "photo.png",
		"base64_data": payload,
		"title":       "Team Photo",
	})
	if !uploaded.Success {
		t.Fatalf("Expected upload to succeed, got %q", uploaded.Error)
	}
	attachmentID := uploaded.Extra["attachment_id"].(uint)

	t.Run("get returns the stored item", func(t *testing.T) {
		out := h.mustSucceed(t, "mcp-wp/get-media", map[string]any{
			"attachment_id": float64(attachmentID),
		})
		data := out["data"].(map[string]any)
		if data["title"] != "Team Photo" {
			t.Errorf("Expected title Team Photo, got %v", data["title"])
		}
		if data["type"] != "image/png" {
			t.Errorf("Expected image/png, got %v", data["type"])
		}
	})

	t.Run("invalid base64 is rejected", func(t *testing.T) {
		result := h.invoke("mcp-wp/upload-media", map[string]any{
			"filename":    "bad.png",
			"base64_data": "!!not base64!!",
		})
		if result.Success || result.Error != "Invalid base64 data" {
			t.Errorf("Expected Invalid base64 data, got success=%v %q", result.Success, result.Error)
		}
	})

	t.Run("list filters by media type", func(t *testing.T) {
		out := h.mustSucceed(t, "mcp-wp/list-media", map[string]any{"media_type": "video"})
		if out["total"].(int64) != 0 {
			t.Errorf("Expected no videos, got %v", out["total"])
		}
	})
}

func TestPatternImportExport(t *testing.T) {
	h := newHarness(t)

	h.mustSucceed(t, "mcp-wp/create-pattern", map[string]any{
		"title":   "Hero Section",
		"name":    "presskeep/hero",
		"content": "<!-- wp:paragraph --><p>Hero</p><!-- /wp:paragraph -->",
	})

	t.Run("export produces importable JSON", func(t *testing.T) {
		out := h.mustSucceed(t, "mcp-wp/export-pattern", map[string]any{"name": "presskeep/hero"})
		exported := out["json"].(string)

		h.mustSucceed(t, "mcp-wp/delete-pattern", map[string]any{"name": "presskeep/hero"})
		h.mustSucceed(t, "mcp-wp/import-pattern", map[string]any{"json_data": exported})

		restored := h.mustSucceed(t, "mcp-wp/get-pattern", map[string]any{"name": "presskeep/hero"})
		if restored["data"].(map[string]any)["title"] != "Hero Section" {
			t.Error("Expected round-tripped pattern to keep its title")
		}
	})

	t.Run("import rejects malformed JSON", func(t *testing.T) {
		result := h.invoke("mcp-wp/import-pattern", map[string]any{"json_data": "{broken"})
		if result.Success || result.Error != "Invalid JSON data" {
			t.Errorf("Expected Invalid JSON data, got success=%v %q", result.Success, result.Error)
		}
	})

	t.Run("import requires name and content", func(t *testing.T) {
		result := h.invoke("mcp-wp/import-pattern", map[string]any{"json_data": `{"title":"x"}`})
		if result.Success || result.Error != "Missing required fields: name, content" {
			t.Errorf("Expected missing-fields error, got success=%v %q", result.Success, result.Error)
		}
	})

	t.Run("usage finds content embedding the pattern", func(t *testing.T) {
		h.mustSucceed(t, "mcp-wp/create-post", map[string]any{
			"title":   "Landing",
			"content": `<!-- wp:pattern {"slug":"presskeep/hero"} /-->`,
			"status":  "publish",
		})
		out := h.mustSucceed(t, "mcp-wp/get-pattern-usage", map[string]any{"name": "presskeep/hero"})
		if out["count"].(int) != 1 {
			t.Errorf("Expected pattern used once, got %v", out["count"])
		}
	})
}

func TestBatchUpdatePartialFailure(t *testing.T) {
	h := newHarness(t)

	created := h.invoke("mcp-wp/create-post", map[string]any{
		"title":   "Original",
		"content": "body",
	})
	if !created.Success {
		t.Fatalf("Expected create-post to succeed, got %q", created.Error)
	}
	postID := created.Extra["post_id"].(uint)

	out := h.mustSucceed(t, "mcp-wp/batch-update", map[string]any{
		"type": "post",
		"items": []any{
			map[string]any{"id": float64(postID), "title": "Renamed"},
			map[string]any{"id": float64(99999), "title": "Ghost"},
		},
	})
	if out["updated"].(int) != 1 || out["failed"].(int) != 1 {
		t.Fatalf("Expected 1 updated and 1 failed, got %v / %v", out["updated"], out["failed"])
	}
	if len(out["errors"].([]string)) != 1 {
		t.Errorf("Expected one error entry, got %v", out["errors"])
	}

	got := h.mustSucceed(t, "mcp-wp/get-post", map[string]any{"post_id": float64(postID)})
	if got["data"].(map[string]any)["title"] != "Renamed" {
		t.Error("Expected successful entry to be applied")
	}
}

func TestCloneItem(t *testing.T) {
	h := newHarness(t)

	created := h.invoke("mcp-wp/create-post", map[string]any{
		"title":          "Annual Report",
		"content":        "numbers",
		"status":         "publish",
		"featured_image": float64(42),
	})
	if !created.Success {
		t.Fatalf("Expected create-post to succeed, got %q", created.Error)
	}
	postID := created.Extra["post_id"].(uint)

	cloned := h.invoke("mcp-wp/clone-item", map[string]any{
		"item_id": float64(postID),
		"type":    "post",
	})
	if !cloned.Success {
		t.Fatalf("Expected clone to succeed, got %q", cloned.Error)
	}
	data := cloned.Data.(map[string]any)
	if data["title"] != "Annual Report - Copy" {
		t.Errorf("Expected default clone title, got %v", data["title"])
	}
	if data["status"] != model.StatusDraft {
		t.Errorf("Expected clone to be a draft, got %v", data["status"])
	}
	if data["featured_image_id"] != uint(42) {
		t.Errorf("Expected featured image to be carried over, got %v", data["featured_image_id"])
	}

	t.Run("type mismatch is rejected", func(t *testing.T) {
		result := h.invoke("mcp-wp/clone-item", map[string]any{
			"item_id": float64(postID),
			"type":    "page",
		})
		if result.Success || result.Error != "Item not found or type mismatch" {
			t.Errorf("Expected type mismatch failure, got success=%v %q", result.Success, result.Error)
		}
	})
}

func TestSiteInformation(t *testing.T) {
	h := newHarness(t)

	t.Run("settings include site identity", func(t *testing.T) {
		out := h.mustSucceed(t, "mcp-wp/get-settings", nil)
		data := out["data"].(map[string]any)
		if data["site_title"] != "PressKeep" {
			t.Errorf("Expected seeded site title, got %v", data["site_title"])
		}
		if data["site_url"] != "http://example.test" {
			t.Errorf("Expected configured base URL, got %v", data["site_url"])
		}
	})

	t.Run("site stats count content", func(t *testing.T) {
		h.mustSucceed(t, "mcp-wp/create-post", map[string]any{
			"title":   "Published",
			"content": "x",
			"status":  "publish",
		})
		out := h.mustSucceed(t, "mcp-wp/get-site-stats", nil)
		data := out["data"].(map[string]any)
		if data["post_count"].(int64) != 1 {
			t.Errorf("Expected 1 published post, got %v", data["post_count"])
		}
	})

	t.Run("theme supports reflect the active theme", func(t *testing.T) {
		out := h.mustSucceed(t, "mcp-wp/get-theme-supports", nil)
		data := out["data"].(map[string]any)
		if data["post_thumbnails"] != true {
			t.Errorf("Expected post_thumbnails support, got %v", data["post_thumbnails"])
		}
	})
}

func TestPluginManagement(t *testing.T) {
	h := newHarness(t)

	err := h.store.RegisterPlugin(&model.Plugin{
		File: "akismet/akismet.php",
		Name: "Akismet",
	})
	testhelpers.AssertNoError(t, err)

	out := h.mustSucceed(t, "mcp-wp/activate-plugin", map[string]any{"plugin": "akismet/akismet.php"})
	if out["message"] != "Plugin activated successfully" {
		t.Errorf("Unexpected activation message: %v", out["message"])
	}

	listed := h.mustSucceed(t, "mcp-wp/list-plugins", map[string]any{"status": "active"})
	if listed["total"].(int) != 1 {
		t.Errorf("Expected 1 active plugin, got %v", listed["total"])
	}

	t.Run("unknown plugin is a domain failure", func(t *testing.T) {
		result := h.invoke("mcp-wp/get-plugin", map[string]any{"plugin": "missing/missing.php"})
		if result.Success || result.Error != "Plugin not found" {
			t.Errorf("Expected Plugin not found, got success=%v %q", result.Success, result.Error)
		}
	})
}
