package ability

import (
	"context"
	"errors"
	"testing"
)

func noopExecutor(_ context.Context, _ map[string]any, _ *Caller) (*Result, error) {
	return OK(nil), nil
}

func testDefinition(name string) *Definition {
	return &Definition{
		Name:       name,
		Label:      "Test ability",
		Category:   "testing",
		Permission: AllowAnonymous(),
		Execute:    noopExecutor,
	}
}

func TestRegistryRegister(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		r := NewRegistry()
		if err := r.Register(testDefinition("mcp-wp/create-page")); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if r.Len() != 1 {
			t.Errorf("Expected 1 registered ability, got %d", r.Len())
		}
	})

	t.Run("duplicate name is rejected", func(t *testing.T) {
		r := NewRegistry()
		if err := r.Register(testDefinition("mcp-wp/create-page")); err != nil {
			t.Fatalf("Expected no error on first registration, got: %v", err)
		}
		err := r.Register(testDefinition("mcp-wp/create-page"))
		if !errors.Is(err, ErrDuplicateName) {
			t.Errorf("Expected ErrDuplicateName, got: %v", err)
		}
		if r.Len() != 1 {
			t.Errorf("Expected first registration to survive, got %d abilities", r.Len())
		}
	})

	t.Run("invalid names are rejected", func(t *testing.T) {
		for _, name := range []string{"", "create-page", "MCP-WP/create-page", "mcp-wp/", "/create-page", "a/b/c"} {
			if err := NewRegistry().Register(testDefinition(name)); err == nil {
				t.Errorf("Expected name %q to be rejected", name)
			}
		}
	})

	t.Run("nil executor is rejected", func(t *testing.T) {
		def := testDefinition("mcp-wp/create-page")
		def.Execute = nil
		if err := NewRegistry().Register(def); err == nil {
			t.Error("Expected error for nil executor")
		}
	})

	t.Run("nil permission check is rejected", func(t *testing.T) {
		def := testDefinition("mcp-wp/create-page")
		def.Permission = nil
		if err := NewRegistry().Register(def); err == nil {
			t.Error("Expected error for nil permission check")
		}
	})

	t.Run("visibility defaults to internal", func(t *testing.T) {
		r := NewRegistry()
		def := testDefinition("mcp-wp/test")
		def.Visibility = ""
		if err := r.Register(def); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		got, err := r.Lookup("mcp-wp/test")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if got.Visibility != VisibilityInternal {
			t.Errorf("Expected internal visibility, got %q", got.Visibility)
		}
	})
}


func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(testDefinition("mcp-wp/get-page")); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	def, err := r.Lookup("mcp-wp/get-page")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if def.Name != "mcp-wp/get-page" {
		t.Errorf("Expected mcp-wp/get-page, got %q", def.Name)
	}

	_, err = r.Lookup("mcp-wp/no-such-ability")
	if !errors.Is(err, ErrAbilityNotFound) {
		t.Errorf("Expected ErrAbilityNotFound, got: %v", err)
	}
}

func TestRegistryList(t *testing.T) {
	r := NewRegistry()

	first := testDefinition("mcp-wp/create-page")
	first.Category = "pages"
	first.Visibility = VisibilityPublic

	second := testDefinition("mcp-wp/list-users")
	second.Category = "users"
	second.Visibility = VisibilityPublic

	third := testDefinition("mcp-wp/test")
	third.Category = "testing"
	third.Visibility = VisibilityInternal

	for _, def := range []*Definition{first, second, third} {
		if err := r.Register(def); err != nil {
			t.Fatalf("Expected no error registering %s, got: %v", def.Name, err)
		}
	}

	t.Run("unfiltered list follows registration order", func(t *testing.T) {
		defs := r.List(Filter{})
		if len(defs) != 3 {
			t.Fatalf("Expected 3 abilities, got %d", len(defs))
		}
		want := []string{"mcp-wp/create-page", "mcp-wp/list-users", "mcp-wp/test"}
		for i, name := range want {
			if defs[i].Name != name {
				t.Errorf("Expected %s at index %d, got %s", name, i, defs[i].Name)
			}
		}
	})

	t.Run("filter by category", func(t *testing.T) {
		defs := r.List(Filter{Category: "pages"})
		if len(defs) != 1 || defs[0].Name != "mcp-wp/create-page" {
			t.Errorf("Expected only mcp-wp/create-page, got %v", defs)
		}
	})

	t.Run("filter by visibility", func(t *testing.T) {
		defs := r.List(Filter{Visibility: VisibilityPublic})
		if len(defs) != 2 {
			t.Errorf("Expected 2 public abilities, got %d", len(defs))
		}
	})
}

func TestRegistryDeregister(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(testDefinition("mcp-wp/get-page")); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if err := r.Deregister("mcp-wp/get-page"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("Expected empty registry, got %d abilities", r.Len())
	}
	if err := r.Deregister("mcp-wp/get-page"); !errors.Is(err, ErrAbilityNotFound) {
		t.Errorf("Expected ErrAbilityNotFound, got: %v", err)
	}
}

func TestRegistryCategories(t *testing.T) {
	r := NewRegistry()
	r.RegisterCategory("pages", "Pages & Posts")
	r.RegisterCategory("users", "Users")
	r.RegisterCategory("pages", "Content")

	cats := r.Categories()
	if len(cats) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(cats))
	}
	if cats[0].Name != "pages" || cats[0].Label != "Content" {
		t.Errorf("Expected re-registration to update the label, got %+v", cats[0])
	}
}
