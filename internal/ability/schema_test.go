package ability

import (
	"strings"
	"testing"
)

func contentSchema() *Schema {
	return &Schema{
		Kind: KindObject,
		Properties: map[string]*Schema{
			"title": {Kind: KindString, Description: "Item title"},
			"count": {Kind: KindInteger},
			"score": {Kind: KindNumber},
			"draft": {Kind: KindBoolean},
			"status": {
				Kind: KindString,
				Enum: []any{"draft", "publish", "private"},
			},
			"tags": {
				Kind:  KindArray,
				Items: &Schema{Kind: KindString},
			},
			"author": {
				Kind: KindObject,
				Properties: map[string]*Schema{
					"id": {Kind: KindInteger},
				},
				Required: []string{"id"},
			},
		},
		Required: []string{"title"},
	}
}

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name       string
		value      any
		violations int
	}{
		{
			name:       "valid full document",
			value:      map[string]any{"title": "Hello", "count": float64(3), "score": 1.5, "draft": true, "status": "draft", "tags": []any{"a", "b"}, "author": map[string]any{"id": float64(7)}},
			violations: 0,
		},
		{
			name:       "missing required field",
			value:      map[string]any{"count": float64(1)},
			violations: 1,
		},
		{
			name:       "unknown fields are allowed",
			value:      map[string]any{"title": "Hello", "something_else": "x"},
			violations: 0,
		},
		{
			name:       "string is not coerced to integer",
			value:      map[string]any{"title": "Hello", "count": "3"},
			violations: 1,
		},
		{
			name:       "integral float is an integer",
			value:      map[string]any{"title": "Hello", "count": float64(10)},
			violations: 0,
		},
		{
			name:       "fractional float is not an integer",
			value:      map[string]any{"title": "Hello", "count": 10.5},
			violations: 1,
		},
		{
			name:       "enum rejects unknown value",
			value:      map[string]any{"title": "Hello", "status": "pending"},
			violations: 1,
		},
		{
			name:       "array element type checked",
			value:      map[string]any{"title": "Hello", "tags": []any{"ok", float64(2)}},
			violations: 1,
		},
		{
			name:       "nested required enforced",
			value:      map[string]any{"title": "Hello", "author": map[string]any{}},
			violations: 1,
		},
		{
			name:       "non-object root",
			value:      "just a string",
			violations: 1,
		},
		{
			name:       "multiple independent violations reported",
			value:      map[string]any{"count": "x", "draft": "yes"},
			violations: 3,
		},
	}

	schema := contentSchema()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schema.Validate(tt.value)
			if len(got) != tt.violations {
				t.Errorf("Expected %d violations, got %d: %s", tt.violations, len(got), JoinViolations(got))
			}
		})
	}
}

func TestSchemaValidateNilSchema(t *testing.T) {
	var s *Schema
	if got := s.Validate(map[string]any{"anything": true}); got != nil {
		t.Errorf("Expected nil schema to accept any value, got %v", got)
	}
}

func TestViolationPaths(t *testing.T) {
	schema := contentSchema()
	value := map[string]any{"title": "Hello", "author": map[string]any{"id": "not-a-number"}}

	got := schema.Validate(value)
	if len(got) != 1 {
		t.Fatalf("Expected 1 violation, got %d", len(got))
	}
	if got[0].Path != "author.id" {
		t.Errorf("Expected violation path author.id, got %q", got[0].Path)
	}
}

func TestJoinViolations(t *testing.T) {
	schema := &Schema{
		Kind: KindObject,
		Properties: map[string]*Schema{
			"a": {Kind: KindInteger},
		},
		Required: []string{"a", "b"},
	}
	got := JoinViolations(schema.Validate(map[string]any{}))
	if !strings.Contains(got, "a") || !strings.Contains(got, "b") {
		t.Errorf("Expected joined message to mention both fields, got %q", got)
	}
}

func TestSchemaToMap(t *testing.T) {
	m := contentSchema().ToMap()
	if m["type"] != "object" {
		t.Errorf("Expected type object, got %v", m["type"])
	}
	props, ok := m["properties"].(map[string]any)
	if !ok {
		t.Fatal("Expected properties map")
	}
	status, ok := props["status"].(map[string]any)
	if !ok {
		t.Fatal("Expected status property")
	}
	if _, ok := status["enum"]; !ok {
		t.Error("Expected enum to survive conversion")
	}
	tags, ok := props["tags"].(map[string]any)
	if !ok {
		t.Fatal("Expected tags property")
	}
	if _, ok := tags["items"]; !ok {
		t.Error("Expected items to survive conversion")
	}
}
