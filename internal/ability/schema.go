package ability

import (
	"fmt"
	"strings"
)

// SchemaKind identifies the JSON value kind a Schema node describes.
type SchemaKind string

const (
	KindObject  SchemaKind = "object"
	KindArray   SchemaKind = "array"
	KindString  SchemaKind = "string"
	KindInteger SchemaKind = "integer"
	KindNumber  SchemaKind = "number"
	KindBoolean SchemaKind = "boolean"
)

// Schema is a recursive descriptor of an accepted or produced JSON value.
// It is used for both ability input and output schemas. Input validation
// against it is mandatory; output validation is advisory.
type Schema struct {
	Kind        SchemaKind
	Description string

	// Properties maps field names to their schemas. Only meaningful for objects.
	// Unknown properties are permitted and passed through: the schema is open.
	Properties map[string]*Schema

	// Required lists the object property names that must be present.
	Required []string

	// Items describes the element schema of an array.
	Items *Schema

	// Enum restricts a value to a closed set of allowed literals.
	Enum []any
}

// Violation describes a single schema validation failure.
type Violation struct {
	// Path locates the offending value, e.g. "items[2].title". Empty for the root.
	Path   string
	Reason string
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Reason
	}
	return v.Path + ": " + v.Reason
}

// JoinViolations formats a list of violations into a single human-readable message.
func JoinViolations(violations []Violation) string {
	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.String()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks value against the schema and returns the list of violations.
// An empty result means the value is valid. Validate never coerces: a numeric
// string is not an integer. It is a pure function and never panics.
func (s *Schema) Validate(value any) []Violation {
	if s == nil {
		return nil
	}
	return s.validate("", value)
}

func (s *Schema) validate(path string, value any) []Violation {
	var violations []Violation

	switch s.Kind {
	case KindObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return []Violation{{Path: path, Reason: fmt.Sprintf("expected object, got %s", jsonKindName(value))}}
		}
		for _, required := range s.Required {
			if _, present := obj[required]; !present {
				violations = append(violations, Violation{
					Path:   joinPath(path, required),
					Reason: "required property is missing",
				})
			}
		}
		// Properties without a declared schema are passed through untouched.
		for name, propSchema := range s.Properties {
			v, present := obj[name]
			if !present || propSchema == nil {
				continue
			}
			violations = append(violations, propSchema.validate(joinPath(path, name), v)...)
		}

	case KindArray:
		arr, ok := value.([]any)
		if !ok {
			return []Violation{{Path: path, Reason: fmt.Sprintf("expected array, got %s", jsonKindName(value))}}
		}
		if s.Items != nil {
			for i, elem := range arr {
				violations = append(violations, s.Items.validate(fmt.Sprintf("%s[%d]", path, i), elem)...)
			}
		}

	case KindString:
		str, ok := value.(string)
		if !ok {
			return []Violation{{Path: path, Reason: fmt.Sprintf("expected string, got %s", jsonKindName(value))}}
		}
		if len(s.Enum) > 0 && !enumContains(s.Enum, str) {
			violations = append(violations, Violation{
				Path:   path,
				Reason: fmt.Sprintf("value %q is not one of the allowed values %v", str, s.Enum),
			})
		}

	case KindInteger:
		if !isJSONInteger(value) {
			return []Violation{{Path: path, Reason: fmt.Sprintf("expected integer, got %s", jsonKindName(value))}}
		}

	case KindNumber:
		if !isJSONNumber(value) {
			return []Violation{{Path: path, Reason: fmt.Sprintf("expected number, got %s", jsonKindName(value))}}
		}

	case KindBoolean:
		if _, ok := value.(bool); !ok {
			return []Violation{{Path: path, Reason: fmt.Sprintf("expected boolean, got %s", jsonKindName(value))}}
		}

	default:
		violations = append(violations, Violation{
			Path:   path,
			Reason: fmt.Sprintf("schema declares unknown kind %q", s.Kind),
		})
	}

	return violations
}

// ToMap converts the schema into the generic JSON-Schema-style map used when
// exposing an ability through the API or as an MCP tool.
func (s *Schema) ToMap() map[string]any {
	if s == nil {
		return nil
	}
	m := map[string]any{"type": string(s.Kind)}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.ToMap()
		}
		m["properties"] = props
	}
	if len(s.Required) > 0 {
		m["required"] = s.Required
	}
	if s.Items != nil {
		m["items"] = s.Items.ToMap()
	}
	if len(s.Enum) > 0 {
		m["enum"] = s.Enum
	}
	return m
}

func joinPath(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}

func enumContains(enum []any, v any) bool {
	for _, allowed := range enum {
		if allowed == v {
			return true
		}
	}
	return false
}

// isJSONInteger reports whether value is an integral number.
// Decoded JSON numbers arrive as float64, so a float64 with a whole value
// counts as an integer; a numeric string does not.
func isJSONInteger(value any) bool {
	switch n := value.(type) {
	case float64:
		return n == float64(int64(n))
	case int, int32, int64, uint, uint32, uint64:
		return true
	default:
		return false
	}
}

func isJSONNumber(value any) bool {
	switch value.(type) {
	case float64, float32, int, int32, int64, uint, uint32, uint64:
		return true
	default:
		return false
	}
}

func jsonKindName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int32, int64, uint, uint32, uint64:
		return "number"
	default:
		return fmt.Sprintf("%T", value)
	}
}
