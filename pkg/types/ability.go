// Package types contains the API data types shared between the PressKeep
// server and its clients.
package types

// AbilitySchema describes the JSON shape accepted or produced by an ability.
type AbilitySchema struct {
	Type        string                   `json:"type"`
	Description string                   `json:"description,omitempty"`
	Properties  map[string]AbilitySchema `json:"properties,omitempty"`
	Items       *AbilitySchema           `json:"items,omitempty"`
	Required    []string                 `json:"required,omitempty"`
	Enum        []any                    `json:"enum,omitempty"`
}

// Ability describes an ability registered in the PressKeep registry.
type Ability struct {
	Name        string         `json:"name"`
	Label       string         `json:"label"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Visibility  string         `json:"visibility"`
	InputSchema *AbilitySchema `json:"input_schema,omitempty"`
}

// InvokeAbilityRequest is the request body for invoking an ability.
type InvokeAbilityRequest struct {
	Name  string         `json:"name"`
	Input map[string]any `json:"input,omitempty"`
}

// Category describes a registered ability category.
type Category struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}
