// Package ability implements the PressKeep ability registry and invocation
// pipeline. An ability is a named, schema-described, permission-gated callable
// operation; every invocation produces a uniform success/error envelope.
package ability

import (
	"context"
	"encoding/json"
)

// Visibility controls whether an ability is exposed through external
// surfaces (the MCP endpoint) or only through the internal API.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityInternal Visibility = "internal"
)

// Executor is the function implementing an ability's actual effect.
// It receives the validated input and the caller, and returns either a Result
// (which may itself represent a domain failure, like "Page not found") or an
// error for unexpected faults. Domain failures belong in the Result; a
// returned error is mapped to an internal_error envelope by the pipeline.
type Executor func(ctx context.Context, input map[string]any, caller *Caller) (*Result, error)

// Definition binds a unique ability name to its schemas, permission check,
// executor and visibility metadata. Definitions are created once during the
// registration phase and are immutable afterwards.
type Definition struct {
	// Name uniquely identifies the ability across the registry,
	// namespaced as "<provider>/<verb-noun>", e.g. "mcp-wp/create-page".
	Name string

	Label       string
	Description string

	// Category is a free-form grouping tag used for discovery, not access control.
	Category string

	// InputSchema is validated against the raw input before execution.
	InputSchema *Schema

	// OutputSchema describes the envelope an execution produces.
	// It is advisory: mismatches are logged, never fatal.
	OutputSchema *Schema

	// Permission gates every invocation of this ability.
	Permission PermissionCheck

	Execute Executor

	Visibility Visibility
}

// Result is the uniform invocation envelope.
// Success implies Error is empty; failure implies Data is absent.
// Extra carries ability-specific auxiliary fields (e.g. page_id, url, total)
// that are flattened to the top level of the JSON envelope.
type Result struct {
	Success bool
	Data    any
	Error   string
	Code    string
	Extra   map[string]any
}

// OK returns a success result carrying the given data payload.
func OK(data any) *Result {
	return &Result{Success: true, Data: data}
}

// OKExtra returns a success result with a data payload and auxiliary
// top-level fields.
func OKExtra(data any, extra map[string]any) *Result {
	return &Result{Success: true, Data: data, Extra: extra}
}

// Fail returns a failure result with a human-readable error message.
func Fail(message string) *Result {
	return &Result{Success: false, Error: message}
}

// FailCode returns a failure result with a machine-readable error code.
func FailCode(code, message string) *Result {
	return &Result{Success: false, Error: message, Code: code}
}

// AsMap flattens the result into the JSON envelope shape.
func (r *Result) AsMap() map[string]any {
	m := map[string]any{"success": r.Success}
	if r.Success {
		if r.Data != nil {
			m["data"] = r.Data
		}
	} else {
		m["error"] = r.Error
		if r.Code != "" {
			m["code"] = r.Code
		}
	}
	for k, v := range r.Extra {
		m[k] = v
	}
	return m
}

// MarshalJSON serializes the result as the flat invocation envelope.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.AsMap())
}
