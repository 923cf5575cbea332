package ability

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func newTestInvoker(t *testing.T, r *Registry, timeout time.Duration) *Invoker {
	t.Helper()
	inv, err := NewInvoker(&InvokerConfig{
		Registry:     r,
		Capabilities: testCaps,
		Timeout:      timeout,
	})
	if err != nil {
		t.Fatalf("Expected no error creating invoker, got: %v", err)
	}
	return inv
}

func TestInvokerRequiresRegistry(t *testing.T) {
	if _, err := NewInvoker(&InvokerConfig{}); err == nil {
		t.Error("Expected error for missing registry")
	}
}

func TestInvokeUnknownAbility(t *testing.T) {
	inv := newTestInvoker(t, NewRegistry(), 0)

	res := inv.Invoke(context.Background(), "mcp-wp/no-such-ability", nil, nil)
	if res.Success {
		t.Fatal("Expected failure envelope")
	}
	if res.Code != CodeAbilityNotFound {
		t.Errorf("Expected code %s, got %s", CodeAbilityNotFound, res.Code)
	}
}

func TestInvokePipelineOrder(t *testing.T) {
	// The executor must not run when validation or authorization fails.
	r := NewRegistry()
	executions := 0

	def := &Definition{
		Name:     "mcp-wp/create-page",
		Category: "pages",
		InputSchema: &Schema{
			Kind: KindObject,
			Properties: map[string]*Schema{
				"title": {Kind: KindString},
			},
			Required: []string{"title"},
		},
		Permission: RequireCapability("edit_pages"),
		Execute: func(_ context.Context, input map[string]any, _ *Caller) (*Result, error) {
			executions++
			return OKExtra(map[string]any{"title": input["title"]}, map[string]any{"page_id": 1}), nil
		},
	}
	if err := r.Register(def); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	inv := newTestInvoker(t, r, 0)
	admin := &Caller{ID: 1, Username: "admin", Role: "administrator"}

	t.Run("invalid input short-circuits before authorization", func(t *testing.T) {
		res := inv.Invoke(context.Background(), "mcp-wp/create-page", map[string]any{}, nil)
		if res.Success || res.Code != CodeInvalidInput {
			t.Errorf("Expected invalid_input failure, got %+v", res)
		}
		if executions != 0 {
			t.Errorf("Expected executor not to run, ran %d times", executions)
		}
	})

	t.Run("unauthorized short-circuits before execution", func(t *testing.T) {
		res := inv.Invoke(context.Background(), "mcp-wp/create-page", map[string]any{"title": "Hi"}, &Caller{ID: 2, Role: "author"})
		if res.Success || res.Code != CodeUnauthorized {
			t.Errorf("Expected unauthorized failure, got %+v", res)
		}
		if executions != 0 {
			t.Errorf("Expected executor not to run, ran %d times", executions)
		}
	})

	t.Run("valid authorized invocation executes once", func(t *testing.T) {
		res := inv.Invoke(context.Background(), "mcp-wp/create-page", map[string]any{"title": "Hi"}, admin)
		if !res.Success {
			t.Fatalf("Expected success, got: %s", res.Error)
		}
		if executions != 1 {
			t.Errorf("Expected exactly one execution, got %d", executions)
		}
		if res.Extra["page_id"] != 1 {
			t.Errorf("Expected page_id extra field, got %v", res.Extra)
		}
	})

	t.Run("nil input is treated as empty object", func(t *testing.T) {
		res := inv.Invoke(context.Background(), "mcp-wp/create-page", nil, admin)
		if res.Code != CodeInvalidInput {
			t.Errorf("Expected required-field violation on nil input, got %+v", res)
		}
	})
}

func TestInvokeExecutorFailures(t *testing.T) {
	r := NewRegistry()

	register := func(name string, exec Executor) {
		err := r.Register(&Definition{
			Name:       name,
			Permission: AllowAnonymous(),
			Execute:    exec,
		})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
	}

	register("mcp-wp/returns-error", func(context.Context, map[string]any, *Caller) (*Result, error) {
		return nil, context.Canceled
	})
	register("mcp-wp/panics", func(context.Context, map[string]any, *Caller) (*Result, error) {
		panic("boom")
	})
	register("mcp-wp/returns-nothing", func(context.Context, map[string]any, *Caller) (*Result, error) {
		return nil, nil
	})
	register("mcp-wp/domain-failure", func(context.Context, map[string]any, *Caller) (*Result, error) {
		return FailCode(CodeNotFound, "Page not found"), nil
	})

	inv := newTestInvoker(t, r, 0)

	tests := []struct {
		name     string
		ability  string
		wantCode string
	}{
		{"executor error maps to internal_error", "mcp-wp/returns-error", CodeInternalError},
		{"executor panic maps to internal_error", "mcp-wp/panics", CodeInternalError},
		{"nil result maps to internal_error", "mcp-wp/returns-nothing", CodeInternalError},
		{"domain failure envelope passes through", "mcp-wp/domain-failure", CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := inv.Invoke(context.Background(), tt.ability, nil, nil)
			if res == nil {
				t.Fatal("Expected a non-nil envelope")
			}
			if res.Success {
				t.Fatal("Expected failure envelope")
			}
			if res.Code != tt.wantCode {
				t.Errorf("Expected code %s, got %s (%s)", tt.wantCode, res.Code, res.Error)
			}
		})
	}
}

func TestInvokeTimeout(t *testing.T) {
	r := NewRegistry()
	err := r.Register(&Definition{
		Name:       "mcp-wp/slow",
		Permission: AllowAnonymous(),
		Execute: func(ctx context.Context, _ map[string]any, _ *Caller) (*Result, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(5 * time.Second):
				return OK(nil), nil
			}
		},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	inv := newTestInvoker(t, r, 20*time.Millisecond)

	res := inv.Invoke(context.Background(), "mcp-wp/slow", nil, nil)
	if res.Success {
		t.Fatal("Expected timeout failure")
	}
	if res.Code != CodeTimeout {
		t.Errorf("Expected code %s, got %s", CodeTimeout, res.Code)
	}
}

func TestInvokeAdvisoryOutputSchema(t *testing.T) {
	// A result that does not match the declared output schema must still
	// succeed - the output check only logs.
	r := NewRegistry()
	err := r.Register(&Definition{
		Name:       "mcp-wp/odd-output",
		Permission: AllowAnonymous(),
		OutputSchema: &Schema{
			Kind: KindObject,
			Properties: map[string]*Schema{
				"page_id": {Kind: KindInteger},
			},
			Required: []string{"page_id"},
		},
		Execute: func(context.Context, map[string]any, *Caller) (*Result, error) {
			return OK(map[string]any{"unexpected": true}), nil
		},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	inv := newTestInvoker(t, r, 0)

	res := inv.Invoke(context.Background(), "mcp-wp/odd-output", nil, nil)
	if !res.Success {
		t.Errorf("Expected success despite output mismatch, got: %s", res.Error)
	}
}

func TestResultEnvelopeJSON(t *testing.T) {
	t.Run("success envelope", func(t *testing.T) {
		res := OKExtra(map[string]any{"title": "Hi"}, map[string]any{"page_id": float64(3)})
		raw, err := json.Marshal(res)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			t.Fatalf("Expected valid JSON, got: %v", err)
		}
		if m["success"] != true {
			t.Error("Expected success true")
		}
		if m["page_id"] != float64(3) {
			t.Errorf("Expected extra field at top level, got %v", m)
		}
		if _, ok := m["error"]; ok {
			t.Error("Expected no error field on success")
		}
	})

	t.Run("failure envelope", func(t *testing.T) {
		res := FailCode(CodeNotFound, "Page not found")
		raw, err := json.Marshal(res)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			t.Fatalf("Expected valid JSON, got: %v", err)
		}
		if m["success"] != false || m["error"] != "Page not found" || m["code"] != "not_found" {
			t.Errorf("Unexpected failure envelope: %v", m)
		}
		if _, ok := m["data"]; ok {
			t.Error("Expected no data field on failure")
		}
	})
}
