package ability

import (
	"context"
	"fmt"
)

// Caller is the authenticated identity on whose behalf an ability is invoked.
// A nil *Caller means the invocation is anonymous.
// The caller is threaded unchanged from the invocation entry point to both
// the permission check and the executor.
type Caller struct {
	ID       uint
	Username string
	Role     string
}

type callerContextKey struct{}

// ContextWithCaller returns a context carrying the caller. Executors that
// hand work to collaborators outside the ability layer use it to keep the
// invocation's identity attached to the request.
func ContextWithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, callerContextKey{}, caller)
}

// CallerFromContext returns the caller carried by ctx, or nil if the context
// is anonymous.
func CallerFromContext(ctx context.Context) *Caller {
	caller, _ := ctx.Value(callerContextKey{}).(*Caller)
	return caller
}

// CapabilityChecker answers whether a caller holds a named capability.
// It is provided by the content store's role system.
type CapabilityChecker interface {
	HasCapability(caller *Caller, capability string) bool
}

// Decision is the outcome of a permission check.
type Decision struct {
	Allowed bool

	// Reason explains a denial. It is surfaced directly to the caller,
	// so it must not contain internal details.
	Reason string
}

// Allow returns an allowing decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denying decision with the given reason.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// PermissionCheck decides whether a caller may invoke an ability.
// Checks must not mutate any state.
type PermissionCheck interface {
	Check(caller *Caller, capabilities CapabilityChecker) Decision
}

type requireCapability struct {
	capability string
}

// RequireCapability returns a check that requires an authenticated caller
// holding the named capability. It fails closed: an anonymous caller is
// always denied.
func RequireCapability(capability string) PermissionCheck {
	return &requireCapability{capability: capability}
}

func (c *requireCapability) Check(caller *Caller, capabilities CapabilityChecker) Decision {
	if caller == nil {
		return Deny("authentication required")
	}
	if capabilities == nil || !capabilities.HasCapability(caller, c.capability) {
		return Deny(fmt.Sprintf("caller lacks required capability: %s", c.capability))
	}
	return Allow()
}

type requireAuthentication struct{}

// RequireAuthentication returns a check that only requires the caller to be
// authenticated, regardless of role or capabilities.
func RequireAuthentication() PermissionCheck {
	return &requireAuthentication{}
}

func (c *requireAuthentication) Check(caller *Caller, _ CapabilityChecker) Decision {
	if caller == nil {
		return Deny("authentication required")
	}
	return Allow()
}

type allowAnonymous struct{}

// AllowAnonymous returns a check that allows any caller, authenticated or not.
func AllowAnonymous() PermissionCheck {
	return &allowAnonymous{}
}

func (c *allowAnonymous) Check(*Caller, CapabilityChecker) Decision {
	return Allow()
}

type customCheck struct {
	fn func(caller *Caller, capabilities CapabilityChecker) Decision
}

// CustomCheck wraps an arbitrary permission function for the one-off cases
// the declarative checks cannot express (e.g. "must be the same user or an
// administrator").
func CustomCheck(fn func(caller *Caller, capabilities CapabilityChecker) Decision) PermissionCheck {
	return &customCheck{fn: fn}
}

func (c *customCheck) Check(caller *Caller, capabilities CapabilityChecker) Decision {
	return c.fn(caller, capabilities)
}
