package ability

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
)

var (
	// ErrDuplicateName is returned when registering an ability whose name is taken.
	// The registry rejects duplicates instead of silently overwriting: last-wins
	// registration hides integrator mistakes.
	ErrDuplicateName = errors.New("ability name is already registered")

	// ErrAbilityNotFound is returned when looking up an unregistered ability name.
	ErrAbilityNotFound = errors.New("ability not found")
)

// Ability names are namespaced as "<provider>/<verb-noun>", e.g. "mcp-wp/create-page".
var validAbilityName = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*/[a-z0-9][a-z0-9-]*$`)

// Filter narrows the abilities returned by Registry.List.
// Zero-valued fields match everything.
type Filter struct {
	Category   string
	Visibility Visibility
}

// Category is a registered grouping of abilities, used for discovery.
type Category struct {
	Name  string
	Label string
}

// Registry is the process-wide catalog of ability definitions, keyed by
// unique name. It is populated during a single registration phase at startup
// and is read-only during request handling; concurrent lookups are safe.
type Registry struct {
	mu         sync.RWMutex
	defs       map[string]*Definition
	order      []string
	categories []Category
}

// NewRegistry creates an empty ability registry.
func NewRegistry() *Registry {
	return &Registry{
		defs: make(map[string]*Definition),
	}
}

// Register adds a definition to the registry under its name.
// It returns ErrDuplicateName if the name is already taken.
func (r *Registry) Register(def *Definition) error {
	if def == nil {
		return errors.New("ability definition must not be nil")
	}
	if !validAbilityName.MatchString(def.Name) {
		return fmt.Errorf(
			"invalid ability name %q: must match %s (e.g. \"mcp-wp/create-page\")",
			def.Name, validAbilityName,
		)
	}
	if def.Execute == nil {
		return fmt.Errorf("ability %s: executor must not be nil", def.Name)
	}
	if def.Permission == nil {
		return fmt.Errorf("ability %s: permission check must not be nil", def.Name)
	}
	if def.Visibility == "" {
		def.Visibility = VisibilityInternal
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateName, def.Name)
	}
	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// Lookup returns the definition registered under name.
// It returns ErrAbilityNotFound if no such ability exists.
func (r *Registry) Lookup(name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.defs[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrAbilityNotFound, name)
	}
	return def, nil
}

// List returns the definitions matching the filter, in registration order.
func (r *Registry) List(filter Filter) []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Definition
	for _, name := range r.order {
		def := r.defs[name]
		if filter.Category != "" && def.Category != filter.Category {
			continue
		}
		if filter.Visibility != "" && def.Visibility != filter.Visibility {
			continue
		}
		result = append(result, def)
	}
	return result
}

// Deregister removes the named ability from the registry.
// It is only safe to call outside concurrent invocation and exists for
// completeness; the registration phase normally runs once at startup.
func (r *Registry) Deregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[name]; !exists {
		return fmt.Errorf("%w: %s", ErrAbilityNotFound, name)
	}
	delete(r.defs, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// RegisterCategory records a named category for discovery purposes.
// Registering the same category twice updates its label.
func (r *Registry) RegisterCategory(name, label string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.categories {
		if r.categories[i].Name == name {
			r.categories[i].Label = label
			return
		}
	}
	r.categories = append(r.categories, Category{Name: name, Label: label})
}

// Categories returns the registered categories in registration order.
func (r *Registry) Categories() []Category {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// Len returns the number of registered abilities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}
