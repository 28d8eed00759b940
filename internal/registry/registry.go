// Package registry holds the declarative service definitions a container
// resolves from. It is a pure in-memory store: no I/O, no validation of
// dependency existence (dependencies may be registered later, in any order).
package registry

import (
	"sort"
	"sync"
)

// Factory is the construction recipe associated with a definition. It is
// invoked with the resolved dependency instances in declared order and
// returns the new instance or an error.
type Factory func(deps []any) (any, error)

// Definition describes one registered service: its unique name, the names
// of the services it depends on (in construction order), its lifetime, and
// the factory that builds it. Definitions are immutable once registered.
type Definition struct {
	// Name is the unique key the service is registered and resolved under.
	Name string

	// Dependencies are the names of the services the factory needs,
	// in the order they are passed to it.
	Dependencies []string

	// Lifetime determines instance caching behavior.
	Lifetime Lifetime

	// Factory produces the instance from its resolved dependencies.
	Factory Factory
}

// Registry is a thread-safe mapping from service name to Definition.
// Registration is last-write-wins; callers that want duplicate detection
// check Contains before registering.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]*Definition
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		definitions: make(map[string]*Definition),
	}
}

// Register stores a definition under its name, replacing any prior
// definition for that name. The dependency slice is copied so later
// mutation by the caller cannot affect the stored definition.
func (r *Registry) Register(def *Definition) {
	stored := &Definition{
		Name:     def.Name,
		Lifetime: def.Lifetime,
		Factory:  def.Factory,
	}
	if len(def.Dependencies) > 0 {
		stored.Dependencies = make([]string, len(def.Dependencies))
		copy(stored.Dependencies, def.Dependencies)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.Name] = stored
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[name]
	return def, ok
}

// Contains reports whether a definition is registered under name.
func (r *Registry) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.definitions[name]
	return ok
}

// Remove deletes the definition registered under name, if any.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.definitions, name)
}

// Names returns all registered service names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered definitions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.definitions)
}

// Snapshot returns the registered definitions sorted by name. The slice is
// a copy; the definitions themselves are shared and must not be mutated.
func (r *Registry) Snapshot() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]*Definition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}
