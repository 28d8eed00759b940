package loom

import (
	"fmt"
	"runtime/debug"

	"github.com/ferrante/loom/internal/registry"
	"github.com/rs/zerolog"
)

// resolver is the resolution engine: it walks a service's dependency graph
// depth-first in declared order, consulting the registry for definitions
// and the owning scope's caches for instances.
type resolver struct {
	registry *registry.Registry
	logger   zerolog.Logger
}

// resolutionStack tracks the chain of names currently being constructed
// within one top-level Resolve call. It is per-call state: never shared
// across goroutines, never retained between calls. Keeping it explicit
// (rather than relying on call-stack recursion alone) makes cycle
// detection a first-class check with a reportable path.
type resolutionStack struct {
	names  []string
	active map[string]struct{}
}

func newResolutionStack() *resolutionStack {
	return &resolutionStack{
		active: make(map[string]struct{}),
	}
}

func (s *resolutionStack) contains(name string) bool {
	_, ok := s.active[name]
	return ok
}

func (s *resolutionStack) push(name string) {
	s.names = append(s.names, name)
	s.active[name] = struct{}{}
}

func (s *resolutionStack) pop() {
	name := s.names[len(s.names)-1]
	s.names = s.names[:len(s.names)-1]
	delete(s.active, name)
}

// path returns the full chain from the root request down to name, in
// encounter order, with name appended to close the cycle.
func (s *resolutionStack) path(name string) []string {
	path := make([]string, 0, len(s.names)+1)
	path = append(path, s.names...)
	path = append(path, name)
	return path
}

// resolve resolves one name within scope. parent is the definition whose
// dependency list requested this resolution, or nil for the root request.
func (r *resolver) resolve(scope *Scope, name string, stack *resolutionStack, parent *registry.Definition) (any, error) {
	// The cycle check runs before the cache lookup: a name on the stack is
	// mid-construction and can never be cached, and checking first keeps a
	// cyclic graph from deadlocking on its own construction lock.
	if stack.contains(name) {
		return nil, CircularDependencyError{Path: stack.path(name)}
	}

	def, ok := r.registry.Lookup(name)
	if !ok {
		return nil, ServiceNotFoundError{Service: name, Available: r.registry.Names()}
	}

	if parent != nil && def.Lifetime == Scoped && parent.Lifetime != Scoped {
		return nil, LifetimeConflictError{
			Service:            parent.Name,
			ServiceLifetime:    parent.Lifetime,
			Dependency:         name,
			DependencyLifetime: def.Lifetime,
		}
	}

	switch def.Lifetime {
	case Singleton:
		// Singletons live in the root scope's cache and construct against
		// the root scope regardless of which scope asked.
		root := scope.root()
		return root.cache.getOrCreate(name, func() (any, error) {
			return r.construct(root, def, stack)
		})

	case Scoped:
		if scope.IsRoot() {
			return nil, fmt.Errorf("cannot resolve scoped service %q from the root container: %w", name, ErrScopeRequired)
		}
		return scope.cache.getOrCreate(name, func() (any, error) {
			return r.construct(scope, def, stack)
		})

	default:
		return r.construct(scope, def, stack)
	}
}

// construct builds a new instance of def: it resolves the declared
// dependencies depth-first, left-to-right, then invokes the factory with
// the results in the same order. Errors from any depth propagate unchanged.
func (r *resolver) construct(scope *Scope, def *registry.Definition, stack *resolutionStack) (any, error) {
	stack.push(def.Name)
	defer stack.pop()

	deps := make([]any, len(def.Dependencies))
	for i, depName := range def.Dependencies {
		instance, err := r.resolve(scope, depName, stack, def)
		if err != nil {
			return nil, err
		}
		deps[i] = instance
	}

	instance, err := r.invoke(def, deps)
	if err != nil {
		return nil, err
	}

	r.logger.Debug().
		Str("service", def.Name).
		Str("lifetime", def.Lifetime.String()).
		Str("scope", scope.id).
		Msg("constructed service")

	return instance, nil
}

// invoke calls the factory, converting an error into a ConstructionError
// and a panic into a FactoryPanicError with the captured stack.
func (r *resolver) invoke(def *registry.Definition, deps []any) (instance any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			instance = nil
			err = FactoryPanicError{
				Service: def.Name,
				Panic:   rec,
				Stack:   debug.Stack(),
			}
		}
	}()

	instance, err = def.Factory(deps)
	if err != nil {
		return nil, ConstructionError{Service: def.Name, Cause: err}
	}
	return instance, nil
}
