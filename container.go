package loom

import (
	"context"
	"errors"
	"io"
	"reflect"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ferrante/loom/internal/graph"
	"github.com/ferrante/loom/internal/registry"
)

// Container is the composition root: it owns one registry of service
// definitions and one cache of singleton instances, and exposes
// registration and resolution as its public surface.
//
// A Container is an explicitly owned value. Create one at your process
// entry point (or per test fixture) and pass it to whatever needs it;
// there is no ambient global container.
//
// Registration and resolution may interleave and are both safe for
// concurrent use.
type Container struct {
	id     string
	name   string
	logger zerolog.Logger
	strict bool

	registry *registry.Registry
	resolver *resolver
	root     *Scope

	closed int32
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		id:       uuid.NewString(),
		name:     "loom",
		logger:   zerolog.Nop(),
		registry: registry.New(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.resolver = &resolver{registry: c.registry, logger: c.logger}
	c.root = newScope(c, nil, context.Background())

	return c
}

// ID returns the unique ID of this container.
func (c *Container) ID() string {
	return c.id
}

// Register stores a service definition under name. Dependencies are the
// names of the services the factory needs, in the order they are passed
// to it; they do not need to be registered yet. Registering a name twice
// replaces the earlier definition (last write wins) unless the container
// was created with WithStrictRegistration. An already-cached singleton
// instance is never replaced.
func (c *Container) Register(name string, dependencies []string, lifetime Lifetime, factory Factory) error {
	if c.isClosed() {
		return ErrContainerClosed
	}
	if name == "" {
		return ErrNameEmpty
	}
	if factory == nil {
		return ErrFactoryNil
	}
	if !lifetime.IsValid() {
		return LifetimeError{Value: lifetime}
	}
	if c.strict && c.registry.Contains(name) {
		return AlreadyRegisteredError{Service: name}
	}

	c.registry.Register(&registry.Definition{
		Name:         name,
		Dependencies: dependencies,
		Lifetime:     lifetime,
		Factory:      factory,
	})

	c.logger.Debug().
		Str("container", c.name).
		Str("service", name).
		Str("lifetime", lifetime.String()).
		Strs("dependencies", dependencies).
		Msg("registered service")

	return nil
}

// RegisterInstance registers a pre-built value as a singleton under name.
func (c *Container) RegisterInstance(name string, instance any) error {
	return c.Register(name, nil, Singleton, func([]any) (any, error) {
		return instance, nil
	})
}

// AddModules applies one or more module configurations to the container.
// Modules group related registrations; see NewModule.
func (c *Container) AddModules(modules ...ModuleOption) error {
	for _, module := range modules {
		if module == nil {
			continue
		}
		if err := module(c); err != nil {
			return err
		}
	}
	return nil
}

// Resolve constructs (or returns the cached instance of) the service
// registered under name, resolving its dependency graph depth-first in
// declared order. It returns ServiceNotFoundError, CircularDependencyError,
// or ConstructionError on failure; errors at any depth propagate unchanged.
func (c *Container) Resolve(name string) (any, error) {
	return c.root.Resolve(name)
}

// Contains reports whether a definition is registered under name.
func (c *Container) Contains(name string) bool {
	return c.registry.Contains(name)
}

// Count returns the number of registered definitions.
func (c *Container) Count() int {
	return c.registry.Count()
}

// Definitions returns the registered definitions sorted by name.
func (c *Container) Definitions() []*Definition {
	return c.registry.Snapshot()
}

// CreateScope creates a new scope for resolving Scoped services. The
// returned scope must be closed by the caller.
func (c *Container) CreateScope(ctx context.Context) (*Scope, error) {
	if c.isClosed() {
		return nil, ErrContainerClosed
	}
	return c.root.CreateScope(ctx)
}

// Validate eagerly checks the registered graph without constructing
// anything: every declared dependency must be registered, the graph must
// be acyclic, and no Singleton or Transient service may depend on a
// Scoped one. Errors are joined so one pass reports every problem.
func (c *Container) Validate() error {
	defs := c.registry.Snapshot()

	var errs []error
	for _, def := range defs {
		for _, dep := range def.Dependencies {
			depDef, ok := c.registry.Lookup(dep)
			if !ok {
				errs = append(errs, graph.MissingDependencyError{Service: def.Name, Dependency: dep})
				continue
			}
			if depDef.Lifetime == Scoped && def.Lifetime != Scoped {
				errs = append(errs, LifetimeConflictError{
					Service:            def.Name,
					ServiceLifetime:    def.Lifetime,
					Dependency:         dep,
					DependencyLifetime: depDef.Lifetime,
				})
			}
		}
	}

	if err := c.buildGraph(defs).DetectCycles(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Visualize writes the registered dependency graph in Graphviz DOT format.
func (c *Container) Visualize(w io.Writer) error {
	return graph.NewVisualizer(c.buildGraph(c.registry.Snapshot())).WriteDOT(w)
}

func (c *Container) buildGraph(defs []*Definition) *graph.Graph {
	g := graph.New()
	for _, def := range defs {
		g.Add(def.Name, def.Dependencies)
	}
	return g
}

// Close closes the container: every open scope is closed (children before
// parents), then cached singletons that implement io.Closer are closed in
// reverse construction order. Close is idempotent; later Register and
// Resolve calls fail with ErrContainerClosed.
func (c *Container) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}

	err := c.root.Close()

	c.logger.Debug().
		Str("container", c.name).
		Str("id", c.id).
		Msg("closed container")

	if err != nil {
		var disposal DisposalError
		if errors.As(err, &disposal) {
			return DisposalError{Context: "container", Errors: disposal.Errors}
		}
		return err
	}
	return nil
}

func (c *Container) isClosed() bool {
	return atomic.LoadInt32(&c.closed) != 0
}

// Resolver is the read side of a container or scope: anything a service
// can be resolved from.
type Resolver interface {
	Resolve(name string) (any, error)
}

var (
	_ Resolver = (*Container)(nil)
	_ Resolver = (*Scope)(nil)
)

// Resolve resolves name from r and type-asserts the result.
//
//	users, err := loom.Resolve[*UserService](c, "users")
func Resolve[T any](r Resolver, name string) (T, error) {
	var zero T

	instance, err := r.Resolve(name)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, TypeMismatchError{
			Service:  name,
			Expected: reflect.TypeOf((*T)(nil)).Elem(),
			Actual:   reflect.TypeOf(instance),
		}
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on failure. Intended for
// composition roots where a missing service is a programming error.
func MustResolve[T any](r Resolver, name string) T {
	instance, err := Resolve[T](r, name)
	if err != nil {
		panic(err)
	}
	return instance
}
