// Package loom provides a declarative dependency-injection container for Go
// applications. Services are registered by name with an explicit list of the
// dependency names their factory needs; the container resolves the full
// dependency graph on demand, detecting cycles and missing registrations,
// and manages instance lifetimes.
//
// # Overview
//
// loom deliberately avoids reflection-based auto-wiring. A registration is a
// plain record: a name, the names of its dependencies in the order the
// factory expects them, a lifetime, and a factory function. Registration
// order does not matter; a dependency may be registered after the services
// that need it, as long as it exists by the time resolution happens.
//
// # Basic Usage
//
// Create a container, register your services, and resolve a root:
//
//	c := loom.New()
//
//	c.Register("logger", nil, loom.Singleton, func(deps []any) (any, error) {
//	    return log.New(os.Stderr, "", log.LstdFlags), nil
//	})
//	c.Register("database", []string{"logger"}, loom.Singleton, func(deps []any) (any, error) {
//	    return OpenDatabase(deps[0].(*log.Logger))
//	})
//	c.Register("users", []string{"logger", "database"}, loom.Singleton, func(deps []any) (any, error) {
//	    return NewUserService(deps[0].(*log.Logger), deps[1].(*Database)), nil
//	})
//
//	users, err := loom.Resolve[*UserService](c, "users")
//
// # Lifetimes
//
// loom supports three lifetimes:
//
//   - Singleton: one instance per container, created on first resolution and
//     shared by every later resolution.
//   - Scoped: one instance per scope (typically one scope per request).
//     Scoped services can only be resolved through a Scope.
//   - Transient: a new instance on every resolution, even when the service
//     appears twice in the same dependency graph.
//
// # Errors
//
// Resolve returns typed errors: ServiceNotFoundError when a name has no
// registration, CircularDependencyError with the full offending chain when
// the graph is cyclic, and ConstructionError wrapping the factory's own
// failure. Failed constructions are never cached; a later Resolve retries.
//
// # Concurrency
//
// Registration and resolution are safe to interleave from multiple
// goroutines. Concurrent resolutions of the same singleton perform exactly
// one factory invocation; every caller observes the same instance.
//
// # Scopes and Disposal
//
// Scopes carry per-scope instances and dispose them on Close:
//
//	scope, err := c.CreateScope(ctx)
//	if err != nil { ... }
//	defer scope.Close()
//
//	session, err := loom.Resolve[*Session](scope, "session")
//
// Closing a scope (or the container) closes cached instances that implement
// io.Closer in reverse construction order, children before parents.
package loom
