package loom

import "github.com/ferrante/loom/internal/registry"

// Lifetime specifies the lifetime of a registered service: when instances
// are created and how they are cached. See the constants for the exact
// semantics of each value.
type Lifetime = registry.Lifetime

const (
	// Singleton yields one instance per container. The instance is created
	// lazily on first resolution and reused for the container's lifetime.
	Singleton = registry.Singleton

	// Scoped yields one instance per Scope. Scoped services can only be
	// resolved through a scope created with CreateScope.
	Scoped = registry.Scoped

	// Transient yields a newly constructed instance on every resolution.
	Transient = registry.Transient
)
