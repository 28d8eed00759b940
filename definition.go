package loom

import "github.com/ferrante/loom/internal/registry"

// Definition describes one registered service: its unique name, the names
// of its dependencies in construction order, its lifetime, and its factory.
// Definitions are immutable once registered; re-registering a name replaces
// the whole definition.
type Definition = registry.Definition

// Factory is the construction recipe for a service. It receives the
// resolved dependency instances in the order the definition declares them
// and returns the new instance or an error.
//
// Factories are expected to be pure construction logic. Long-running or
// blocking initialization belongs in the constructed instance, not in the
// factory; the container holds construction locks while a factory runs.
type Factory = registry.Factory
