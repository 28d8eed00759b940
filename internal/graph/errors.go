package graph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCircularDependency is the base error every CircularDependencyError
// wraps, for errors.Is matching.
var ErrCircularDependency = errors.New("circular dependency detected")

// CircularDependencyError reports a cycle in the dependency graph. Path
// holds the full chain of service names in encounter order, ending with
// the name that closed the cycle.
type CircularDependencyError struct {
	Path []string
}

func (e CircularDependencyError) Error() string {
	var b strings.Builder
	b.WriteString("circular dependency detected:\n\n")

	for i, name := range e.Path {
		b.WriteString(fmt.Sprintf("    %s", name))
		if i == len(e.Path)-1 && len(e.Path) > 1 {
			b.WriteString(" (cycle)")
		}
		b.WriteString("\n")
		if i < len(e.Path)-1 {
			b.WriteString("      ↓\n")
		}
	}

	b.WriteString("\nTo resolve this:\n")
	b.WriteString("  • Invert one of the dependencies\n")
	b.WriteString("  • Introduce a third service both sides can depend on\n")
	b.WriteString("  • Resolve one side lazily from the container instead of declaring it\n")

	return b.String()
}

func (e CircularDependencyError) Unwrap() error {
	return ErrCircularDependency
}

// Chain returns the cycle rendered on one line, e.g. "A -> B -> C -> A".
func (e CircularDependencyError) Chain() string {
	return strings.Join(e.Path, " -> ")
}

// MissingDependencyError reports a declared dependency with no node in
// the graph.
type MissingDependencyError struct {
	Service    string
	Dependency string
}

func (e MissingDependencyError) Error() string {
	return fmt.Sprintf("service %q depends on %q, which is not registered", e.Service, e.Dependency)
}
