package loom

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/ferrante/loom/internal/graph"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// Base errors for errors.Is matching. The typed errors below wrap these
// with context; resolution paths never return a bare sentinel.

var (
	// Service resolution errors.
	ErrServiceNotFound    = errors.New("service not found")
	ErrCircularDependency = graph.ErrCircularDependency
	ErrScopeRequired      = errors.New("scoped service can only be resolved from a scope")

	// Registration errors.
	ErrNameEmpty         = errors.New("service name cannot be empty")
	ErrFactoryNil        = errors.New("factory cannot be nil")
	ErrAlreadyRegistered = errors.New("service already registered")

	// Lifecycle errors.
	ErrContainerClosed = errors.New("container has been closed")
	ErrScopeClosed     = errors.New("scope has been closed")
)

var (
	_ error = ServiceNotFoundError{}
	_ error = AlreadyRegisteredError{}
	_ error = ConstructionError{}
	_ error = FactoryPanicError{}
	_ error = LifetimeError{}
	_ error = LifetimeConflictError{}
	_ error = TypeMismatchError{}
	_ error = ModuleError{}
	_ error = DisposalError{}
	_ error = CircularDependencyError{}
)

// CircularDependencyError reports a cycle in the dependency graph. Path
// holds the full chain of service names from the root request to the
// repeated name, in encounter order.
//
// Alias of the graph package's type so both resolution-time and
// validation-time detection report identically.
type CircularDependencyError = graph.CircularDependencyError

// ServiceNotFoundError indicates a resolution (or a nested dependency
// lookup) referenced a name with no registered definition.
type ServiceNotFoundError struct {
	// Service is the name that was requested.
	Service string

	// Available holds the registered names, used for suggestions.
	Available []string
}

func (e ServiceNotFoundError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("service not found: %q", e.Service))

	if similar := findSimilarNames(e.Service, e.Available); len(similar) > 0 {
		b.WriteString("\n\nDid you mean one of these?\n")
		for _, name := range similar {
			b.WriteString(fmt.Sprintf("  • %s\n", name))
		}
	}

	b.WriteString("\nMake sure the service is registered before it is resolved.")
	return b.String()
}

func (e ServiceNotFoundError) Unwrap() error {
	return ErrServiceNotFound
}

// findSimilarNames finds registered names similar to target using a simple
// case-insensitive substring match, capped at five suggestions.
func findSimilarNames(target string, available []string) []string {
	if target == "" || len(available) == 0 {
		return nil
	}

	lowered := strings.ToLower(target)

	var similar []string
	for _, name := range available {
		if name == target {
			continue
		}

		candidate := strings.ToLower(name)
		if strings.Contains(candidate, lowered) || strings.Contains(lowered, candidate) {
			similar = append(similar, name)
		}

		if len(similar) >= 5 {
			break
		}
	}

	return similar
}

// AlreadyRegisteredError indicates a duplicate registration under strict
// registration mode.
type AlreadyRegisteredError struct {
	Service string
}

func (e AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("service %q already registered (container was created with WithStrictRegistration)", e.Service)
}

func (e AlreadyRegisteredError) Unwrap() error {
	return ErrAlreadyRegistered
}

// ConstructionError wraps a failure returned by a service's own factory.
// The underlying cause is preserved unmodified and reachable via Unwrap.
// Construction failures are not retried and never cached; a later
// resolution attempts construction again.
type ConstructionError struct {
	Service string
	Cause   error
}

func (e ConstructionError) Error() string {
	return fmt.Sprintf("failed to construct service %q: %v", e.Service, e.Cause)
}

func (e ConstructionError) Unwrap() error {
	return e.Cause
}

// FactoryPanicError indicates a factory panicked during invocation. It
// captures the panic value and stack trace for debugging.
type FactoryPanicError struct {
	Service string
	Panic   any
	Stack   []byte
}

func (e FactoryPanicError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("factory for service %q panicked: %v\n", e.Service, e.Panic))

	b.WriteString("\nFactories should be pure dependency wiring - avoid operations that can panic.\n")
	b.WriteString("\nTo resolve this:\n")
	b.WriteString("  • Check for nil dependencies before using them\n")
	b.WriteString("  • Check type assertions on the deps slice\n")
	b.WriteString("  • Move panic-prone initialization out of the factory\n")

	if len(e.Stack) > 0 {
		b.WriteString("\nStack trace:\n")
		b.Write(e.Stack)
	}

	return b.String()
}

// LifetimeError indicates an invalid service lifetime value.
type LifetimeError struct {
	Value any
}

func (e LifetimeError) Error() string {
	return fmt.Sprintf("invalid service lifetime: %v", e.Value)
}

// LifetimeConflictError indicates a service has an invalid dependency due
// to lifetime constraints. A Singleton or Transient service cannot depend
// on a Scoped service.
type LifetimeConflictError struct {
	Service            string
	ServiceLifetime    Lifetime
	Dependency         string
	DependencyLifetime Lifetime
}

func (e LifetimeConflictError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("lifetime conflict: %q (%s) cannot depend on %q (%s)\n\n",
		e.Service, e.ServiceLifetime,
		e.Dependency, e.DependencyLifetime))

	switch e.ServiceLifetime {
	case Singleton:
		b.WriteString("Singleton services are created once and live for the container lifetime.\n")
		b.WriteString("Scoped services are created per-scope and may differ between scopes.\n\n")
		b.WriteString("A singleton depending on a scoped service would capture a single scope's\n")
		b.WriteString("instance, which is almost certainly not what you want.\n\n")
	case Transient:
		b.WriteString("Transient services are created every time they are resolved.\n")
		b.WriteString("Scoped services are created per-scope and closed with their scope.\n\n")
		b.WriteString("A transient depending on a scoped service could outlive and hold a\n")
		b.WriteString("reference to a closed scoped instance.\n\n")
	}

	b.WriteString("To resolve this:\n")
	b.WriteString(fmt.Sprintf("  • Change %q to the Scoped lifetime\n", e.Service))
	b.WriteString(fmt.Sprintf("  • Change %q to the Singleton lifetime\n", e.Dependency))

	return b.String()
}

// TypeMismatchError indicates a resolved instance did not match the type
// requested through the generic Resolve helper.
type TypeMismatchError struct {
	Service  string
	Expected reflect.Type
	Actual   reflect.Type
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("service %q: expected %s, got %s", e.Service, formatType(e.Expected), formatType(e.Actual))
}

// ModuleError wraps errors from module registration.
type ModuleError struct {
	Module string
	Cause  error
}

func (e ModuleError) Error() string {
	return fmt.Sprintf("module %q: %v", e.Module, e.Cause)
}

func (e ModuleError) Unwrap() error {
	return e.Cause
}

// DisposalError aggregates errors from closing cached instances.
type DisposalError struct {
	Context string // "container" or "scope"
	Errors  []error
}

func (e DisposalError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("%s disposal failed: %v", e.Context, e.Errors[0])
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s disposal failed with %d errors:", e.Context, len(e.Errors)))
	for i, err := range e.Errors {
		b.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
	}
	return b.String()
}

func (e DisposalError) Unwrap() []error {
	return e.Errors
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Interface, reflect.Struct:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}
