package loom

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Scope is a unit of lifetime: Scoped services resolved through it are
// cached per scope and closed with it. In web applications a scope is
// typically created per request and closed when the request finishes.
//
// Example:
//
//	scope, err := c.CreateScope(ctx)
//	if err != nil { ... }
//	defer scope.Close()
//
//	session, err := loom.Resolve[*Session](scope, "session")
//
// The container owns a root scope internally; singleton instances live
// there no matter which scope resolved them.
type Scope struct {
	id        string
	ctx       context.Context
	container *Container
	parent    *Scope
	cache     *instanceCache

	children   []*Scope
	childrenMu sync.Mutex

	closed int32
}

func newScope(c *Container, parent *Scope, ctx context.Context) *Scope {
	if ctx == nil {
		ctx = context.Background()
	}

	return &Scope{
		id:        uuid.NewString(),
		ctx:       ctx,
		container: c,
		parent:    parent,
		cache:     newInstanceCache(),
	}
}

// ID returns the unique ID of this scope.
func (s *Scope) ID() string {
	return s.id
}

// Context returns the context associated with this scope.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// IsRoot reports whether this is the container's root scope.
func (s *Scope) IsRoot() bool {
	return s.parent == nil
}

// Parent returns the parent scope, or nil for the root scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Container returns the owning container.
func (s *Scope) Container() *Container {
	return s.container
}

// Resolve resolves a service by name within this scope. Singleton
// instances are shared with the container; Scoped instances are cached in
// this scope; Transient instances are constructed fresh.
func (s *Scope) Resolve(name string) (any, error) {
	if s.container.isClosed() {
		return nil, ErrContainerClosed
	}
	if s.isClosed() {
		return nil, ErrScopeClosed
	}

	return s.container.resolver.resolve(s, name, newResolutionStack(), nil)
}

// CreateScope creates a child scope. Closing this scope closes the child
// first.
func (s *Scope) CreateScope(ctx context.Context) (*Scope, error) {
	if s.container.isClosed() {
		return nil, ErrContainerClosed
	}
	if s.isClosed() {
		return nil, ErrScopeClosed
	}

	child := newScope(s.container, s, ctx)

	s.childrenMu.Lock()
	s.children = append(s.children, child)
	s.childrenMu.Unlock()

	s.container.logger.Debug().
		Str("container", s.container.name).
		Str("scope", child.id).
		Str("parent", s.id).
		Msg("created scope")

	return child, nil
}

// Close closes the scope: child scopes first (newest first), then the
// scope's cached instances in reverse construction order. Instances that
// implement io.Closer are closed; their errors are collected into a
// DisposalError rather than short-circuiting. Close is idempotent.
func (s *Scope) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}

	if s.parent != nil {
		s.parent.removeChild(s)
	}

	var errs []error

	s.childrenMu.Lock()
	children := make([]*Scope, len(s.children))
	copy(children, s.children)
	s.children = nil
	s.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		if err := children[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}

	for _, instance := range s.cache.drain() {
		closer, ok := instance.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	s.container.logger.Debug().
		Str("container", s.container.name).
		Str("scope", s.id).
		Msg("closed scope")

	if len(errs) > 0 {
		return DisposalError{Context: "scope", Errors: errs}
	}
	return nil
}

func (s *Scope) removeChild(child *Scope) {
	s.childrenMu.Lock()
	defer s.childrenMu.Unlock()

	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

// root walks up to the container's root scope.
func (s *Scope) root() *Scope {
	current := s
	for current.parent != nil {
		current = current.parent
	}
	return current
}

func (s *Scope) isClosed() bool {
	return atomic.LoadInt32(&s.closed) != 0
}
