package loom_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ferrante/loom"
)

func TestServiceNotFoundError(t *testing.T) {
	err := loom.ServiceNotFoundError{Service: "userService"}

	if !errors.Is(err, loom.ErrServiceNotFound) {
		t.Error("expected errors.Is to match ErrServiceNotFound")
	}
	if !strings.Contains(err.Error(), `service not found: "userService"`) {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestServiceNotFoundError_Suggestions(t *testing.T) {
	err := loom.ServiceNotFoundError{
		Service:   "user",
		Available: []string{"userService", "logger", "userRepository"},
	}

	msg := err.Error()
	if !strings.Contains(msg, "Did you mean one of these?") {
		t.Errorf("expected suggestions in message: %s", msg)
	}
	if !strings.Contains(msg, "userService") || !strings.Contains(msg, "userRepository") {
		t.Errorf("expected similar names listed: %s", msg)
	}
	if strings.Contains(msg, "• logger") {
		t.Errorf("did not expect unrelated name suggested: %s", msg)
	}
}

func TestAlreadyRegisteredError(t *testing.T) {
	err := loom.AlreadyRegisteredError{Service: "logger"}

	if !errors.Is(err, loom.ErrAlreadyRegistered) {
		t.Error("expected errors.Is to match ErrAlreadyRegistered")
	}
	if !strings.Contains(err.Error(), `"logger"`) {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestConstructionError(t *testing.T) {
	cause := errors.New("connection refused")
	err := loom.ConstructionError{Service: "database", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("expected the underlying cause to be preserved unmodified")
	}

	msg := err.Error()
	if !strings.Contains(msg, `"database"`) || !strings.Contains(msg, "connection refused") {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestFactoryPanicError(t *testing.T) {
	err := loom.FactoryPanicError{
		Service: "cache",
		Panic:   "nil map write",
		Stack:   []byte("goroutine 1 [running]:"),
	}

	msg := err.Error()
	for _, want := range []string{`"cache"`, "nil map write", "Stack trace:", "goroutine 1"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in message: %s", want, msg)
		}
	}
}

func TestLifetimeError(t *testing.T) {
	err := loom.LifetimeError{Value: 42}
	if !strings.Contains(err.Error(), "invalid service lifetime: 42") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestLifetimeConflictError(t *testing.T) {
	tests := []struct {
		lifetime loom.Lifetime
		want     string
	}{
		{loom.Singleton, "Singleton services are created once"},
		{loom.Transient, "Transient services are created every time"},
	}

	for _, tt := range tests {
		err := loom.LifetimeConflictError{
			Service:            "users",
			ServiceLifetime:    tt.lifetime,
			Dependency:         "session",
			DependencyLifetime: loom.Scoped,
		}

		msg := err.Error()
		if !strings.Contains(msg, "lifetime conflict") {
			t.Errorf("unexpected message: %s", msg)
		}
		if !strings.Contains(msg, tt.want) {
			t.Errorf("expected explanation for %s: %s", tt.lifetime, msg)
		}
	}
}

func TestModuleError(t *testing.T) {
	cause := errors.New("bad registration")
	err := loom.ModuleError{Module: "storage", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
	if !strings.Contains(err.Error(), `module "storage"`) {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestDisposalError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := loom.DisposalError{Context: "scope", Errors: []error{errors.New("close failed")}}
		if !strings.Contains(err.Error(), "scope disposal failed: close failed") {
			t.Errorf("unexpected message: %s", err.Error())
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		first := errors.New("first")
		second := errors.New("second")
		err := loom.DisposalError{Context: "container", Errors: []error{first, second}}

		msg := err.Error()
		if !strings.Contains(msg, "2 errors") {
			t.Errorf("unexpected message: %s", msg)
		}
		if !errors.Is(err, first) || !errors.Is(err, second) {
			t.Error("expected errors.Is to reach every aggregated error")
		}
	})
}

func TestCircularDependencyError_Rendering(t *testing.T) {
	err := loom.CircularDependencyError{Path: []string{"a", "b", "a"}}

	if !errors.Is(err, loom.ErrCircularDependency) {
		t.Error("expected errors.Is to match ErrCircularDependency")
	}

	msg := err.Error()
	if !strings.Contains(msg, "circular dependency detected") {
		t.Errorf("unexpected message: %s", msg)
	}
	if !strings.Contains(msg, "(cycle)") {
		t.Errorf("expected cycle marker: %s", msg)
	}
	if got := err.Chain(); got != "a -> b -> a" {
		t.Errorf("unexpected chain: %s", got)
	}
}

func TestTypeMismatchError(t *testing.T) {
	c := loom.New()
	defer c.Close()

	if err := c.RegisterInstance("logger", "not a number"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := loom.Resolve[int](c, "logger")
	var tmErr loom.TypeMismatchError
	if !errors.As(err, &tmErr) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
	if tmErr.Service != "logger" {
		t.Errorf("unexpected service: %s", tmErr.Service)
	}
	if fmt.Sprint(tmErr.Expected) != "int" {
		t.Errorf("unexpected expected type: %v", tmErr.Expected)
	}
}
