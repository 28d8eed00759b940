package loom_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrante/loom"
)

func TestNewModule(t *testing.T) {
	module := loom.NewModule("app",
		loom.ProvideSingleton("logger", value("log")),
		loom.ProvideSingleton("database", func(deps []any) (any, error) {
			return deps[0].(string) + ":db", nil
		}, "logger"),
	)

	c := loom.New()
	defer c.Close()

	require.NoError(t, c.AddModules(module))

	got, err := c.Resolve("database")
	require.NoError(t, err)
	assert.Equal(t, "log:db", got)
}

func TestNewModule_Nesting(t *testing.T) {
	storage := loom.NewModule("storage",
		loom.ProvideSingleton("database", value("db")),
		loom.ProvideScoped("tx", value("tx"), "database"),
	)
	app := loom.NewModule("app",
		storage,
		loom.ProvideSingleton("logger", value("log")),
		loom.ProvideTransient("request-id", value("rid")),
	)

	c := loom.New()
	defer c.Close()

	require.NoError(t, c.AddModules(app))

	for _, name := range []string{"database", "tx", "logger", "request-id"} {
		assert.True(t, c.Contains(name), "expected %q to be registered", name)
	}

	scope, err := c.CreateScope(context.Background())
	require.NoError(t, err)
	defer scope.Close()

	got, err := scope.Resolve("tx")
	require.NoError(t, err)
	assert.Equal(t, "tx", got)
}

func TestNewModule_WrapsFailures(t *testing.T) {
	module := loom.NewModule("broken",
		loom.ProvideSingleton("logger", value("log")),
		loom.ProvideSingleton("", value("nameless")),
	)

	c := loom.New()
	defer c.Close()

	err := c.AddModules(module)
	require.Error(t, err)

	var modErr loom.ModuleError
	require.ErrorAs(t, err, &modErr)
	assert.Equal(t, "broken", modErr.Module)
	assert.ErrorIs(t, err, loom.ErrNameEmpty)

	// Registrations before the failure stay in place.
	assert.True(t, c.Contains("logger"))
}

func TestNewModule_NestedFailureNamesInnerModule(t *testing.T) {
	inner := loom.NewModule("inner",
		loom.ProvideSingleton("svc", nil),
	)
	outer := loom.NewModule("outer", inner)

	c := loom.New()
	defer c.Close()

	err := c.AddModules(outer)
	require.Error(t, err)
	assert.ErrorIs(t, err, loom.ErrFactoryNil)

	var modErr loom.ModuleError
	require.ErrorAs(t, err, &modErr)
	assert.Equal(t, "outer", modErr.Module)

	var innerErr loom.ModuleError
	require.ErrorAs(t, errors.Unwrap(modErr), &innerErr)
	assert.Equal(t, "inner", innerErr.Module)
}

func TestProvide_Lifetimes(t *testing.T) {
	c := loom.New()
	defer c.Close()

	require.NoError(t, c.AddModules(
		loom.Provide("a", loom.Singleton, value(1)),
		loom.ProvideSingleton("b", value(2)),
		loom.ProvideScoped("c", value(3)),
		loom.ProvideTransient("d", value(4)),
	))

	defs := c.Definitions()
	lifetimes := make(map[string]loom.Lifetime, len(defs))
	for _, def := range defs {
		lifetimes[def.Name] = def.Lifetime
	}

	assert.Equal(t, loom.Singleton, lifetimes["a"])
	assert.Equal(t, loom.Singleton, lifetimes["b"])
	assert.Equal(t, loom.Scoped, lifetimes["c"])
	assert.Equal(t, loom.Transient, lifetimes["d"])
}

func TestProvideInstance(t *testing.T) {
	instance := &struct{ n int }{n: 7}

	c := loom.New()
	defer c.Close()

	require.NoError(t, c.AddModules(
		loom.NewModule("app", loom.ProvideInstance("config", instance)),
	))

	got, err := c.Resolve("config")
	require.NoError(t, err)
	assert.Same(t, instance, got)
}

func TestAddModules_NilModuleIgnored(t *testing.T) {
	c := loom.New()
	defer c.Close()

	require.NoError(t, c.AddModules(nil, loom.ProvideSingleton("svc", value(1))))
	assert.True(t, c.Contains("svc"))
}
