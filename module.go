package loom

// ModuleOption represents a registration action within a module.
type ModuleOption func(*Container) error

// NewModule creates a named group of registrations. Modules compose:
//
//	var StorageModule = loom.NewModule("storage",
//	    loom.ProvideSingleton("db", OpenDatabase, "logger"),
//	    loom.ProvideScoped("tx", BeginTransaction, "db"),
//	)
//
//	var AppModule = loom.NewModule("app",
//	    StorageModule,
//	    loom.ProvideSingleton("logger", NewLogger),
//	)
//
//	err := c.AddModules(AppModule)
//
// A failing registration aborts the module and is wrapped in a ModuleError
// naming it.
func NewModule(name string, opts ...ModuleOption) ModuleOption {
	return func(c *Container) error {
		for _, opt := range opts {
			if opt == nil {
				continue
			}
			if err := opt(c); err != nil {
				return ModuleError{Module: name, Cause: err}
			}
		}
		return nil
	}
}

// Provide creates a ModuleOption that registers a service with an explicit
// lifetime. Dependencies are listed in the order the factory expects them.
func Provide(name string, lifetime Lifetime, factory Factory, dependencies ...string) ModuleOption {
	return func(c *Container) error {
		return c.Register(name, dependencies, lifetime, factory)
	}
}

// ProvideSingleton registers a singleton service.
func ProvideSingleton(name string, factory Factory, dependencies ...string) ModuleOption {
	return Provide(name, Singleton, factory, dependencies...)
}

// ProvideScoped registers a scoped service.
func ProvideScoped(name string, factory Factory, dependencies ...string) ModuleOption {
	return Provide(name, Scoped, factory, dependencies...)
}

// ProvideTransient registers a transient service.
func ProvideTransient(name string, factory Factory, dependencies ...string) ModuleOption {
	return Provide(name, Transient, factory, dependencies...)
}

// ProvideInstance registers a pre-built value as a singleton.
func ProvideInstance(name string, instance any) ModuleOption {
	return func(c *Container) error {
		return c.RegisterInstance(name, instance)
	}
}
