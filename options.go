package loom

import "github.com/rs/zerolog"

// Option configures a Container at construction time.
type Option func(*Container)

// WithLogger attaches a zerolog logger to the container. Registration,
// construction, scope, and disposal events are logged at debug level.
// Without this option the container logs nothing.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Container) {
		c.logger = logger
	}
}

// WithName sets a human-readable container name, included as a field on
// every log event. Defaults to "loom".
func WithName(name string) Option {
	return func(c *Container) {
		c.name = name
	}
}

// WithStrictRegistration makes registering an already-registered name fail
// with AlreadyRegisteredError instead of the default last-write-wins
// replacement.
func WithStrictRegistration() Option {
	return func(c *Container) {
		c.strict = true
	}
}
