package healthchecker

import "time"

// Option configures the health checker
type Option func(*Config)

// WithInterval sets the health check interval
func WithInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.Interval = interval
	}
}

// WithTimeout sets the health check timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// Apply builds a config from defaults plus opts.
func Apply(opts ...Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
