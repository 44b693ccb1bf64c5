package dynsource

import "go.uber.org/zap"

// Option is a functional option for the registrar.
type Option func(*registrarOptions)

type registrarOptions struct {
	logger     *zap.Logger
	singletons *Singletons
}

func defaultOptions() registrarOptions {
	return registrarOptions{
		logger: zap.NewNop(),
	}
}

// WithLogger sets the logger used for registration progress lines.
func WithLogger(logger *zap.Logger) Option {
	return func(o *registrarOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSingletons makes a process-wide singleton set available to builders.
func WithSingletons(singletons *Singletons) Option {
	return func(o *registrarOptions) {
		o.singletons = singletons
	}
}
