package dynsource

import (
	"context"
	"fmt"
	"slices"
)

// BuildContext is the only window a builder has into the outside world: the
// database's own config, same-database resources of kinds it declared as
// dependencies, and process-wide singletons.
type BuildContext[C any] struct {
	name       string
	config     C
	kind       Kind[C]
	registry   *Registry
	singletons *Singletons
}

// Name returns the database name this builder runs for.
func (bc *BuildContext[C]) Name() string {
	return bc.name
}

// Config returns this database's configuration.
func (bc *BuildContext[C]) Config() C {
	return bc.config
}

// Resource looks up a resource of an earlier kind for the same database.
// The suffix must appear in the kind's DependsOn list; builders cannot reach
// resources they did not declare, and never another database's resources.
func (bc *BuildContext[C]) Resource(ctx context.Context, suffix string) (any, error) {
	if !slices.Contains(bc.kind.DependsOn, suffix) {
		return nil, fmt.Errorf("%w: kind %q did not declare %q", ErrUndeclaredDependency, bc.kind.Suffix, suffix)
	}
	return bc.registry.Get(ctx, bc.name+suffix)
}

// Singleton resolves a process-wide singleton by name. Resolution is lazy:
// it happens here, at build time, never during registration, so singleton
// providers are free to depend on things that are not ready while the
// registrar runs.
func (bc *BuildContext[C]) Singleton(name string) (any, error) {
	if bc.singletons == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSingleton, name)
	}
	return bc.singletons.Get(name)
}
