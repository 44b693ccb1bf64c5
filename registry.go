package dynsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Supplier builds a resource on first lookup. It is invoked at most once per
// registry entry; the result (or the error) is cached for the lifetime of
// the registry.
type Supplier func(ctx context.Context) (any, error)

type entry struct {
	key       string
	build     Supplier
	dependsOn []string
	primary   bool

	once  sync.Once
	value any
	err   error
}

type alias struct {
	target  string
	primary bool
}

// Registry is a string-keyed container of lazily-constructed resources with
// explicit dependency edges. Registration is expected to happen once during
// startup; lookups are safe for concurrent use and each entry is built at
// most once.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	aliases map[string]*alias
	order   []string // registration order of entries
	closers []string // completion order of successfully built entries
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		aliases: make(map[string]*alias),
	}
}

// Register adds a lazily-built resource under key. Every key listed in
// dependsOn must already be registered, which forces callers to register
// chains in topological order and keeps the dependency graph acyclic.
func (r *Registry) Register(key string, build Supplier, dependsOn ...string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrUnknownKey)
	}
	if build == nil {
		return fmt.Errorf("supplier for key %q cannot be nil", key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.exists(key) {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	for _, dep := range dependsOn {
		if !r.exists(dep) {
			return fmt.Errorf("%w: %q depends on %q", ErrUnknownDependency, key, dep)
		}
	}

	r.entries[key] = &entry{key: key, build: build, dependsOn: dependsOn}
	r.order = append(r.order, key)
	return nil
}

// Alias registers key as a second name for target. Lookups through the alias
// resolve to the same lazy cell, so the underlying resource is still
// constructed at most once.
func (r *Registry) Alias(key, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.exists(key) {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	if _, ok := r.entries[target]; !ok {
		return fmt.Errorf("%w: alias target %q", ErrUnknownKey, target)
	}
	r.aliases[key] = &alias{target: target}
	return nil
}

// MarkPrimary flags key as the default injection candidate for its resource
// kind. Both entries and aliases can carry the flag.
func (r *Registry) MarkPrimary(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok {
		e.primary = true
		return nil
	}
	if a, ok := r.aliases[key]; ok {
		a.primary = true
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Get returns the resource registered under key, building it (and its
// dependencies) on first use. Build errors are cached and returned on every
// subsequent lookup of the same key.
func (r *Registry) Get(ctx context.Context, key string) (any, error) {
	r.mu.RLock()
	e, ok := r.entries[key]
	if !ok {
		if a, aok := r.aliases[key]; aok {
			e, ok = r.entries[a.target], true
		}
	}
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return r.resolve(ctx, e)
}

func (r *Registry) resolve(ctx context.Context, e *entry) (any, error) {
	e.once.Do(func() {
		for _, dep := range e.dependsOn {
			if _, err := r.Get(ctx, dep); err != nil {
				e.err = fmt.Errorf("building dependency %q of %q: %w", dep, e.key, err)
				return
			}
		}
		e.value, e.err = e.build(ctx)
		if e.err != nil {
			e.err = fmt.Errorf("building %q: %w", e.key, e.err)
			return
		}
		r.mu.Lock()
		r.closers = append(r.closers, e.key)
		r.mu.Unlock()
	})
	return e.value, e.err
}

// Has reports whether key is registered, either directly or as an alias.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.exists(key)
}

// IsPrimary reports whether key carries the primary flag.
func (r *Registry) IsPrimary(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[key]; ok {
		return e.primary
	}
	if a, ok := r.aliases[key]; ok {
		return a.primary
	}
	return false
}

// Keys returns all directly registered keys in registration order. Aliases
// are not included; see Aliases.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// Aliases returns a snapshot of alias key to target key mappings.
func (r *Registry) Aliases() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.aliases))
	for k, a := range r.aliases {
		out[k] = a.target
	}
	return out
}

// Len returns the number of direct registrations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Close tears down every successfully built resource that implements
// io.Closer, in reverse build-completion order so dependents are closed
// before their dependencies. Resources that were never built are skipped.
func (r *Registry) Close() error {
	r.mu.Lock()
	built := make([]string, len(r.closers))
	copy(built, r.closers)
	r.closers = nil
	r.mu.Unlock()

	var errs []error
	for i := len(built) - 1; i >= 0; i-- {
		r.mu.RLock()
		e := r.entries[built[i]]
		r.mu.RUnlock()
		if e == nil || e.err != nil {
			continue
		}
		if c, ok := e.value.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing %q: %w", e.key, err))
			}
		}
	}
	return errors.Join(errs...)
}

// exists must be called with at least a read lock held.
func (r *Registry) exists(key string) bool {
	if _, ok := r.entries[key]; ok {
		return true
	}
	_, ok := r.aliases[key]
	return ok
}

// As looks up key and asserts the resource to type T.
func As[T any](ctx context.Context, r *Registry, key string) (T, error) {
	var zero T
	v, err := r.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q holds %T", ErrTypeMismatch, key, v)
	}
	return t, nil
}
