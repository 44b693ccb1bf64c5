package dynsource

import (
	"fmt"
	"sync"
)

// SingletonTLS is the conventional name for a process-wide *tls.Config
// provider used by backends with TLS enabled.
const SingletonTLS = "tls.config"

type singletonCell struct {
	provide func() (any, error)
	once    sync.Once
	value   any
	err     error
}

// Singletons is a named set of process-wide values resolved lazily and at
// most once. Providers are registered up front; nothing is invoked until a
// builder asks for the value.
type Singletons struct {
	mu    sync.RWMutex
	cells map[string]*singletonCell
}

// NewSingletons creates an empty singleton set.
func NewSingletons() *Singletons {
	return &Singletons{cells: make(map[string]*singletonCell)}
}

// Provide registers a provider under name, replacing any existing provider
// that has not been resolved yet.
func (s *Singletons) Provide(name string, provide func() (any, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cells[name] = &singletonCell{provide: provide}
}

// Get resolves the singleton named name, invoking its provider on first use.
// Both the value and any provider error are cached.
func (s *Singletons) Get(name string) (any, error) {
	s.mu.RLock()
	cell, ok := s.cells[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSingleton, name)
	}

	cell.once.Do(func() {
		cell.value, cell.err = cell.provide()
	})
	return cell.value, cell.err
}

// Has reports whether a provider is registered under name.
func (s *Singletons) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.cells[name]
	return ok
}
