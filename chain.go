package dynsource

import (
	"context"
	"fmt"
)

// Set is the bound configuration for one backend integration: a named map of
// database configs plus the name of the primary one.
type Set[C any] struct {
	Primary   string       `yaml:"primary"`
	Databases map[string]C `yaml:"databases"`
}

// BuildFunc constructs one resource of a chain for a single database. It may
// only reach the database's own config, resources of earlier kinds for the
// same database, and process-wide singletons, all through bc.
type BuildFunc[C any] func(ctx context.Context, bc *BuildContext[C]) (any, error)

// Kind describes one stage of a resource chain: the key suffix it registers
// under, the suffixes of earlier stages it depends on, and its builder.
// Exactly one kind per chain carries a non-empty Canonical name; that kind's
// primary-database resource is duplicated under the bare canonical key.
type Kind[C any] struct {
	Suffix    string
	Canonical string
	DependsOn []string
	Build     BuildFunc[C]
}

// KeyFor derives the registry key for a database name. It is a pure
// function: the same name always yields the same key.
func (k Kind[C]) KeyFor(name string) string {
	return name + k.Suffix
}

// Chain is the ordered list of resource kinds registered per database.
type Chain[C any] []Kind[C]

// Validate checks that the chain is well formed: non-empty, unique suffixes,
// every dependency declared by an earlier kind, non-nil builders, and
// exactly one canonical kind.
func (c Chain[C]) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("%w: chain is empty", ErrInvalidChain)
	}

	seen := make(map[string]bool, len(c))
	canonical := 0
	for i, kind := range c {
		if kind.Suffix == "" {
			return fmt.Errorf("%w: kind %d has an empty suffix", ErrInvalidChain, i)
		}
		if seen[kind.Suffix] {
			return fmt.Errorf("%w: duplicate suffix %q", ErrInvalidChain, kind.Suffix)
		}
		if kind.Build == nil {
			return fmt.Errorf("%w: kind %q has a nil builder", ErrInvalidChain, kind.Suffix)
		}
		for _, dep := range kind.DependsOn {
			if !seen[dep] {
				return fmt.Errorf("%w: kind %q depends on %q which is not an earlier kind", ErrInvalidChain, kind.Suffix, dep)
			}
		}
		if kind.Canonical != "" {
			canonical++
		}
		seen[kind.Suffix] = true
	}

	if canonical != 1 {
		return fmt.Errorf("%w: expected exactly one canonical kind, found %d", ErrInvalidChain, canonical)
	}
	return nil
}

// CanonicalKind returns the single kind with a non-empty canonical name.
// Call Validate first; on an invalid chain the result is unspecified.
func (c Chain[C]) CanonicalKind() (Kind[C], bool) {
	for _, kind := range c {
		if kind.Canonical != "" {
			return kind, true
		}
	}
	var zero Kind[C]
	return zero, false
}
