package dynsource

import "errors"

var (
	// ErrDuplicateKey is returned when registering a key that already exists.
	ErrDuplicateKey = errors.New("duplicate registry key")

	// ErrUnknownKey is returned when looking up a key that was never registered.
	ErrUnknownKey = errors.New("unknown registry key")

	// ErrUnknownDependency is returned when a registration declares a
	// dependency on a key that has not been registered yet.
	ErrUnknownDependency = errors.New("dependency not registered")

	// ErrUndeclaredDependency is returned when a builder looks up a resource
	// it did not declare in its kind's DependsOn list.
	ErrUndeclaredDependency = errors.New("dependency not declared by resource kind")

	// ErrTypeMismatch is returned by As when the stored resource has a
	// different concrete type than requested.
	ErrTypeMismatch = errors.New("resource type mismatch")

	// ErrBlankPrimary is returned when the configured primary database name
	// is empty or whitespace.
	ErrBlankPrimary = errors.New("primary database name cannot be blank")

	// ErrPrimaryNotFound is returned when the primary database name does not
	// match any configured database.
	ErrPrimaryNotFound = errors.New("primary database not found")

	// ErrUnknownSingleton is returned when a builder requests a process-wide
	// singleton that no provider was registered for.
	ErrUnknownSingleton = errors.New("unknown singleton")

	// ErrInvalidChain is returned when a resource chain fails validation.
	ErrInvalidChain = errors.New("invalid resource chain")
)
