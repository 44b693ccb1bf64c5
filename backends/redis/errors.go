package redis

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidConfig     = errors.New("invalid redis configuration")
	ErrUnknownSerializer = errors.New("unknown serializer")
	ErrConnectionFailed  = errors.New("failed to connect to redis")

	// Serializer errors
	ErrUnsupportedValue = errors.New("unsupported value type for serializer")
	ErrUnsupportedDest  = errors.New("unsupported destination type for serializer")
)

// Configuration error functions
func NewInvalidConfigError(field string) error {
	return fmt.Errorf("%w: invalid %s", ErrInvalidConfig, field)
}

func NewConnectionFailedError(target string, err error) error {
	return fmt.Errorf("failed to connect to redis at %s: %w", target, err)
}

// Operation error functions
func NewGetFailedError(key string, err error) error {
	return fmt.Errorf("failed to get key '%s': %w", key, err)
}

func NewSetFailedError(key string, err error) error {
	return fmt.Errorf("failed to set key '%s': %w", key, err)
}

func NewDeleteFailedError(key string, err error) error {
	return fmt.Errorf("failed to delete key '%s': %w", key, err)
}

func NewScanFailedError(pattern string, err error) error {
	return fmt.Errorf("failed to scan pattern '%s': %w", pattern, err)
}
