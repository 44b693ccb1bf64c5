package postgres

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig    = errors.New("invalid postgres configuration")
	ErrConnectionFailed = errors.New("failed to connect to postgres")
)

func NewInvalidConfigError(field string) error {
	return fmt.Errorf("%w: invalid %s", ErrInvalidConfig, field)
}

func NewParseConfigError(err error) error {
	return fmt.Errorf("failed to parse connection string: %w", err)
}

func NewPoolCreateError(err error) error {
	return fmt.Errorf("failed to create connection pool: %w", err)
}

func NewConnectionFailedError(err error) error {
	return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
}
