package mongo

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig    = errors.New("invalid mongo configuration")
	ErrConnectionFailed = errors.New("failed to connect to mongo")
)

func NewInvalidConfigError(field string) error {
	return fmt.Errorf("%w: invalid %s", ErrInvalidConfig, field)
}

func NewConnectionFailedError(err error) error {
	return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
}

func NewInsertFailedError(collection string, err error) error {
	return fmt.Errorf("failed to insert into collection '%s': %w", collection, err)
}

func NewFindFailedError(collection string, err error) error {
	return fmt.Errorf("failed to query collection '%s': %w", collection, err)
}

func NewUpdateFailedError(collection string, err error) error {
	return fmt.Errorf("failed to update collection '%s': %w", collection, err)
}

func NewDeleteFailedError(collection string, err error) error {
	return fmt.Errorf("failed to delete from collection '%s': %w", collection, err)
}
