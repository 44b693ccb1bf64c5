package backends

import (
	"errors"
	"fmt"
)

// ErrUnhealthy is a sentinel used to signal that the backend is unhealthy/unavailable.
var ErrUnhealthy = errors.New("backend unhealthy")

// HealthError wraps an underlying cause with operation context.
// Use for connectivity/auth/TLS/unavailability issues.
type HealthError struct {
	Op    string // logical operation context, e.g. "redis:Ping", "mongo:Connect"
	Cause error  // underlying error returned by driver/client
}

// Error returns a formatted error message that includes the operation context
// and underlying cause. If Op is empty, only the sentinel and cause appear.
func (e *HealthError) Error() string {
	if e == nil {
		return ErrUnhealthy.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %v", ErrUnhealthy, e.Op, e.Cause)
	}
	return fmt.Sprintf("%s: %v", ErrUnhealthy, e.Cause)
}

// Unwrap returns the underlying cause error, enabling error chaining with errors.Unwrap.
func (e *HealthError) Unwrap() error { return e.Cause }

// Is implements errors.Is to allow matching against ErrUnhealthy sentinel.
func (e *HealthError) Is(target error) bool {
	return target == ErrUnhealthy
}

// NewHealthError wraps a cause as a health error with context.
// If cause is nil, the sentinel ErrUnhealthy is returned.
func NewHealthError(op string, cause error) error {
	if cause == nil {
		return ErrUnhealthy
	}
	return &HealthError{Op: op, Cause: cause}
}

// IsHealthError reports whether err indicates the backend is unhealthy.
func IsHealthError(err error) bool {
	return errors.Is(err, ErrUnhealthy)
}
