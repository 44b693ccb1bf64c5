package backends

import "context"

// Pinger is implemented by resources that can verify connectivity to their
// backing store. Templates and connection factories produced by the shipped
// chains all implement it; the health checker monitors anything that does.
type Pinger interface {
	// Ping verifies the resource can reach its backend.
	Ping(ctx context.Context) error
}
