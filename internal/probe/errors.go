package probe

import "errors"

var (
	// ErrUnhealthy means the service did not answer its health check.
	ErrUnhealthy = errors.New("service unhealthy")
	// ErrInvariantViolated means at least one response broke an invariant.
	ErrInvariantViolated = errors.New("invariant violated")
)
