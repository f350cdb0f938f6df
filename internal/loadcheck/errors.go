package loadcheck

import "errors"

// Sentinel kinds for loadcheck errors.
var (
	// ErrVerification means a response broke one of the report invariants.
	ErrVerification = errors.New("verification failed")
	// ErrUnhealthy means the service did not answer its health check.
	ErrUnhealthy = errors.New("service unhealthy")
)
