package channel

import "errors"

// Errors surfaced by the adapter and correlator.
var (
	// ErrRequestTimeout is returned when no correlated response arrives
	// before the request deadline.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrTornDown is returned for requests issued after teardown was
	// acknowledged.
	ErrTornDown = errors.New("channel torn down")

	// ErrDuplicateID is returned when a pending entry already exists for
	// an id. Ids are never reused within a session, so this indicates a
	// programming error.
	ErrDuplicateID = errors.New("duplicate request id")
)
