package caso

import "errors"

// Domain errors for the caso package.
var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("caso: not found")

	// ErrInvalidBody is returned when a request body is not a JSON object.
	ErrInvalidBody = errors.New("caso: invalid JSON body")
)
