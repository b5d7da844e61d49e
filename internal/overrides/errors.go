package overrides

import "errors"

// Domain errors for the overrides package.
var (
	// ErrOverrideNotFound is returned when no override exists for a
	// registry ID.
	ErrOverrideNotFound = errors.New("overrides: not found")
)
