package typemap

import "errors"

// Domain errors for the typemap package.
var (
	// ErrMappingNotFound is returned when no user mapping exists for a
	// type key.
	ErrMappingNotFound = errors.New("typemap: mapping not found")
)
