package restructure

import "errors"

// Domain-specific errors for the restructure service.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrEntityUnknown is returned when a registry id is not present in
	// the loaded hierarchy.
	ErrEntityUnknown = errors.New("restructure: entity not in hierarchy")

	// ErrAreaUnknown is returned when an area id is not present in the
	// loaded hierarchy.
	ErrAreaUnknown = errors.New("restructure: area not in hierarchy")

	// ErrDeviceUnknown is returned when a device id is not present in
	// the loaded hierarchy.
	ErrDeviceUnknown = errors.New("restructure: device not in hierarchy")

	// ErrNoBrokenReferences is returned when a fix targets an entity id
	// no scanned document references.
	ErrNoBrokenReferences = errors.New("restructure: no broken references for entity")

	// ErrNameRequired is returned when a rename is requested with an
	// empty name.
	ErrNameRequired = errors.New("restructure: name must not be empty")
)
