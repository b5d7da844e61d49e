package registry

import "errors"

// Domain errors for the registry package. Callers branch on the
// distinction: a missing document is an expected condition the flows
// tolerate, a failed platform call is an operational problem worth
// surfacing.
var (
	// ErrNotFound is returned when the platform answers but the
	// requested entity or document does not exist.
	ErrNotFound = errors.New("registry: not found")

	// ErrExternalCall is returned when the platform call itself fails:
	// transport errors, auth rejection, non-2xx answers.
	ErrExternalCall = errors.New("registry: external call failed")

	// ErrNotConnected is returned when a command is issued before
	// Connect succeeds or after Close.
	ErrNotConnected = errors.New("registry: not connected")

	// ErrAuthFailed is returned when the platform rejects the access
	// token during the handshake.
	ErrAuthFailed = errors.New("registry: authentication failed")
)
