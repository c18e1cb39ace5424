package gate

import "errors"

// Domain errors for the gate package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, gate.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrValidation is returned when required fields are missing or
	// malformed on create or update.
	ErrValidation = errors.New("gate: validation failed")

	// ErrDeviceNotFound is returned when a device ID does not exist.
	ErrDeviceNotFound = errors.New("gate: device not found")

	// ErrUserNotFound is returned when a user ID does not exist.
	ErrUserNotFound = errors.New("gate: user not found")
)
