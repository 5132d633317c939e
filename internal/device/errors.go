package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNotFound is returned when a device identifier does not exist.
	ErrNotFound = errors.New("device: not found")

	// ErrExists is returned when seeding a device whose identifier is
	// already registered.
	ErrExists = errors.New("device: already exists")

	// ErrInvalidID is returned when an identifier is not a valid
	// three-segment location/kind/instance path.
	ErrInvalidID = errors.New("device: invalid identifier")

	// ErrFieldNotAllowed is returned when a patch contains a field that
	// is not legal for the device's kind.
	ErrFieldNotAllowed = errors.New("device: field not allowed for kind")

	// ErrOutOfRange is returned when a numeric patch field violates its
	// inclusive bounds.
	ErrOutOfRange = errors.New("device: value out of range")
)

// IsValidationError reports whether an error belongs to the validation
// class (malformed identifier, illegal field for kind, bound violation).
// Callers use this to distinguish 4xx rejections from infrastructure
// failures.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrFieldNotAllowed) ||
		errors.Is(err, ErrOutOfRange)
}
