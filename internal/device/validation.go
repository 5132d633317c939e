package device

import (
	"fmt"
	"strings"
)

// idSegments is the required number of identifier path segments.
const idSegments = 3

// ValidateID checks a candidate device identifier and returns its
// normalised form: lowercase, underscores replaced with hyphens.
//
// A valid identifier has exactly three slash-separated segments
// (location/kind/instance), each non-empty and containing only
// alphanumerics, hyphens, and underscores. The error names the first
// offending segment.
func ValidateID(id string) (string, error) {
	parts := strings.Split(id, "/")
	if len(parts) != idSegments {
		return "", fmt.Errorf("%w: %q must have exactly %d segments (location/kind/instance)",
			ErrInvalidID, id, idSegments)
	}

	for i, part := range parts {
		if part == "" {
			return "", fmt.Errorf("%w: segment %d of %q is empty", ErrInvalidID, i+1, id)
		}
		for _, r := range part {
			if !isIDRune(r) {
				return "", fmt.Errorf("%w: segment %q contains disallowed character %q",
					ErrInvalidID, part, r)
			}
		}
	}

	normalised := strings.ToLower(id)
	normalised = strings.ReplaceAll(normalised, "_", "-")
	return normalised, nil
}

// isIDRune reports whether a rune is legal inside an identifier segment.
func isIDRune(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '-' || r == '_'
}

// NormaliseRoom converts a room query value to identifier form
// (lowercase, underscores to hyphens) for first-segment matching.
func NormaliseRoom(room string) string {
	return strings.ReplaceAll(strings.ToLower(room), "_", "-")
}

// validateRange checks an inclusive numeric bound, naming the field,
// bound, and offending value on failure.
func validateRange(field string, value, minVal, maxVal int) error {
	if value < minVal || value > maxVal {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d",
			ErrOutOfRange, field, minVal, maxVal, value)
	}
	return nil
}

// ValidatePatch checks a sparse patch against a device kind.
//
// Fields that are nil are ignored. Any populated field that is not legal
// for the kind fails the whole patch with ErrFieldNotAllowed; populated
// numeric fields are bound-checked per the documented inclusive ranges.
// A nil error means every populated field may be merged.
func ValidatePatch(kind Kind, p Patch) error {
	switch kind {
	case KindLight:
		if p.TargetTemp != nil {
			return fmt.Errorf("%w: cannot set targetTemp on a light device", ErrFieldNotAllowed)
		}
		if p.CurrentTemp != nil {
			return fmt.Errorf("%w: cannot set currentTemp on a light device", ErrFieldNotAllowed)
		}
		if p.IsLocked != nil {
			return fmt.Errorf("%w: cannot set isLocked on a light device", ErrFieldNotAllowed)
		}
		if p.Brightness != nil {
			if err := validateRange("brightness", *p.Brightness, MinBrightness, MaxBrightness); err != nil {
				return err
			}
		}

	case KindThermostat:
		if p.Brightness != nil {
			return fmt.Errorf("%w: cannot set brightness on a thermostat device", ErrFieldNotAllowed)
		}
		if p.ColorTemp != nil {
			return fmt.Errorf("%w: cannot set colorTemp on a thermostat device", ErrFieldNotAllowed)
		}
		if p.IsLocked != nil {
			return fmt.Errorf("%w: cannot set isLocked on a thermostat device", ErrFieldNotAllowed)
		}
		if p.TargetTemp != nil {
			if err := validateRange("targetTemp", *p.TargetTemp, MinTargetTemp, MaxTargetTemp); err != nil {
				return err
			}
		}
		if p.CurrentTemp != nil {
			if err := validateRange("currentTemp", *p.CurrentTemp, MinCurrentTemp, MaxCurrentTemp); err != nil {
				return err
			}
		}

	case KindLock:
		if p.Brightness != nil {
			return fmt.Errorf("%w: cannot set brightness on a lock device", ErrFieldNotAllowed)
		}
		if p.ColorTemp != nil {
			return fmt.Errorf("%w: cannot set colorTemp on a lock device", ErrFieldNotAllowed)
		}
		if p.TargetTemp != nil {
			return fmt.Errorf("%w: cannot set targetTemp on a lock device", ErrFieldNotAllowed)
		}
		if p.CurrentTemp != nil {
			return fmt.Errorf("%w: cannot set currentTemp on a lock device", ErrFieldNotAllowed)
		}

	default:
		return fmt.Errorf("%w: unknown kind %q", ErrFieldNotAllowed, kind)
	}

	return nil
}
