package gate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// latchTimePattern matches a 3-digit numeric latch time string.
var latchTimePattern = regexp.MustCompile(`^[0-9]{3}$`)

// GenerateID creates a unique identifier for devices and users.
func GenerateID() string {
	return uuid.NewString()
}

// generateLogID creates a short unique identifier for log entries.
func generateLogID() string {
	return "log-" + uuid.NewString()[:8]
}

// validateNewDevice checks the mandatory creation fields.
func validateNewDevice(d NewDevice) error {
	var missing []string
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(d.UnitNumber) == "" {
		missing = append(missing, "unit number")
	}
	if strings.TrimSpace(d.Password) == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, ", "))
	}

	if d.RelaySettings != nil {
		return validateRelaySettings(*d.RelaySettings)
	}
	return nil
}

// validateRelaySettings checks the relay settings invariants: latch time is
// a 3-character numeric string and access control is one of the enumerated
// values.
func validateRelaySettings(rs RelaySettings) error {
	if !latchTimePattern.MatchString(rs.LatchTime) {
		return fmt.Errorf("%w: latch time %q must be a 3-digit numeric string", ErrValidation, rs.LatchTime)
	}

	switch rs.AccessControl {
	case AccessAuthorizedOnly, AccessAllowAll:
	default:
		return fmt.Errorf("%w: access control %q is not valid", ErrValidation, rs.AccessControl)
	}
	return nil
}

// defaultRelaySettings returns the relay settings applied to new devices
// when none are supplied: authorized-only access, toggle latch.
func defaultRelaySettings() RelaySettings {
	return RelaySettings{
		AccessControl: AccessAuthorizedOnly,
		LatchTime:     LatchToggle,
	}
}

// validateUser checks the mandatory user fields.
func validateUser(name, phone string) error {
	var missing []string
	if strings.TrimSpace(name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}
