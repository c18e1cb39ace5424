package gate

import "time"

// Device represents a controllable gate/relay unit reached over a
// text-command protocol.
type Device struct {
	// Identity
	ID   string `json:"id"`
	Name string `json:"name"`

	// UnitNumber is the destination address commands are delivered to.
	UnitNumber string `json:"unit_number"`

	// Password is the unit's shared secret. It is protocol-significant:
	// every outbound command is prefixed with it.
	Password string `json:"password"`

	// Type is the device family tag (e.g. "rtu5024").
	Type string `json:"type"`

	// AuthorizedUsers holds the IDs of users allowed to operate this unit.
	AuthorizedUsers []string `json:"authorized_users"`

	RelaySettings RelaySettings `json:"relay_settings"`

	IsActive bool `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasAuthorizedUser reports whether the given user ID is in the device's
// authorized set.
func (d *Device) HasAuthorizedUser(userID string) bool {
	for _, id := range d.AuthorizedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// Copy returns an independent copy of the Device.
// The AuthorizedUsers slice is cloned so modifications to the copy do not
// affect the original. This is essential for cache isolation.
func (d *Device) Copy() *Device {
	cpy := *d
	if d.AuthorizedUsers != nil {
		cpy.AuthorizedUsers = make([]string, len(d.AuthorizedUsers))
		copy(cpy.AuthorizedUsers, d.AuthorizedUsers)
	}
	return &cpy
}

// RelaySettings holds the relay behaviour of a device.
type RelaySettings struct {
	AccessControl AccessControl `json:"access_control"`

	// LatchTime is a 3-digit numeric string giving the relay close time in
	// seconds. "000" means toggle mode (relay stays until the next command).
	LatchTime string `json:"latch_time"`
}

// AccessControl represents who may trigger the relay.
type AccessControl string

// AccessControl constants.
const (
	AccessAuthorizedOnly AccessControl = "authorized_only"
	AccessAllowAll       AccessControl = "allow_all"
)

// AllAccessControls returns all valid access control values.
func AllAccessControls() []AccessControl {
	return []AccessControl{AccessAuthorizedOnly, AccessAllowAll}
}

// LatchToggle is the latch time value meaning toggle mode.
const LatchToggle = "000"

// User is a phone number authorized to operate one or more devices.
// Users are referenced, not owned, by Device.AuthorizedUsers.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// LogEntry is an immutable audit record. Entries are append-only and
// ordered by creation time per device.
type LogEntry struct {
	ID        string      `json:"id"`
	DeviceID  string      `json:"device_id"`
	Timestamp time.Time   `json:"timestamp"`
	Action    string      `json:"action"`
	Details   string      `json:"details"`
	Success   bool        `json:"success"`
	Category  LogCategory `json:"category"`
}

// LogCategory classifies an audit entry.
type LogCategory string

// LogCategory constants.
const (
	CategoryRelay    LogCategory = "relay"
	CategorySettings LogCategory = "settings"
	CategoryUser     LogCategory = "user"
	CategorySystem   LogCategory = "system"
)

// AllLogCategories returns all valid log categories.
func AllLogCategories() []LogCategory {
	return []LogCategory{CategoryRelay, CategorySettings, CategoryUser, CategorySystem}
}

// Settings is the process-wide singleton record. It is created once at
// first initialisation and thereafter only updated, never deleted.
type Settings struct {
	// AdminNumber is the phone number registered as administrator on
	// the units.
	AdminNumber string `json:"admin_number"`

	// ActiveDeviceID references the currently selected device, or nil.
	// It always names an existing device.
	ActiveDeviceID *string `json:"active_device_id"`

	// CompletedSteps records finished setup-workflow stages.
	CompletedSteps []string `json:"completed_steps"`
}

// Copy returns an independent copy of the Settings.
func (s *Settings) Copy() *Settings {
	cpy := *s
	if s.ActiveDeviceID != nil {
		id := *s.ActiveDeviceID
		cpy.ActiveDeviceID = &id
	}
	if s.CompletedSteps != nil {
		cpy.CompletedSteps = make([]string, len(s.CompletedSteps))
		copy(cpy.CompletedSteps, s.CompletedSteps)
	}
	return &cpy
}

// NewDevice carries the fields required to create a device.
// Name, UnitNumber and Password are mandatory.
type NewDevice struct {
	Name       string
	UnitNumber string
	Password   string
	Type       string

	// RelaySettings defaults to authorized-only access with toggle latch
	// when nil.
	RelaySettings *RelaySettings

	IsActive bool
}

// DevicePatch carries a partial device update. Nil fields are left
// unchanged.
type DevicePatch struct {
	Name          *string
	UnitNumber    *string
	Password      *string
	Type          *string
	RelaySettings *RelaySettings
	IsActive      *bool
}

// UserPatch carries a partial user update. Nil fields are left unchanged.
type UserPatch struct {
	Name  *string
	Phone *string
}

// SettingsPatch carries a partial settings update. Nil fields are left
// unchanged. The active device reference is managed separately through
// Repository.SetActiveDevice so it can be validated against existing
// devices.
type SettingsPatch struct {
	AdminNumber    *string
	CompletedSteps *[]string
}
