package gate

// Storage key scheme. Devices and users are stored as single JSON arrays,
// settings as a JSON object, and each device's log as its own array so it
// can be appended and cleared independently.
const (
	// DevicesKey holds the JSON array of devices. It is also the legacy
	// key a bare-array backup is restored under.
	DevicesKey = "gatelink.devices"

	// UsersKey holds the JSON array of users.
	UsersKey = "gatelink.users"

	// SettingsKey holds the singleton settings object.
	SettingsKey = "gatelink.settings"

	// LogKeyPrefix prefixes per-device log arrays.
	LogKeyPrefix = "gatelink.logs."
)

// LogKey returns the storage key for a device's log entries.
func LogKey(deviceID string) string {
	return LogKeyPrefix + deviceID
}
