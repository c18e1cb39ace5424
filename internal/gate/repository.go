package gate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/calloway/gatelink-core/internal/infrastructure/storage"
)

// Logger defines the logging interface used by the Repository.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Repository is the system of record for devices, users, log entries and
// the settings singleton. It enforces referential invariants and performs
// cascading cleanup on deletes.
//
// Construct one Repository at process start and pass it by reference to
// all consumers. Multi-key operations (cascades, restore) are sequences of
// independent store writes; an interruption between them leaves partial
// state, which is an accepted failure mode.
type Repository struct {
	store  storage.Store
	logger Logger
}

// NewRepository creates a repository over the given store.
func NewRepository(store storage.Store) *Repository {
	return &Repository{
		store:  store,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the repository.
func (r *Repository) SetLogger(logger Logger) {
	r.logger = logger
}

// ---- devices ----

// Devices returns all devices.
func (r *Repository) Devices(ctx context.Context) ([]Device, error) {
	return r.loadDevices(ctx)
}

// DeviceByID retrieves a device by its unique identifier.
// Returns ErrDeviceNotFound if the device does not exist.
func (r *Repository) DeviceByID(ctx context.Context, id string) (*Device, error) {
	devices, err := r.loadDevices(ctx)
	if err != nil {
		return nil, err
	}
	for i := range devices {
		if devices[i].ID == id {
			return devices[i].Copy(), nil
		}
	}
	return nil, ErrDeviceNotFound
}

// AddDevice validates the creation fields, assigns a fresh ID and
// timestamps, persists and returns the new device.
// Returns ErrValidation when name, unit number or password is missing.
func (r *Repository) AddDevice(ctx context.Context, nd NewDevice) (*Device, error) {
	if err := validateNewDevice(nd); err != nil {
		return nil, err
	}

	rs := defaultRelaySettings()
	if nd.RelaySettings != nil {
		rs = *nd.RelaySettings
	}

	now := time.Now().UTC()
	device := Device{
		ID:              GenerateID(),
		Name:            nd.Name,
		UnitNumber:      nd.UnitNumber,
		Password:        nd.Password,
		Type:            nd.Type,
		AuthorizedUsers: []string{},
		RelaySettings:   rs,
		IsActive:        nd.IsActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	devices, err := r.loadDevices(ctx)
	if err != nil {
		return nil, err
	}
	devices = append(devices, device)
	if err := r.saveDevices(ctx, devices); err != nil {
		return nil, err
	}

	r.logger.Info("device added", "id", device.ID, "name", device.Name)
	return device.Copy(), nil
}

// UpdateDevice merges the patch over the existing record, bumps UpdatedAt,
// persists and returns the updated device.
// Returns ErrDeviceNotFound if the ID is unknown.
func (r *Repository) UpdateDevice(ctx context.Context, id string, patch DevicePatch) (*Device, error) {
	if patch.RelaySettings != nil {
		if err := validateRelaySettings(*patch.RelaySettings); err != nil {
			return nil, err
		}
	}

	devices, err := r.loadDevices(ctx)
	if err != nil {
		return nil, err
	}

	idx := deviceIndex(devices, id)
	if idx < 0 {
		return nil, ErrDeviceNotFound
	}

	d := &devices[idx]
	if patch.Name != nil {
		d.Name = *patch.Name
	}
	if patch.UnitNumber != nil {
		d.UnitNumber = *patch.UnitNumber
	}
	if patch.Password != nil {
		d.Password = *patch.Password
	}
	if patch.Type != nil {
		d.Type = *patch.Type
	}
	if patch.RelaySettings != nil {
		d.RelaySettings = *patch.RelaySettings
	}
	if patch.IsActive != nil {
		d.IsActive = *patch.IsActive
	}
	d.UpdatedAt = time.Now().UTC()

	if err := r.saveDevices(ctx, devices); err != nil {
		return nil, err
	}

	r.logger.Info("device updated", "id", id)
	return d.Copy(), nil
}

// DeleteDevice removes the device record, then best-effort removes its log
// entries and clears the active-device reference if it pointed at the
// device. Sub-step failures after the primary removal are logged, not
// returned; the return value reports only whether the primary removal
// succeeded. Deleting an unknown ID is a no-op that reports success.
func (r *Repository) DeleteDevice(ctx context.Context, id string) (bool, error) {
	devices, err := r.loadDevices(ctx)
	if err != nil {
		return false, err
	}

	idx := deviceIndex(devices, id)
	if idx >= 0 {
		devices = append(devices[:idx], devices[idx+1:]...)
		if err := r.saveDevices(ctx, devices); err != nil {
			return false, err
		}
	}

	// Cascade: each sub-step is attempted independently. A failure here
	// does not roll back the primary removal.
	if err := r.store.MultiRemove(ctx, []string{LogKey(id)}); err != nil {
		r.logger.Warn("device delete: clearing logs failed", "id", id, "error", err)
	}

	settings, err := r.loadSettings(ctx)
	if err != nil {
		r.logger.Warn("device delete: loading settings failed", "id", id, "error", err)
	} else if settings.ActiveDeviceID != nil && *settings.ActiveDeviceID == id {
		settings.ActiveDeviceID = nil
		if err := r.saveSettings(ctx, settings); err != nil {
			r.logger.Warn("device delete: clearing active device failed", "id", id, "error", err)
		}
	}

	r.logger.Info("device deleted", "id", id)
	return true, nil
}

// AuthorizeUser idempotently adds the user to the device's authorized set.
// Returns ErrDeviceNotFound or ErrUserNotFound if either ID is unknown.
func (r *Repository) AuthorizeUser(ctx context.Context, deviceID, userID string) error {
	if _, err := r.UserByID(ctx, userID); err != nil {
		return err
	}

	devices, err := r.loadDevices(ctx)
	if err != nil {
		return err
	}
	idx := deviceIndex(devices, deviceID)
	if idx < 0 {
		return ErrDeviceNotFound
	}

	d := &devices[idx]
	if d.HasAuthorizedUser(userID) {
		return nil
	}
	d.AuthorizedUsers = append(d.AuthorizedUsers, userID)
	d.UpdatedAt = time.Now().UTC()

	if err := r.saveDevices(ctx, devices); err != nil {
		return err
	}
	r.logger.Debug("user authorized", "device_id", deviceID, "user_id", userID)
	return nil
}

// DeauthorizeUser idempotently removes the user from the device's
// authorized set.
// Returns ErrDeviceNotFound or ErrUserNotFound if either ID is unknown.
func (r *Repository) DeauthorizeUser(ctx context.Context, deviceID, userID string) error {
	if _, err := r.UserByID(ctx, userID); err != nil {
		return err
	}

	devices, err := r.loadDevices(ctx)
	if err != nil {
		return err
	}
	idx := deviceIndex(devices, deviceID)
	if idx < 0 {
		return ErrDeviceNotFound
	}

	d := &devices[idx]
	if !d.HasAuthorizedUser(userID) {
		return nil
	}
	d.AuthorizedUsers = removeString(d.AuthorizedUsers, userID)
	d.UpdatedAt = time.Now().UTC()

	if err := r.saveDevices(ctx, devices); err != nil {
		return err
	}
	r.logger.Debug("user deauthorized", "device_id", deviceID, "user_id", userID)
	return nil
}

// ---- users ----

// Users returns all users.
func (r *Repository) Users(ctx context.Context) ([]User, error) {
	return r.loadUsers(ctx)
}

// UserByID retrieves a user by ID.
// Returns ErrUserNotFound if the user does not exist.
func (r *Repository) UserByID(ctx context.Context, id string) (*User, error) {
	users, err := r.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// AddUser validates, assigns a fresh ID, persists and returns the new user.
func (r *Repository) AddUser(ctx context.Context, name, phone string) (*User, error) {
	if err := validateUser(name, phone); err != nil {
		return nil, err
	}

	user := User{
		ID:    GenerateID(),
		Name:  name,
		Phone: phone,
	}

	users, err := r.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	users = append(users, user)
	if err := r.saveUsers(ctx, users); err != nil {
		return nil, err
	}

	r.logger.Info("user added", "id", user.ID, "name", user.Name)
	u := user
	return &u, nil
}

// UpdateUser merges the patch over the existing record, persists and
// returns the updated user.
// Returns ErrUserNotFound if the ID is unknown.
func (r *Repository) UpdateUser(ctx context.Context, id string, patch UserPatch) (*User, error) {
	users, err := r.loadUsers(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range users {
		if users[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrUserNotFound
	}

	u := &users[idx]
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}

	if err := r.saveUsers(ctx, users); err != nil {
		return nil, err
	}

	r.logger.Info("user updated", "id", id)
	out := *u
	return &out, nil
}

// DeleteUser removes the user record, then best-effort removes its ID from
// every device's authorized set. A failure while rewriting the device list
// is logged, not returned. Deleting an unknown ID is a no-op that reports
// success.
func (r *Repository) DeleteUser(ctx context.Context, id string) (bool, error) {
	users, err := r.loadUsers(ctx)
	if err != nil {
		return false, err
	}

	idx := -1
	for i := range users {
		if users[i].ID == id {
			idx = i
			break
		}
	}
	if idx >= 0 {
		users = append(users[:idx], users[idx+1:]...)
		if err := r.saveUsers(ctx, users); err != nil {
			return false, err
		}
	}

	// Cascade: drop the reference from every device that carried it.
	devices, err := r.loadDevices(ctx)
	if err != nil {
		r.logger.Warn("user delete: loading devices failed", "id", id, "error", err)
		return true, nil
	}

	changed := false
	for i := range devices {
		if devices[i].HasAuthorizedUser(id) {
			devices[i].AuthorizedUsers = removeString(devices[i].AuthorizedUsers, id)
			devices[i].UpdatedAt = time.Now().UTC()
			changed = true
		}
	}
	if changed {
		if err := r.saveDevices(ctx, devices); err != nil {
			r.logger.Warn("user delete: updating devices failed", "id", id, "error", err)
		}
	}

	r.logger.Info("user deleted", "id", id)
	return true, nil
}

// ---- log entries ----

// AddLogEntry appends an immutable log entry for the device.
// Returns ErrDeviceNotFound if the device ID is unknown: orphaned entries
// are rejected rather than recorded.
func (r *Repository) AddLogEntry(ctx context.Context, deviceID, action, details string, success bool, category LogCategory) (*LogEntry, error) {
	if _, err := r.DeviceByID(ctx, deviceID); err != nil {
		return nil, err
	}

	entry := LogEntry{
		ID:        generateLogID(),
		DeviceID:  deviceID,
		Timestamp: time.Now().UTC(),
		Action:    action,
		Details:   details,
		Success:   success,
		Category:  category,
	}

	logs, err := r.loadLogs(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	logs = append(logs, entry)
	if err := r.saveLogs(ctx, deviceID, logs); err != nil {
		return nil, err
	}

	r.logger.Debug("log entry appended", "device_id", deviceID, "action", action)
	out := entry
	return &out, nil
}

// LogsForDevice returns the device's log entries in creation order.
// An unknown device yields an empty slice.
func (r *Repository) LogsForDevice(ctx context.Context, deviceID string) ([]LogEntry, error) {
	return r.loadLogs(ctx, deviceID)
}

// ClearLogsForDevice removes all log entries for the device.
// Reports success even when no entries existed.
func (r *Repository) ClearLogsForDevice(ctx context.Context, deviceID string) (bool, error) {
	if err := r.store.MultiRemove(ctx, []string{LogKey(deviceID)}); err != nil {
		return false, err
	}
	r.logger.Info("logs cleared", "device_id", deviceID)
	return true, nil
}

// ---- settings ----

// Settings returns the singleton settings record, creating it with
// defaults if it does not yet exist.
func (r *Repository) Settings(ctx context.Context) (*Settings, error) {
	s, err := r.loadSettings(ctx)
	if err != nil {
		return nil, err
	}
	return s.Copy(), nil
}

// EnsureSettings creates the settings singleton with defaults if absent.
// Called once at process start.
func (r *Repository) EnsureSettings(ctx context.Context) error {
	_, err := r.store.Get(ctx, SettingsKey)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrKeyNotFound) {
		return err
	}
	return r.saveSettings(ctx, &Settings{CompletedSteps: []string{}})
}

// UpdateSettings merges the patch into the singleton settings record and
// returns the result.
func (r *Repository) UpdateSettings(ctx context.Context, patch SettingsPatch) (*Settings, error) {
	settings, err := r.loadSettings(ctx)
	if err != nil {
		return nil, err
	}

	if patch.AdminNumber != nil {
		settings.AdminNumber = *patch.AdminNumber
	}
	if patch.CompletedSteps != nil {
		settings.CompletedSteps = *patch.CompletedSteps
	}

	if err := r.saveSettings(ctx, settings); err != nil {
		return nil, err
	}
	r.logger.Info("settings updated")
	return settings.Copy(), nil
}

// SetActiveDevice points the settings at the given device, or clears the
// reference when id is empty.
// Returns ErrDeviceNotFound for an unknown non-empty ID, keeping the
// invariant that the active device always exists.
func (r *Repository) SetActiveDevice(ctx context.Context, id string) error {
	settings, err := r.loadSettings(ctx)
	if err != nil {
		return err
	}

	if id == "" {
		settings.ActiveDeviceID = nil
	} else {
		if _, err := r.DeviceByID(ctx, id); err != nil {
			return err
		}
		settings.ActiveDeviceID = &id
	}

	if err := r.saveSettings(ctx, settings); err != nil {
		return err
	}
	r.logger.Info("active device set", "id", id)
	return nil
}

// ---- persistence helpers ----

func (r *Repository) loadDevices(ctx context.Context) ([]Device, error) {
	raw, err := r.store.Get(ctx, DevicesKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return []Device{}, nil
		}
		return nil, err
	}

	var devices []Device
	if err := json.Unmarshal([]byte(raw), &devices); err != nil {
		return nil, fmt.Errorf("unmarshalling devices: %w", err)
	}
	return devices, nil
}

func (r *Repository) saveDevices(ctx context.Context, devices []Device) error {
	data, err := json.Marshal(devices)
	if err != nil {
		return fmt.Errorf("marshalling devices: %w", err)
	}
	return r.store.Set(ctx, DevicesKey, string(data))
}

func (r *Repository) loadUsers(ctx context.Context) ([]User, error) {
	raw, err := r.store.Get(ctx, UsersKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return []User{}, nil
		}
		return nil, err
	}

	var users []User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, fmt.Errorf("unmarshalling users: %w", err)
	}
	return users, nil
}

func (r *Repository) saveUsers(ctx context.Context, users []User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("marshalling users: %w", err)
	}
	return r.store.Set(ctx, UsersKey, string(data))
}

func (r *Repository) loadLogs(ctx context.Context, deviceID string) ([]LogEntry, error) {
	raw, err := r.store.Get(ctx, LogKey(deviceID))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return []LogEntry{}, nil
		}
		return nil, err
	}

	var logs []LogEntry
	if err := json.Unmarshal([]byte(raw), &logs); err != nil {
		return nil, fmt.Errorf("unmarshalling logs for %s: %w", deviceID, err)
	}
	return logs, nil
}

func (r *Repository) saveLogs(ctx context.Context, deviceID string, logs []LogEntry) error {
	data, err := json.Marshal(logs)
	if err != nil {
		return fmt.Errorf("marshalling logs for %s: %w", deviceID, err)
	}
	return r.store.Set(ctx, LogKey(deviceID), string(data))
}

func (r *Repository) loadSettings(ctx context.Context) (*Settings, error) {
	raw, err := r.store.Get(ctx, SettingsKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return &Settings{CompletedSteps: []string{}}, nil
		}
		return nil, err
	}

	var settings Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, fmt.Errorf("unmarshalling settings: %w", err)
	}
	return &settings, nil
}

func (r *Repository) saveSettings(ctx context.Context, settings *Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}
	return r.store.Set(ctx, SettingsKey, string(data))
}

func deviceIndex(devices []Device, id string) int {
	for i := range devices {
		if devices[i].ID == id {
			return i
		}
	}
	return -1
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
