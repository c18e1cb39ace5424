// Package gate is the system of record for Gatelink Core.
//
// It owns four entity kinds over the key-value store:
//
//   - Device: a gate/relay unit addressed by unit number, carrying the
//     shared-secret password and relay settings
//   - User: a phone number authorized to operate devices (referenced, not
//     owned, by Device.AuthorizedUsers)
//   - LogEntry: immutable, append-only audit records per device
//   - Settings: the process-wide singleton (admin number, active device,
//     completed setup steps)
//
// Referential invariants:
//
//   - Device and User IDs are unique
//   - Settings.ActiveDeviceID is nil or names an existing device
//   - deleting a User removes its ID from every device's authorized set
//   - deleting a Device removes its log entries and clears the active
//     reference if it pointed at the device
//
// Cascading deletes are best-effort: each sub-step is attempted
// independently and failures after the primary removal are logged rather
// than returned. There is no multi-key atomicity; an interruption between
// sub-steps leaves partial state by design.
package gate
