package command

import (
	"context"

	"github.com/calloway/gatelink-core/internal/gate"
)

// MetricsRecorder receives a measurement for every classified command.
// Implemented by the InfluxDB client; optional.
type MetricsRecorder interface {
	WriteCommandAudit(deviceID, action, category string, success bool)
}

// AuditLogger turns outbound command strings into classified, redacted log
// entries appended through the repository.
type AuditLogger struct {
	repo    *gate.Repository
	metrics MetricsRecorder
}

// NewAuditLogger creates an audit logger over the repository.
func NewAuditLogger(repo *gate.Repository) *AuditLogger {
	return &AuditLogger{repo: repo}
}

// SetMetrics attaches an optional measurement sink.
func (a *AuditLogger) SetMetrics(m MetricsRecorder) {
	a.metrics = m
}

// LogCommand classifies and redacts the raw command and appends the
// resulting entry to the device's audit trail.
// Returns gate.ErrDeviceNotFound for an unknown device ID.
func (a *AuditLogger) LogCommand(ctx context.Context, deviceID, raw string, success bool) (*gate.LogEntry, error) {
	cls := Classify(raw)

	entry, err := a.repo.AddLogEntry(ctx, deviceID, cls.Action, cls.Details, success, cls.Category)
	if err != nil {
		return nil, err
	}

	if a.metrics != nil {
		a.metrics.WriteCommandAudit(deviceID, cls.Action, string(cls.Category), success)
	}

	return entry, nil
}
