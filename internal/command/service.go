package command

import (
	"context"
	"fmt"

	"github.com/calloway/gatelink-core/internal/gate"
)

// Sender is the external delivery contract: it accepts a destination
// address and a literal command body. Delivery itself (SMS, serial, test
// double) happens outside this process; the MQTT outbox adapter is the
// production implementation.
type Sender interface {
	Send(ctx context.Context, unitNumber, body string) error
}

// Service pairs command hand-off with audit logging: every command given
// to the sender is also classified and appended to the device's trail,
// with success reflecting the hand-off result.
type Service struct {
	repo   *gate.Repository
	sender Sender
	audit  *AuditLogger
}

// NewService creates a command service.
func NewService(repo *gate.Repository, sender Sender, audit *AuditLogger) *Service {
	return &Service{repo: repo, sender: sender, audit: audit}
}

// Send hands the raw command to the sender for the device's unit number
// and records the audit entry. The hand-off error, if any, is returned
// after the entry is written with success=false.
func (s *Service) Send(ctx context.Context, deviceID, raw string) error {
	device, err := s.repo.DeviceByID(ctx, deviceID)
	if err != nil {
		return err
	}

	sendErr := s.sender.Send(ctx, device.UnitNumber, raw)

	if _, logErr := s.audit.LogCommand(ctx, deviceID, raw, sendErr == nil); logErr != nil {
		if sendErr != nil {
			return fmt.Errorf("sending command: %w (audit log also failed: %v)", sendErr, logErr)
		}
		return fmt.Errorf("logging command: %w", logErr)
	}

	if sendErr != nil {
		return fmt.Errorf("sending command: %w", sendErr)
	}
	return nil
}
