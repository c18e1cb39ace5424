package command

import (
	"context"
	"errors"
	"testing"

	"github.com/calloway/gatelink-core/internal/gate"
)

// fakeSender captures outbound hand-offs and can be made to fail.
type fakeSender struct {
	sentTo   []string
	sentBody []string
	err      error
}

func (f *fakeSender) Send(_ context.Context, unitNumber, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sentTo = append(f.sentTo, unitNumber)
	f.sentBody = append(f.sentBody, body)
	return nil
}

func TestService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("hands command to sender and logs success", func(t *testing.T) {
		repo, device := newTestRepo(t)
		sender := &fakeSender{}
		svc := NewService(repo, sender, NewAuditLogger(repo))

		if err := svc.Send(ctx, device.ID, "1234CC#"); err != nil {
			t.Fatalf("Send() error = %v", err)
		}

		if len(sender.sentTo) != 1 || sender.sentTo[0] != device.UnitNumber {
			t.Errorf("sentTo = %v, want [%q]", sender.sentTo, device.UnitNumber)
		}
		if sender.sentBody[0] != "1234CC#" {
			t.Errorf("sentBody = %q, want raw command", sender.sentBody[0])
		}

		logs, err := repo.LogsForDevice(ctx, device.ID)
		if err != nil {
			t.Fatalf("LogsForDevice() error = %v", err)
		}
		if len(logs) != 1 {
			t.Fatalf("len(logs) = %d, want 1", len(logs))
		}
		if !logs[0].Success {
			t.Error("logs[0].Success = false, want true")
		}
	})

	t.Run("failed hand-off is logged with success=false", func(t *testing.T) {
		repo, device := newTestRepo(t)
		sender := &fakeSender{err: errors.New("gateway unreachable")}
		svc := NewService(repo, sender, NewAuditLogger(repo))

		err := svc.Send(ctx, device.ID, "1234CC#")
		if err == nil {
			t.Fatal("Send() error = nil, want error")
		}

		logs, logErr := repo.LogsForDevice(ctx, device.ID)
		if logErr != nil {
			t.Fatalf("LogsForDevice() error = %v", logErr)
		}
		if len(logs) != 1 {
			t.Fatalf("len(logs) = %d, want 1", len(logs))
		}
		if logs[0].Success {
			t.Error("logs[0].Success = true, want false")
		}
	})

	t.Run("unknown device is rejected before the sender runs", func(t *testing.T) {
		repo, _ := newTestRepo(t)
		sender := &fakeSender{}
		svc := NewService(repo, sender, NewAuditLogger(repo))

		err := svc.Send(ctx, "nonexistent", "1234CC#")
		if !errors.Is(err, gate.ErrDeviceNotFound) {
			t.Errorf("Send() error = %v, want ErrDeviceNotFound", err)
		}
		if len(sender.sentTo) != 0 {
			t.Errorf("sender invoked %d times, want 0", len(sender.sentTo))
		}
	})
}
