package gate

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateNewDevice(t *testing.T) {
	tests := []struct {
		name    string
		device  NewDevice
		wantErr bool
	}{
		{
			name:   "valid",
			device: NewDevice{Name: "Gate", UnitNumber: "+447700900001", Password: "1234"},
		},
		{
			name:    "missing name",
			device:  NewDevice{UnitNumber: "+447700900001", Password: "1234"},
			wantErr: true,
		},
		{
			name:    "whitespace-only name",
			device:  NewDevice{Name: "   ", UnitNumber: "+447700900001", Password: "1234"},
			wantErr: true,
		},
		{
			name:    "missing unit number",
			device:  NewDevice{Name: "Gate", Password: "1234"},
			wantErr: true,
		},
		{
			name:    "missing password",
			device:  NewDevice{Name: "Gate", UnitNumber: "+447700900001"},
			wantErr: true,
		},
		{
			name:    "everything missing",
			device:  NewDevice{},
			wantErr: true,
		},
		{
			name: "invalid relay settings",
			device: NewDevice{
				Name: "Gate", UnitNumber: "+447700900001", Password: "1234",
				RelaySettings: &RelaySettings{AccessControl: AccessAllowAll, LatchTime: "abc"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateNewDevice(tt.device)
			if tt.wantErr != (err != nil) {
				t.Errorf("validateNewDevice() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("validateNewDevice() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestValidateNewDevice_NamesAllMissingFields(t *testing.T) {
	err := validateNewDevice(NewDevice{})
	if err == nil {
		t.Fatal("validateNewDevice() error = nil, want error")
	}
	for _, field := range []string{"name", "unit number", "password"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error %q does not mention %q", err, field)
		}
	}
}

func TestValidateRelaySettings(t *testing.T) {
	tests := []struct {
		name    string
		rs      RelaySettings
		wantErr bool
	}{
		{"toggle mode", RelaySettings{AccessAuthorizedOnly, "000"}, false},
		{"timed latch", RelaySettings{AccessAllowAll, "045"}, false},
		{"max latch", RelaySettings{AccessAuthorizedOnly, "999"}, false},
		{"too short", RelaySettings{AccessAuthorizedOnly, "45"}, true},
		{"too long", RelaySettings{AccessAuthorizedOnly, "0450"}, true},
		{"non-numeric", RelaySettings{AccessAuthorizedOnly, "0a5"}, true},
		{"empty latch", RelaySettings{AccessAuthorizedOnly, ""}, true},
		{"bad access control", RelaySettings{"everyone", "000"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRelaySettings(tt.rs)
			if tt.wantErr != (err != nil) {
				t.Errorf("validateRelaySettings(%+v) error = %v, wantErr %v", tt.rs, err, tt.wantErr)
			}
		})
	}
}

func TestGenerateLogID(t *testing.T) {
	id := generateLogID()
	if !strings.HasPrefix(id, "log-") {
		t.Errorf("generateLogID() = %q, want log- prefix", id)
	}
	if len(id) != len("log-")+8 {
		t.Errorf("len(%q) = %d, want %d", id, len(id), len("log-")+8)
	}
	if id == generateLogID() {
		t.Error("consecutive log IDs collided")
	}
}
