package command

import (
	"strings"
	"testing"

	"github.com/calloway/gatelink-core/internal/gate"
)

func TestRedact(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"password before action code", "1234CC#", "****CC#"},
		{"preserves trailing letter", "1234GOT045#", "****GOT045#"},
		{"only first occurrence", "1234TEL5678X#", "****TEL5678X#"},
		{"no password shape unchanged", "hello", "hello"},
		{"digits without letter unchanged", "1234#", "1234#"},
		{"lowercase letter unchanged", "1234cc#", "1234cc#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Redact(tt.raw); got != tt.want {
				t.Errorf("Redact(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantAction   string
		wantCategory gate.LogCategory
		wantDetails  string
	}{
		{
			name:       "gate open",
			raw:        "1234CC#",
			wantAction: "Gate Open Command", wantCategory: gate.CategoryRelay,
			wantDetails: "****CC#",
		},
		{
			name:       "gate close",
			raw:        "1234DD#",
			wantAction: "Gate Close Command", wantCategory: gate.CategoryRelay,
			wantDetails: "****DD#",
		},
		{
			name:       "latch time in seconds",
			raw:        "1234GOT045#",
			wantAction: "Relay Timing Setting", wantCategory: gate.CategorySettings,
			wantDetails: "Latch time set to 45 seconds",
		},
		{
			name:       "latch toggle mode",
			raw:        "1234GOT000#",
			wantAction: "Relay Timing Setting", wantCategory: gate.CategorySettings,
			wantDetails: "Relay set to toggle mode",
		},
		{
			name:       "allow all access",
			raw:        "1234ALL#",
			wantAction: "Access Control Setting", wantCategory: gate.CategorySettings,
			wantDetails: "Allow All",
		},
		{
			name:       "authorized only access",
			raw:        "1234AUT#",
			wantAction: "Access Control Setting", wantCategory: gate.CategorySettings,
			wantDetails: "Authorized Only",
		},
		{
			name:       "admin registration",
			raw:        "1234TEL00447700900123#",
			wantAction: "Admin Registration", wantCategory: gate.CategorySettings,
			wantDetails: "****TEL00447700900123#",
		},
		{
			name:       "status check",
			raw:        "1234EE#",
			wantAction: "Status Check", wantCategory: gate.CategorySystem,
			wantDetails: "****EE#",
		},
		{
			name:       "password change never echoes password",
			raw:        "1234P66667777#",
			wantAction: "Password Change", wantCategory: gate.CategorySettings,
			wantDetails: "Unit password changed",
		},
		{
			name:       "add authorized number",
			raw:        "1234A001#00447700900123#",
			wantAction: "User Management", wantCategory: gate.CategoryUser,
			wantDetails: "Authorized number added at position 001",
		},
		{
			name:       "remove authorized number",
			raw:        "1234A002##",
			wantAction: "User Management", wantCategory: gate.CategoryUser,
			wantDetails: "Authorized number removed from position 002",
		},
		{
			name:       "unknown command",
			raw:        "garbage",
			wantAction: "Unknown Command", wantCategory: gate.CategoryRelay,
			wantDetails: "garbage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.raw)
			if got.Action != tt.wantAction {
				t.Errorf("Action = %q, want %q", got.Action, tt.wantAction)
			}
			if got.Category != tt.wantCategory {
				t.Errorf("Category = %q, want %q", got.Category, tt.wantCategory)
			}
			if got.Details != tt.wantDetails {
				t.Errorf("Details = %q, want %q", got.Details, tt.wantDetails)
			}
		})
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// Contains both CC and GOT; the open-command rule is earlier in the
	// chain and must take it.
	got := Classify("1234CCGOT000#")
	if got.Action != "Gate Open Command" {
		t.Errorf("Action = %q, want %q", got.Action, "Gate Open Command")
	}
}

func TestClassify_NeverLeaksPassword(t *testing.T) {
	commands := []string{
		"9876CC#", "9876DD#", "9876GOT030#", "9876ALL#", "9876AUT#",
		"9876TEL00447700900123#", "9876EE#", "9876P11112222#",
		"9876A005#00447700900123#", "9876A005##",
	}
	for _, raw := range commands {
		if got := Classify(raw); strings.Contains(got.Details, "9876") {
			t.Errorf("Classify(%q).Details = %q leaks the unit password", raw, got.Details)
		}
	}
}
