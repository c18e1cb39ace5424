package command

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/calloway/gatelink-core/internal/gate"
)

// Classification is the audit shape of an outbound command: a human action
// label, a log category and a redacted detail string.
type Classification struct {
	Action   string
	Category gate.LogCategory
	Details  string
}

// redactPattern matches a 4-digit run immediately followed by a single
// uppercase letter - the password-plus-action-code shape of the wire
// protocol.
var redactPattern = regexp.MustCompile(`([0-9]{4})([A-Z])`)

// Command shape patterns for the rules that key on structure rather than
// a keyword.
var (
	latchPattern      = regexp.MustCompile(`GOT([0-9]{3})`)
	passwordPattern   = regexp.MustCompile(`P[0-9]{4}[0-9]{4}#`)
	addUserPattern    = regexp.MustCompile(`A([0-9]{3})#[^#]+#`)
	removeUserPattern = regexp.MustCompile(`A([0-9]{3})##`)
)

// Redact masks the unit password in a raw command: the first 4-digit run
// immediately followed by an uppercase letter is replaced with "****",
// preserving the trailing letter and everything else verbatim. Commands
// without that shape are returned unchanged.
func Redact(raw string) string {
	loc := redactPattern.FindStringSubmatchIndex(raw)
	if loc == nil {
		return raw
	}
	// loc[2]:loc[3] is the span of the 4-digit group.
	return raw[:loc[2]] + "****" + raw[loc[3]:]
}

// rule pairs a match predicate with a classifier. Rules are evaluated in
// fixed priority order; the first match wins.
type rule struct {
	match    func(raw string) bool
	classify func(raw string) Classification
}

// rules is the ordered classification chain. The order is behaviourally
// significant: a command matching several rules takes the earliest one.
var rules = []rule{
	{
		match: contains("CC"),
		classify: func(raw string) Classification {
			return Classification{"Gate Open Command", gate.CategoryRelay, Redact(raw)}
		},
	},
	{
		match: contains("DD"),
		classify: func(raw string) Classification {
			return Classification{"Gate Close Command", gate.CategoryRelay, Redact(raw)}
		},
	},
	{
		match: contains("GOT"),
		classify: func(raw string) Classification {
			return Classification{"Relay Timing Setting", gate.CategorySettings, latchDetails(raw)}
		},
	},
	{
		match: contains("ALL"),
		classify: func(string) Classification {
			return Classification{"Access Control Setting", gate.CategorySettings, "Allow All"}
		},
	},
	{
		match: contains("AUT"),
		classify: func(string) Classification {
			return Classification{"Access Control Setting", gate.CategorySettings, "Authorized Only"}
		},
	},
	{
		match: contains("TEL"),
		classify: func(raw string) Classification {
			return Classification{"Admin Registration", gate.CategorySettings, Redact(raw)}
		},
	},
	{
		match: contains("EE"),
		classify: func(raw string) Classification {
			return Classification{"Status Check", gate.CategorySystem, Redact(raw)}
		},
	},
	{
		match: passwordPattern.MatchString,
		classify: func(string) Classification {
			// Never echo the new password, even masked.
			return Classification{"Password Change", gate.CategorySettings, "Unit password changed"}
		},
	},
	{
		match: addUserPattern.MatchString,
		classify: func(raw string) Classification {
			serial := addUserPattern.FindStringSubmatch(raw)[1]
			return Classification{"User Management", gate.CategoryUser,
				fmt.Sprintf("Authorized number added at position %s", serial)}
		},
	},
	{
		match: removeUserPattern.MatchString,
		classify: func(raw string) Classification {
			serial := removeUserPattern.FindStringSubmatch(raw)[1]
			return Classification{"User Management", gate.CategoryUser,
				fmt.Sprintf("Authorized number removed from position %s", serial)}
		},
	},
}

// Classify maps an outbound command string to its audit classification
// using the ordered rule chain. Unrecognised commands fall back to
// "Unknown Command" in the relay category.
func Classify(raw string) Classification {
	for _, r := range rules {
		if r.match(raw) {
			return r.classify(raw)
		}
	}
	return Classification{"Unknown Command", gate.CategoryRelay, Redact(raw)}
}

// contains returns a predicate testing for a substring.
func contains(sub string) func(string) bool {
	return func(raw string) bool {
		return strings.Contains(raw, sub)
	}
}

// latchDetails renders the 3 digits following "GOT" as a human detail:
// "000" is toggle mode, anything else a close time in seconds.
func latchDetails(raw string) string {
	m := latchPattern.FindStringSubmatch(raw)
	if m == nil {
		return Redact(raw)
	}
	if m[1] == gate.LatchToggle {
		return "Relay set to toggle mode"
	}
	seconds, err := strconv.Atoi(m[1])
	if err != nil {
		return Redact(raw)
	}
	return fmt.Sprintf("Latch time set to %d seconds", seconds)
}
