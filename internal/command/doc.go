// Package command classifies outbound protocol commands into redacted
// audit entries.
//
// Units are driven by short text commands of the form
// <password><code><arguments>, e.g. "1234CC#" (open) or "1234GOT045#"
// (45 second latch). Classification is an ordered, first-match-wins rule
// chain; the order is part of the contract because several codes overlap
// textually. The unit password is masked before any detail string is
// stored.
//
// The package does not deliver commands: Sender is the hand-off contract
// and Service pairs hand-off with audit logging.
package command
