package mqtt

import "fmt"

// Topic structure:
//
//	gatelink/system/status        core online/offline status (retained, LWT)
//	gatelink/event/snapshot       full state snapshot on change (retained)
//	gatelink/inbox/command        inbound command requests from panels
//	gatelink/outbox/{unit}        outbound command hand-off to the SMS gateway
const topicBase = "gatelink"

// Topics builds Gatelink topic strings.
type Topics struct{}

// SystemStatus returns the core status topic.
func (Topics) SystemStatus() string {
	return topicBase + "/system/status"
}

// SnapshotEvent returns the retained snapshot event topic.
func (Topics) SnapshotEvent() string {
	return topicBase + "/event/snapshot"
}

// CommandInbox returns the inbound command request topic.
func (Topics) CommandInbox() string {
	return topicBase + "/inbox/command"
}

// Outbox returns the command hand-off topic for a unit number.
func (Topics) Outbox(unitNumber string) string {
	return fmt.Sprintf("%s/outbox/%s", topicBase, unitNumber)
}
