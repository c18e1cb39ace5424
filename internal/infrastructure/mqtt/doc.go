// Package mqtt connects the core to its MQTT broker.
//
// Two flows run over the connection: retained snapshot-change events on
// gatelink/event/snapshot for external readers, and the outbound command
// hand-off on gatelink/outbox/{unit} consumed by the SMS gateway that
// performs actual delivery. A Last Will and Testament on
// gatelink/system/status lets peers detect unexpected core death.
package mqtt
