package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/calloway/gatelink-core/internal/snapshot"
)

// Publish sends a payload to a topic and waits for broker acknowledgment.
func (c *Client) Publish(ctx context.Context, topic string, retained bool, payload []byte) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, byte(c.cfg.QoS), retained, payload)

	select {
	case <-ctx.Done():
		return fmt.Errorf("mqtt publish %s: %w", topic, ctx.Err())
	case <-token.Done():
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: topic %s: %w", ErrPublishFailed, topic, err)
	}
	return nil
}

// Send hands an outbound command to the SMS gateway via the unit's outbox
// topic. Delivery to the device is the gateway's responsibility; Send only
// confirms the broker accepted the message.
func (c *Client) Send(ctx context.Context, unitNumber, body string) error {
	msg, err := json.Marshal(map[string]string{
		"unit_number": unitNumber,
		"body":        body,
	})
	if err != nil {
		return fmt.Errorf("mqtt send: marshal: %w", err)
	}
	return c.Publish(ctx, Topics{}.Outbox(unitNumber), false, msg)
}

// SnapshotChanged publishes the replaced snapshot as a retained event so
// late subscribers receive the latest state on connect. Failures are
// logged, not returned; snapshot replacement must not depend on the broker.
func (c *Client) SnapshotChanged(snap *snapshot.Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		c.logError("snapshot event marshal failed", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultPublishTimeout)
	defer cancel()

	if err := c.Publish(ctx, Topics{}.SnapshotEvent(), true, payload); err != nil {
		c.logError("snapshot event publish failed", err)
	}
}

func (c *Client) logError(msg string, err error) {
	c.loggerMu.RLock()
	logger := c.logger
	c.loggerMu.RUnlock()
	if logger != nil {
		logger.Error(msg, "error", err)
	}
}
