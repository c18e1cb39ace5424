package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteCommandAudit records one classified command outcome.
//
// The write is non-blocking; points are batched and sent asynchronously.
// It satisfies the audit logger's metrics recorder interface.
//
// Tags stay low cardinality: device_id, category and success. The action
// label goes in a field.
func (c *Client) WriteCommandAudit(deviceID, action, category string, success bool) {
	if !c.IsConnected() {
		return
	}

	successTag := "false"
	if success {
		successTag = "true"
	}

	point := write.NewPoint(
		"command_audit",
		map[string]string{
			"device_id": deviceID,
			"category":  category,
			"success":   successTag,
		},
		map[string]interface{}{
			"action": action,
			"count":  1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteRestoreMetric records the outcome of a backup restore.
func (c *Client) WriteRestoreMetric(entriesWritten int, succeeded bool) {
	if !c.IsConnected() {
		return
	}

	successTag := "false"
	if succeeded {
		successTag = "true"
	}

	point := write.NewPoint(
		"backup_restore",
		map[string]string{
			"success": successTag,
		},
		map[string]interface{}{
			"entries_written": entriesWritten,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
