package influxdb

import (
	"errors"
	"testing"

	"github.com/calloway/gatelink-core/internal/infrastructure/config"
)

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network test in short mode")
	}

	_, err := Connect(config.InfluxDBConfig{
		Enabled: true,
		URL:     "http://127.0.0.1:1", // nothing listens here
		Token:   "token",
		Org:     "org",
		Bucket:  "bucket",
	})
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestClose_Nil(t *testing.T) {
	var c Client
	if err := c.Close(); err != nil {
		t.Errorf("Close() on zero client error = %v, want nil", err)
	}
}

func TestWriteCommandAudit_Disconnected(t *testing.T) {
	// A disconnected client must drop writes without touching the write API.
	c := &Client{}
	c.WriteCommandAudit("d1", "Gate Open Command", "relay", true)
	c.WriteRestoreMetric(0, false)
	c.WritePoint("custom", nil, map[string]interface{}{"v": 1})
}

func TestFlush_Disconnected(t *testing.T) {
	c := &Client{}
	c.Flush()
}
