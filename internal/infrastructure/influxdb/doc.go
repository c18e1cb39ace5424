// Package influxdb provides InfluxDB connectivity for Gatelink Core.
//
// It wraps the official influxdb-client-go v2 library for time-series
// storage of command audit outcomes and restore metrics. Writes are
// non-blocking and batched according to config (batch_size,
// flush_interval); async write errors are delivered via a callback.
//
// All methods are safe for concurrent use from multiple goroutines.
package influxdb
