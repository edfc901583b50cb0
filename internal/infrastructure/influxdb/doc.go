// Package influxdb records casos operation metrics in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, batched non-blocking writes and health monitoring.
//
// # Measurements
//
//   - caso_operations: tags operation and outcome, field duration_ms
//   - caso_count: field count, the collection size after a mutation
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // metrics off
//	}
//	defer client.Close()
//
//	client.WriteCaseOperation("create", influxdb.OutcomeOK, took)
//
// All write methods are no-ops on a nil or closed client.
package influxdb
