package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names written by the casos backend.
const (
	MeasurementOperations = "caso_operations"
	MeasurementCount      = "caso_count"
)

// Outcome tag values for MeasurementOperations.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// WriteCaseOperation records one store operation (list, get, create,
// update, delete) with its outcome and duration in milliseconds.
//
// Example:
//
//	client.WriteCaseOperation("update", influxdb.OutcomeNotFound, 120*time.Microsecond)
func (c *Client) WriteCaseOperation(operation, outcome string, took time.Duration) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(newOperationPoint(operation, outcome, took, time.Now()))
}

// WriteCaseCount records the collection size after a mutation.
func (c *Client) WriteCaseCount(count int) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(
		MeasurementCount,
		nil,
		map[string]any{"count": count},
		time.Now(),
	))
}

func newOperationPoint(operation, outcome string, took time.Duration, at time.Time) *write.Point {
	return write.NewPoint(
		MeasurementOperations,
		map[string]string{
			"operation": operation,
			"outcome":   outcome,
		},
		map[string]any{
			"duration_ms": float64(took) / float64(time.Millisecond),
		},
		at,
	)
}
