package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/casos-demo/casos-core/internal/caso"
	"github.com/casos-demo/casos-core/internal/infrastructure/influxdb"
)

// Case event actions. The WebSocket channel is "caso.<action>" and the MQTT
// topic is "casos/events/<action>".
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// CasoEvent is the payload published for every successful mutation.
type CasoEvent struct {
	Type      string     `json:"type"`
	Caso      *caso.Caso `json:"caso"`
	Timestamp string     `json:"timestamp"`
}

// wsChannel returns the WebSocket channel for an action.
func wsChannel(action string) string {
	return "caso." + action
}

// emit fans a mutation out to WebSocket clients, the MQTT bus and the
// metrics backend. Delivery failures are logged, the request still succeeds.
func (s *Server) emit(r *http.Request, action string, c *caso.Caso) {
	event := CasoEvent{
		Type:      wsChannel(action),
		Caso:      c,
		Timestamp: nowTimestamp(),
	}

	s.hub.Broadcast(event.Type, event)

	if s.events != nil {
		if err := s.events.PublishEvent(action, event); err != nil {
			s.logger.Warn("failed to publish caso event",
				"action", action,
				"caso_id", c.ID,
				"error", err,
				"request_id", r.Context().Value(ctxKeyRequestID),
			)
		}
	}

	if s.metrics != nil {
		s.metrics.WriteCaseCount(s.store.Len())
	}
}

// recordOperation writes one operation point when metrics are configured.
func (s *Server) recordOperation(operation string, err error, took time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.WriteCaseOperation(operation, operationOutcome(err), took)
}

func operationOutcome(err error) string {
	var violations caso.Violations
	switch {
	case err == nil:
		return influxdb.OutcomeOK
	case errors.Is(err, caso.ErrNotFound):
		return influxdb.OutcomeNotFound
	case errors.As(err, &violations), errors.Is(err, caso.ErrInvalidBody):
		return influxdb.OutcomeInvalid
	default:
		return influxdb.OutcomeError
	}
}
