package mqtt

import (
	"encoding/json"
	"fmt"
)

// maxPayloadSize bounds a single message (1MB).
const maxPayloadSize = 1 << 20

// Publish sends payload to topic.
//
// QoS must be 0, 1 or 2. Retained messages are kept by the broker for new
// subscribers; case events are published unretained.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// PublishEvent marshals v to JSON and publishes it on casos/events/{action}
// with the configured QoS, unretained.
func (c *Client) PublishEvent(action string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encoding payload: %w", ErrPublishFailed, err)
	}
	return c.Publish(Topics{}.Event(action), payload, byte(c.cfg.QoS), false)
}
