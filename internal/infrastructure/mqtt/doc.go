// Package mqtt publishes casos change events to an MQTT broker.
//
// Every successful create, update or delete is published as JSON on
// casos/events/{created|updated|deleted}. The backend's own liveness is
// announced retained on casos/system/status, with a Last Will covering
// crashes.
//
// The integration is optional: Connect returns ErrDisabled when
// mqtt.enabled is false and the server runs without it.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.PublishEvent("created", event)
package mqtt
