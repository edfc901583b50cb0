package mqtt

// Topic prefixes of the casos MQTT hierarchy.
const (
	TopicPrefixEvents = "casos/events"
	TopicPrefixSystem = "casos/system"
)

// Topics builds casos MQTT topic names.
//
//	mqtt.Topics{}.Event("created") // "casos/events/created"
type Topics struct{}

// Event returns the topic for one kind of case event.
//
// Example: casos/events/updated
func (Topics) Event(action string) string {
	return TopicPrefixEvents + "/" + action
}

// SystemStatus returns the retained online/offline status topic.
//
// Example: casos/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}
