package mqtt

import "fmt"

// Topic prefixes for the HomeSim topic hierarchy.
const (
	// TopicPrefix is the base for all HomeSim topics.
	TopicPrefix = "homesim"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "homesim/system"
)

// Topics provides builders for HomeSim MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
//
//	topics := mqtt.Topics{}
//	stateTopic := topics.DeviceState("kitchen/light/ceiling-01")
//	// Returns: "homesim/state/kitchen/light/ceiling-01"
type Topics struct{}

// DeviceState returns the topic for one device's state updates.
// Device identifiers already use slash-separated segments, so they map
// directly onto topic levels.
//
// Example: homesim/state/kitchen/light/ceiling-01
func (Topics) DeviceState(deviceID string) string {
	return fmt.Sprintf("%s/state/%s", TopicPrefix, deviceID)
}

// AllDeviceStates returns a pattern matching every device state topic.
//
// Pattern: homesim/state/#
func (Topics) AllDeviceStates() string {
	return fmt.Sprintf("%s/state/#", TopicPrefix)
}

// SystemStatus returns the system status topic.
//
// Example: homesim/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}
