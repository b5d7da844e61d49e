package mqtt

import "fmt"

// Topic prefixes for the restructurer's MQTT surface.
//
// Event topics use the scheme: restructurer/event/{event_type}
// so dashboards and automations can subscribe to rename activity
// with a single wildcard.
const (
	// TopicPrefix is the base for all restructurer topics.
	TopicPrefix = "restructurer"

	// TopicPrefixEvent is the base for rename and scan event topics.
	TopicPrefixEvent = "restructurer/event"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "restructurer/system"

	// TopicPrefixCommand is the base for inbound command topics.
	TopicPrefixCommand = "restructurer/command"
)

// Topics provides builders for restructurer MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	topic := topics.EntityRenamed()
//	// Returns: "restructurer/event/entity_renamed"
type Topics struct{}

// =============================================================================
// Event Topics
// =============================================================================

// EntityRenamed returns the topic for entity rename events.
//
// Example: restructurer/event/entity_renamed
func (Topics) EntityRenamed() string {
	return fmt.Sprintf("%s/entity_renamed", TopicPrefixEvent)
}

// AreaRenamed returns the topic for area rename events.
//
// Example: restructurer/event/area_renamed
func (Topics) AreaRenamed() string {
	return fmt.Sprintf("%s/area_renamed", TopicPrefixEvent)
}

// DeviceRenamed returns the topic for device rename events.
//
// Example: restructurer/event/device_renamed
func (Topics) DeviceRenamed() string {
	return fmt.Sprintf("%s/device_renamed", TopicPrefixEvent)
}

// ScanCompleted returns the topic for reference scan completion events.
//
// Example: restructurer/event/scan_completed
func (Topics) ScanCompleted() string {
	return fmt.Sprintf("%s/scan_completed", TopicPrefixEvent)
}

// ReferenceFixed returns the topic for broken reference fix events.
//
// Example: restructurer/event/reference_fixed
func (Topics) ReferenceFixed() string {
	return fmt.Sprintf("%s/reference_fixed", TopicPrefixEvent)
}

// =============================================================================
// System Topics
// =============================================================================

// SystemStatus returns the system status topic.
// The LWT and graceful shutdown messages are published here.
//
// Example: restructurer/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// =============================================================================
// Command Topics
// =============================================================================

// CommandScan returns the topic that triggers a reference scan.
// Publishing any payload here starts a fresh scan; the result is
// announced on the ScanCompleted event topic.
//
// Example: restructurer/command/scan
func (Topics) CommandScan() string {
	return fmt.Sprintf("%s/scan", TopicPrefixCommand)
}

// =============================================================================
// Wildcard Patterns for Subscriptions
// =============================================================================

// AllEvents returns a pattern matching all rename and scan events.
//
// Pattern: restructurer/event/+
func (Topics) AllEvents() string {
	return fmt.Sprintf("%s/+", TopicPrefixEvent)
}

// AllTopics returns a pattern matching all restructurer topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: restructurer/#
func (Topics) AllTopics() string {
	return "restructurer/#"
}
