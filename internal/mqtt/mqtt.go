// Package mqtt publishes lamp level changes and daemon lifecycle events,
// with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"
)

// Topic is the MQTT topic for lamp level events.
const Topic = "aquarium/lamps/events"

// TopicSystem is the MQTT topic for daemon lifecycle events.
const TopicSystem = "aquarium/lamps/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// PublishLevels sends a lamp level change to the broker.
	// Returns error if publishing fails (must not crash the process).
	PublishLevels(event LevelEvent) error

	// PublishSystem sends a daemon lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// LevelEvent represents an applied change of lamp intensities.
type LevelEvent struct {
	Timestamp time.Time
	A         uint8
	B         uint8
	Source    string // "schedule" or "override"
}

// SystemEvent represents a daemon lifecycle event.
type SystemEvent struct {
	Timestamp time.Time
	Event     string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason    string // e.g., "SIGTERM", "RESET" (shutdown only)
	Retained  bool   // whether the broker should retain the message
}

// Payload is the JSON wire form of a level event.
type Payload struct {
	Lamps LampsPayload `json:"lamps"`
}

// LampsPayload contains the level event details.
type LampsPayload struct {
	Timestamp string    `json:"timestamp"`
	A         LampLevel `json:"a"`
	B         LampLevel `json:"b"`
	Source    string    `json:"source"`
}

// LampLevel carries one channel's intensity in percent.
type LampLevel struct {
	Level uint8 `json:"level"`
}

// FormatLevelPayload creates the JSON payload for a level event.
func FormatLevelPayload(event LevelEvent) ([]byte, error) {
	payload := Payload{
		Lamps: LampsPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			A:         LampLevel{Level: event.A},
			B:         LampLevel{Level: event.B},
			Source:    event.Source,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the JSON wire form of a lifecycle event.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the lifecycle event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a lifecycle event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
