// Package mqtt provides the state-change notification sink over MQTT, with
// an abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/heater-controller/internal/logic"
)

// TopicState is the MQTT topic for controller state changes (retained).
const TopicState = "home/heater/controller/state"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/heater/controller/system"

// Publisher publishes controller notifications to MQTT.
type Publisher interface {
	// ReportStateChange announces the controller's new state.
	// Returns error if publishing fails (should not crash the process).
	ReportStateChange(state logic.State) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "OFFLINE"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// StatePayload represents the state-change message payload.
type StatePayload struct {
	Heater StateInner `json:"heater"`
}

// StateInner contains the state-change details.
type StateInner struct {
	Timestamp string `json:"timestamp"`
	State     string `json:"state"`
	HeaterOn  bool   `json:"heater_on"`
}

// FormatStatePayload creates the JSON payload for a state change.
func FormatStatePayload(at time.Time, state logic.State) ([]byte, error) {
	payload := StatePayload{
		Heater: StateInner{
			Timestamp: at.UTC().Format(time.RFC3339),
			State:     state.String(),
			HeaterOn:  logic.DriveHeater(state),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (last will) that don't carry a full status document.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp,omitempty"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status documents).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Event:  event.Event,
			Reason: event.Reason,
		},
	}
	if !event.Timestamp.IsZero() {
		payload.System.Timestamp = event.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(payload)
}

// WillPayload is registered with the broker and published if the controller
// drops off without a clean shutdown.
func WillPayload() []byte {
	data, _ := FormatSystemPayload(SystemEvent{Event: "OFFLINE", Reason: "CONNECTION_LOST"})
	return data
}
