// Package mqtt provides MQTT publishing and the inbound battery-state
// subscription, with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweeney/charge-indicator/internal/logic"
)

// Topic is the MQTT topic for charging transition events.
const Topic = "power/charge-indicator/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "power/charge-indicator/system"

// TopicBattery is the MQTT topic the fuel-gauge daemon publishes
// state-of-charge updates on.
const TopicBattery = "power/battery/state"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a charging transition event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload for charging events.
type Payload struct {
	Charger ChargerPayload `json:"charger"`
}

// ChargerPayload contains the charging event details.
type ChargerPayload struct {
	Timestamp  string `json:"timestamp"`
	Event      string `json:"event"`
	State      string `json:"state"`
	BatteryPct *int   `json:"battery_pct,omitempty"` // omitted when unknown
}

// FormatPayload creates the JSON payload for a charging event.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Charger: ChargerPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			State:     string(event.State),
		},
	}
	if event.BatteryPct >= 0 && event.BatteryPct <= 100 {
		pct := event.BatteryPct
		payload.Charger.BatteryPct = &pct
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// batteryMessage is the inbound payload on TopicBattery.
type batteryMessage struct {
	Battery *struct {
		Percent *int `json:"percent"`
	} `json:"battery"`
}

// ParseBatteryState extracts the state-of-charge percentage from an
// inbound battery message. A malformed message is an error the caller
// logs and drops; it never propagates further. An out-of-range
// percentage is NOT an error: it is the fuel gauge's way of reporting
// "unknown" and passes through unchanged.
func ParseBatteryState(payload []byte) (int, error) {
	var msg batteryMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return 0, fmt.Errorf("parse battery message: %w", err)
	}
	if msg.Battery == nil || msg.Battery.Percent == nil {
		return 0, fmt.Errorf("battery message missing percent field")
	}
	return *msg.Battery.Percent, nil
}
