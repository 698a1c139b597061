// Package logic contains pure business logic for charge indication.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Everything here is a deterministic function of its inputs.
package logic

import "time"

// State represents the logical charging state.
type State string

const (
	StateCharging    State = "CHARGING"
	StateNotCharging State = "NOT_CHARGING"
)

// StateOf converts a charging flag to its State label.
func StateOf(charging bool) State {
	if charging {
		return StateCharging
	}
	return StateNotCharging
}

// EventType represents a charging transition event.
type EventType string

const (
	EventChargeStart EventType = "CHARGE_START"
	EventChargeStop  EventType = "CHARGE_STOP"
)

// Event represents a charging transition to be published.
type Event struct {
	Timestamp  time.Time
	Type       EventType
	State      State
	BatteryPct int // outside [0,100] means unknown
}

// ColorCode is a 3-bit color for the RGB indicator:
// bit0=red, bit1=green, bit2=blue. 0 is all off, 7 is white.
type ColorCode int

const (
	ColorOff     ColorCode = 0
	ColorRed     ColorCode = 1
	ColorGreen   ColorCode = 2
	ColorYellow  ColorCode = 3
	ColorBlue    ColorCode = 4
	ColorMagenta ColorCode = 5
	ColorCyan    ColorCode = 6
	ColorWhite   ColorCode = 7
)

// Channels is the per-channel actuation vector for one color.
type Channels struct {
	Red   bool
	Green bool
	Blue  bool
}

// Policy holds the immutable indicator configuration resolved at boot.
type Policy struct {
	// ForceOff forces all channels off while charging instead of
	// showing a color.
	ForceOff bool

	// FixedColor is shown while charging when BatteryColoring is off.
	FixedColor ColorCode

	// BatteryColoring selects the color from the battery percentage.
	BatteryColoring bool

	// Battery-level colors.
	Critical ColorCode
	Low      ColorCode
	Medium   ColorCode
	High     ColorCode
	// Missing is shown when the percentage is outside [0,100].
	Missing ColorCode

	// Exclusive upper-bound thresholds, ascending.
	CriticalPct int
	LowPct      int
	HighPct     int
}
