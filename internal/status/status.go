// Package status provides a thread-safe status tracker for the
// charge-indicator daemon. It is read by the HTTP handlers and
// serialized into MQTT system events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/charge-indicator/internal/logic"
)

// Capability describes whether the RGB indicator hardware is wired.
type Capability string

const (
	CapabilityPresent Capability = "present"
	CapabilityAbsent  Capability = "absent"
)

// Config contains daemon configuration for display.
type Config struct {
	SettleMs    int
	ActiveMs    int
	IdleMs      int
	HeartbeatMs int
	ForceOff    bool
	FixedColor  int
	BatteryClrs bool
	Broker      string
	HTTPAddr    string
}

// EventCounts tracks how often each event occurred since startup.
type EventCounts struct {
	ChargeStarts  int
	ChargeStops   int
	BatteryEvents int
	Reasserts     int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Charging      bool
	Capability    Capability
	BatteryPct    int
	Counts        EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// State returns the charging state label.
func (s Snapshot) State() logic.State {
	return logic.StateOf(s.Charging)
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime:  startTime,
			Config:     cfg,
			BatteryPct: -1,
			Capability: CapabilityAbsent,
		},
	}
}

// SetCharging records the charging state and counts the transition.
func (t *Tracker) SetCharging(charging bool) {
	t.mu.Lock()
	if charging != t.snap.Charging {
		if charging {
			t.snap.Counts.ChargeStarts++
		} else {
			t.snap.Counts.ChargeStops++
		}
	}
	t.snap.Charging = charging
	t.mu.Unlock()
}

// SetInitialCharging records the boot-time state without counting a
// transition.
func (t *Tracker) SetInitialCharging(charging bool) {
	t.mu.Lock()
	t.snap.Charging = charging
	t.mu.Unlock()
}

// SetCapability records whether the LED hardware was acquired at boot.
func (t *Tracker) SetCapability(c Capability) {
	t.mu.Lock()
	t.snap.Capability = c
	t.mu.Unlock()
}

// SetBatteryPct records the latest fuel-gauge report and counts it.
func (t *Tracker) SetBatteryPct(pct int) {
	t.mu.Lock()
	t.snap.BatteryPct = pct
	t.snap.Counts.BatteryEvents++
	t.mu.Unlock()
}

// IncReasserts counts one suppression pass.
func (t *Tracker) IncReasserts() {
	t.mu.Lock()
	t.snap.Counts.Reasserts++
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
