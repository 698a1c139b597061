package status

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{ActiveMs: 150, IdleMs: 1000, Broker: "tcp://localhost:1883", HTTPAddr: ":80"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.ActiveMs != 150 {
		t.Errorf("Config.ActiveMs: got %d, want 150", snap.Config.ActiveMs)
	}
	if snap.Charging {
		t.Error("expected Charging=false initially")
	}
	if snap.Capability != CapabilityAbsent {
		t.Errorf("Capability: got %q, want absent until resolved", snap.Capability)
	}
	if snap.BatteryPct != -1 {
		t.Errorf("BatteryPct: got %d, want unknown (-1)", snap.BatteryPct)
	}
}

func TestSetChargingCountsTransitions(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.SetCharging(true)  // start
	tr.SetCharging(true)  // no transition
	tr.SetCharging(false) // stop
	tr.SetCharging(true)  // start

	snap := tr.Snapshot()
	if !snap.Charging {
		t.Error("expected Charging=true")
	}
	if snap.Counts.ChargeStarts != 2 {
		t.Errorf("ChargeStarts: got %d, want 2", snap.Counts.ChargeStarts)
	}
	if snap.Counts.ChargeStops != 1 {
		t.Errorf("ChargeStops: got %d, want 1", snap.Counts.ChargeStops)
	}
}

func TestSetInitialChargingDoesNotCount(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.SetInitialCharging(true)

	snap := tr.Snapshot()
	if !snap.Charging {
		t.Error("expected Charging=true")
	}
	if snap.Counts.ChargeStarts != 0 {
		t.Errorf("boot state must not count as a transition, got %d", snap.Counts.ChargeStarts)
	}
}

func TestBatteryAndReasserts(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.SetBatteryPct(57)
	tr.SetBatteryPct(58)
	tr.IncReasserts()

	snap := tr.Snapshot()
	if snap.BatteryPct != 58 {
		t.Errorf("BatteryPct: got %d, want 58", snap.BatteryPct)
	}
	if snap.Counts.BatteryEvents != 2 {
		t.Errorf("BatteryEvents: got %d, want 2", snap.Counts.BatteryEvents)
	}
	if snap.Counts.Reasserts != 1 {
		t.Errorf("Reasserts: got %d, want 1", snap.Counts.Reasserts)
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, Config{Broker: "tcp://b:1883", HTTPAddr: ":80", FixedColor: 5})
	tr.SetCharging(true)
	tr.SetCapability(CapabilityPresent)
	tr.SetBatteryPct(42)
	tr.SetMQTTConnected(true)

	var sj StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if sj.Status.Charging != "CHARGING" {
		t.Errorf("charging: got %q", sj.Status.Charging)
	}
	if sj.Status.Capability != "present" {
		t.Errorf("led_capability: got %q", sj.Status.Capability)
	}
	if sj.Status.BatteryPct == nil || *sj.Status.BatteryPct != 42 {
		t.Errorf("battery_pct: got %v", sj.Status.BatteryPct)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("mqtt.connected should be true")
	}
	if sj.Status.Config.FixedColor != 5 {
		t.Errorf("config.fixed_color: got %d", sj.Status.Config.FixedColor)
	}
}

func TestFormatJSONOmitsUnknownBattery(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	var raw map[string]map[string]any
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, present := raw["status"]["battery_pct"]; present {
		t.Error("battery_pct should be omitted while unknown")
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	var sj StatusJSON
	if err := json.Unmarshal(FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM"), &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if sj.Status.Event != "SHUTDOWN" {
		t.Errorf("event: got %q", sj.Status.Event)
	}
	if sj.Status.Reason != "SIGTERM" {
		t.Errorf("reason: got %q", sj.Status.Reason)
	}
}
