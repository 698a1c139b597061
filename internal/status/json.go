package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Charging      string     `json:"charging"`
	Capability    string     `json:"led_capability"`
	BatteryPct    *int       `json:"battery_pct,omitempty"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	ChargeStarts  int `json:"charge_starts"`
	ChargeStops   int `json:"charge_stops"`
	BatteryEvents int `json:"battery_events"`
	Reasserts     int `json:"reasserts"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	SettleMs        int    `json:"settle_ms"`
	ActiveMs        int    `json:"active_ms"`
	IdleMs          int    `json:"idle_ms"`
	HeartbeatMs     int    `json:"heartbeat_ms"`
	ForceOff        bool   `json:"force_off"`
	FixedColor      int    `json:"fixed_color"`
	BatteryColoring bool   `json:"battery_coloring"`
	Broker          string `json:"broker"`
	HTTPAddr        string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Charging:      string(snap.State()),
		Capability:    string(snap.Capability),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			ChargeStarts:  snap.Counts.ChargeStarts,
			ChargeStops:   snap.Counts.ChargeStops,
			BatteryEvents: snap.Counts.BatteryEvents,
			Reasserts:     snap.Counts.Reasserts,
		},
		Config: ConfigJSON{
			SettleMs:        snap.Config.SettleMs,
			ActiveMs:        snap.Config.ActiveMs,
			IdleMs:          snap.Config.IdleMs,
			HeartbeatMs:     snap.Config.HeartbeatMs,
			ForceOff:        snap.Config.ForceOff,
			FixedColor:      snap.Config.FixedColor,
			BatteryColoring: snap.Config.BatteryClrs,
			Broker:          snap.Config.Broker,
			HTTPAddr:        snap.Config.HTTPAddr,
		},
	}
	if snap.BatteryPct >= 0 && snap.BatteryPct <= 100 {
		pct := snap.BatteryPct
		inner.BatteryPct = &pct
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
