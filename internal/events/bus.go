// Package events is the in-process typed event bus. The MQTT
// subscriber publishes battery updates here and the battery bridge
// consumes them, keeping the transports decoupled from the indicator
// logic.
package events

import (
	"time"

	"github.com/kelindar/event"
)

// Event type identifiers for kelindar/event.
const (
	TypeBatteryState uint32 = iota + 1
)

// BatteryStateChanged carries a fuel-gauge state-of-charge update.
// A percent outside [0,100] signals "unknown".
type BatteryStateChanged struct {
	Percent   int
	Timestamp time.Time
}

// Type returns the event type identifier for BatteryStateChanged.
func (e BatteryStateChanged) Type() uint32 { return TypeBatteryState }

// Bus wraps a kelindar/event dispatcher.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{dispatcher: event.NewDispatcher()}
}

// PublishBatteryState broadcasts a battery update to all subscribers.
// Delivery is asynchronous on the subscriber's goroutine.
func (b *Bus) PublishBatteryState(e BatteryStateChanged) {
	event.Publish(b.dispatcher, e)
}

// SubscribeBatteryState registers a handler for battery updates.
// Returns an unsubscribe function.
func (b *Bus) SubscribeBatteryState(handler func(BatteryStateChanged)) func() {
	return event.Subscribe(b.dispatcher, handler)
}
