// Package battery tracks the last known state-of-charge and re-applies
// the charging color when it changes.
package battery

import (
	"sync/atomic"

	"github.com/sweeney/charge-indicator/internal/events"
	"github.com/sweeney/charge-indicator/internal/state"
)

// UnknownPercent is the out-of-range sentinel used before the first
// fuel-gauge report arrives.
const UnknownPercent = -1

// Level is the shared last-known battery percentage.
type Level struct {
	pct atomic.Int64
}

// NewLevel creates a Level initialized to unknown.
func NewLevel() *Level {
	l := &Level{}
	l.pct.Store(UnknownPercent)
	return l
}

// Set records a percentage. Out-of-range values are stored as-is; the
// color policy maps them to the missing color.
func (l *Level) Set(pct int) {
	l.pct.Store(int64(pct))
}

// Get returns the last recorded percentage.
func (l *Level) Get() int {
	return int(l.pct.Load())
}

// Bridge reacts to battery state change events. The display only needs
// refreshing while charging with battery-level coloring enabled; in
// every other case the update is recorded and nothing is touched (the
// lines belong to the external display while not charging).
type Bridge struct {
	store    *state.Store
	level    *Level
	coloring bool
	apply    func()
}

// NewBridge creates a Bridge. apply re-asserts the charging color and
// is only invoked while the store reads charging.
func NewBridge(store *state.Store, level *Level, coloring bool, apply func()) *Bridge {
	return &Bridge{
		store:    store,
		level:    level,
		coloring: coloring,
		apply:    apply,
	}
}

// Handle processes one battery state change.
func (b *Bridge) Handle(e events.BatteryStateChanged) {
	b.level.Set(e.Percent)

	if !b.coloring {
		return
	}
	if !b.store.Get() {
		return
	}
	b.apply()
}
