package indicator

import "github.com/sweeney/charge-indicator/internal/logic"

// Noop implements Actuator for deployments without LED wiring.
// Every call succeeds and does nothing; charge detection keeps working.
type Noop struct{}

// NewNoop creates a no-op actuator.
func NewNoop() Noop {
	return Noop{}
}

// SetChannels does nothing.
func (Noop) SetChannels(logic.Channels) {}
