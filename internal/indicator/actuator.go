// Package indicator drives the RGB charge LED. The Driven actuator
// writes real output lines; Noop stands in when the LED is not wired,
// so callers never branch on hardware presence.
package indicator

import "github.com/sweeney/charge-indicator/internal/logic"

// Actuator applies a channel vector to the indicator.
// Implementations must be idempotent: writing the same vector twice is
// indistinguishable from writing it once. Writes from the edge path,
// the suppression scheduler, and the battery bridge interleave without
// locking; idempotence is what makes that safe.
type Actuator interface {
	SetChannels(c logic.Channels)
}
