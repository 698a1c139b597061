// Package gpio provides access to the charge-status input and the RGB
// output lines with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementations allow testing without hardware.
package gpio

import "errors"

// StatReader reads the raw level of the charge-status (STAT) line.
type StatReader interface {
	// ReadRaw returns the instantaneous raw level (0 or 1).
	// The line is active-low: 0 means the charger is driving it.
	ReadRaw() (int, error)

	// OnEdge installs the edge callback. The callback runs on the
	// driver's event goroutine and must not block; hand off to a
	// worker instead.
	OnEdge(fn func())

	// Close releases the line.
	Close() error
}

// OutputLines drives the three indicator lines with physical levels.
// Values are raw (0 or 1); polarity handling belongs to the caller.
type OutputLines interface {
	// SetValues writes all three lines.
	SetValues(red, green, blue int) error

	// Close forces the lines off and releases them.
	Close() error
}

// ErrNoOutputs reports that none of the three output lines could be
// acquired. This is the supported capability-absent deployment, not a
// failure: callers degrade to a no-op actuator.
var ErrNoOutputs = errors.New("gpio: no output lines available")

// ErrPartialOutputs reports that only some of the three output lines
// could be acquired. Partial wiring is a misconfiguration and fatal.
var ErrPartialOutputs = errors.New("gpio: output lines partially available")

// Pin definitions (BCM numbering).
const (
	DefaultChip     = "gpiochip0"
	DefaultPinStat  = 17
	DefaultPinRed   = 23
	DefaultPinGreen = 24
	DefaultPinBlue  = 25
)
