package indicator

import (
	"log"

	"github.com/sweeney/charge-indicator/internal/gpio"
	"github.com/sweeney/charge-indicator/internal/logic"
)

// Driven actuates real output lines. The LED is wired common-anode, so
// a channel is lit by driving its line low; Driven owns that inversion
// and callers speak in logical on/off only.
type Driven struct {
	lines gpio.OutputLines
}

// NewDriven creates an actuator over the given output lines.
func NewDriven(lines gpio.OutputLines) *Driven {
	return &Driven{lines: lines}
}

// SetChannels writes the vector to the lines. Write failures are logged
// and absorbed: a missed write is corrected by the next suppression
// pass, and no caller has a useful way to handle the error.
func (d *Driven) SetChannels(c logic.Channels) {
	if err := d.lines.SetValues(level(c.Red), level(c.Green), level(c.Blue)); err != nil {
		log.Printf("indicator: write failed: %v", err)
	}
}

// level maps logical on to the physical common-anode level (low = lit).
func level(on bool) int {
	if on {
		return 0
	}
	return 1
}
