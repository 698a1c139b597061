//go:build linux

package gpio

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
)

// RealStat reads the STAT line from actual hardware using the Linux
// GPIO character device, with kernel edge detection on both edges.
type RealStat struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line

	mu     sync.Mutex
	onEdge func()
}

// NewRealStat requests the STAT pin as a pull-up input with both-edge
// event detection. The pull-up keeps the line high while the charger's
// open-drain STAT output is released (not charging).
func NewRealStat(chipName string, pin int) (*RealStat, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	s := &RealStat{chip: chip}

	line, err := chip.RequestLine(pin,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(s.handleEvent))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request STAT pin %d: %w", pin, err)
	}
	s.line = line

	return s, nil
}

// ReadRaw returns the instantaneous raw level of the STAT line.
func (s *RealStat) ReadRaw() (int, error) {
	v, err := s.line.Value()
	if err != nil {
		return 0, fmt.Errorf("read STAT pin: %w", err)
	}
	return v, nil
}

// OnEdge installs the edge callback. Edges observed before a callback
// is installed are dropped; bootstrap establishes the initial state by
// direct sampling, so nothing is lost.
func (s *RealStat) OnEdge(fn func()) {
	s.mu.Lock()
	s.onEdge = fn
	s.mu.Unlock()
}

func (s *RealStat) handleEvent(gpiocdev.LineEvent) {
	s.mu.Lock()
	fn := s.onEdge
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Close releases the STAT line.
func (s *RealStat) Close() error {
	var errs []error
	if s.line != nil {
		if err := s.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close STAT pin: %w", err))
		}
	}
	if s.chip != nil {
		if err := s.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealOutputs drives the three indicator lines on actual hardware.
type RealOutputs struct {
	chip  *gpiocdev.Chip
	red   *gpiocdev.Line
	green *gpiocdev.Line
	blue  *gpiocdev.Line
}

// offLevel is the physical "off" level for a common-anode LED: the
// line is held high so no current flows through the cathode.
const offLevel = 1

// NewRealOutputs requests the three indicator pins as outputs, initially
// off. If none of the three can be acquired the error wraps ErrNoOutputs
// (supported capability-absent deployment); if only some can be acquired
// it wraps ErrPartialOutputs (misconfiguration).
func NewRealOutputs(chipName string, pinRed, pinGreen, pinBlue int) (*RealOutputs, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	o := &RealOutputs{chip: chip}

	pins := []struct {
		name string
		pin  int
		dst  **gpiocdev.Line
	}{
		{"red", pinRed, &o.red},
		{"green", pinGreen, &o.green},
		{"blue", pinBlue, &o.blue},
	}

	var acquired int
	var firstErr error
	var failing string
	for _, p := range pins {
		line, err := chip.RequestLine(p.pin, gpiocdev.AsOutput(offLevel))
		if err != nil {
			if firstErr == nil {
				firstErr = err
				failing = p.name
			}
			continue
		}
		*p.dst = line
		acquired++
	}

	switch acquired {
	case 3:
		return o, nil
	case 0:
		o.closeLines()
		chip.Close()
		return nil, fmt.Errorf("%w (last error on %s: %v)", ErrNoOutputs, failing, firstErr)
	default:
		o.closeLines()
		chip.Close()
		return nil, fmt.Errorf("%w: %s pin failed: %v", ErrPartialOutputs, failing, firstErr)
	}
}

// SetValues writes the raw physical levels to the three lines.
func (o *RealOutputs) SetValues(red, green, blue int) error {
	if err := o.red.SetValue(red); err != nil {
		return fmt.Errorf("set red pin: %w", err)
	}
	if err := o.green.SetValue(green); err != nil {
		return fmt.Errorf("set green pin: %w", err)
	}
	if err := o.blue.SetValue(blue); err != nil {
		return fmt.Errorf("set blue pin: %w", err)
	}
	return nil
}

// Close forces all lines off and releases them. The off write keeps the
// LED dark if the process exits while charging.
func (o *RealOutputs) Close() error {
	o.SetValues(offLevel, offLevel, offLevel)

	var errs []error
	errs = o.closeLines()
	if o.chip != nil {
		if err := o.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func (o *RealOutputs) closeLines() []error {
	var errs []error
	for _, l := range []*gpiocdev.Line{o.red, o.green, o.blue} {
		if l == nil {
			continue
		}
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
