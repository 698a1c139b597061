//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealStat is not available on non-Linux platforms.
type RealStat struct{}

// NewRealStat returns an error on non-Linux platforms.
func NewRealStat(chipName string, pin int) (*RealStat, error) {
	return nil, errUnsupported
}

// ReadRaw is not implemented on non-Linux platforms.
func (s *RealStat) ReadRaw() (int, error) { return 0, errUnsupported }

// OnEdge is not implemented on non-Linux platforms.
func (s *RealStat) OnEdge(fn func()) {}

// Close is not implemented on non-Linux platforms.
func (s *RealStat) Close() error { return nil }

// RealOutputs is not available on non-Linux platforms.
type RealOutputs struct{}

// NewRealOutputs returns an error on non-Linux platforms.
func NewRealOutputs(chipName string, pinRed, pinGreen, pinBlue int) (*RealOutputs, error) {
	return nil, errUnsupported
}

// SetValues is not implemented on non-Linux platforms.
func (o *RealOutputs) SetValues(red, green, blue int) error { return errUnsupported }

// Close is not implemented on non-Linux platforms.
func (o *RealOutputs) Close() error { return nil }
