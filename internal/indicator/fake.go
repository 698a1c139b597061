package indicator

import (
	"sync"

	"github.com/sweeney/charge-indicator/internal/logic"
)

// Fake records applied channel vectors for test assertions.
// Safe for concurrent use: the suppression scheduler and the sensor
// worker both write during integration tests.
type Fake struct {
	mu    sync.Mutex
	calls []logic.Channels
}

// NewFake creates a Fake for testing.
func NewFake() *Fake {
	return &Fake{}
}

// SetChannels records the vector.
func (f *Fake) SetChannels(c logic.Channels) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

// Calls returns a copy of all recorded vectors in order.
func (f *Fake) Calls() []logic.Channels {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]logic.Channels, len(f.calls))
	copy(out, f.calls)
	return out
}

// Last returns the most recent vector, if any.
func (f *Fake) Last() (logic.Channels, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return logic.Channels{}, false
	}
	return f.calls[len(f.calls)-1], true
}

// Count returns the number of recorded calls.
func (f *Fake) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// Reset clears recorded calls.
func (f *Fake) Reset() {
	f.mu.Lock()
	f.calls = nil
	f.mu.Unlock()
}
