package gpio

import (
	"errors"
	"sync"
)

// FakeStat is a test double that returns scripted raw levels.
type FakeStat struct {
	mu sync.Mutex

	// Levels contains scripted raw values to return.
	// Each call to ReadRaw() consumes the next level; once exhausted
	// the last level is returned repeatedly.
	Levels []int

	// index tracks current position in Levels.
	index int

	// Closed tracks if Close was called.
	Closed bool

	// ReadError, if set, will be returned by ReadRaw().
	ReadError error

	onEdge func()
}

// NewFakeStat creates a FakeStat with the given scripted levels.
func NewFakeStat(levels ...int) *FakeStat {
	return &FakeStat{Levels: levels}
}

// ReadRaw returns the next scripted level.
func (f *FakeStat) ReadRaw() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ReadError != nil {
		return 0, f.ReadError
	}
	if len(f.Levels) == 0 {
		return 0, errors.New("no levels configured")
	}

	level := f.Levels[f.index]
	if f.index < len(f.Levels)-1 {
		f.index++
	}
	return level, nil
}

// OnEdge installs the edge callback.
func (f *FakeStat) OnEdge(fn func()) {
	f.mu.Lock()
	f.onEdge = fn
	f.mu.Unlock()
}

// TriggerEdge invokes the installed edge callback, simulating a
// hardware edge event.
func (f *FakeStat) TriggerEdge() {
	f.mu.Lock()
	fn := f.onEdge
	f.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// SetLevels replaces the script and rewinds.
func (f *FakeStat) SetLevels(levels ...int) {
	f.mu.Lock()
	f.Levels = levels
	f.index = 0
	f.mu.Unlock()
}

// Close marks the reader as closed.
func (f *FakeStat) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// Write is a single recorded output write (raw physical levels).
type Write struct {
	Red   int
	Green int
	Blue  int
}

// FakeOutputs records output writes for test assertions.
type FakeOutputs struct {
	mu sync.Mutex

	// Writes contains every SetValues call in order.
	Writes []Write

	// SetError, if set, will be returned by SetValues.
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeOutputs creates a FakeOutputs for testing.
func NewFakeOutputs() *FakeOutputs {
	return &FakeOutputs{}
}

// SetValues records the write.
func (f *FakeOutputs) SetValues(red, green, blue int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.SetError != nil {
		return f.SetError
	}
	f.Writes = append(f.Writes, Write{Red: red, Green: green, Blue: blue})
	return nil
}

// Last returns the most recent write, if any.
func (f *FakeOutputs) Last() (Write, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.Writes) == 0 {
		return Write{}, false
	}
	return f.Writes[len(f.Writes)-1], true
}

// Count returns the number of recorded writes.
func (f *FakeOutputs) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Writes)
}

// Close marks the outputs as closed.
func (f *FakeOutputs) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// Reset clears recorded writes.
func (f *FakeOutputs) Reset() {
	f.mu.Lock()
	f.Writes = nil
	f.Closed = false
	f.SetError = nil
	f.mu.Unlock()
}
