// Package sensor debounces the charge-status line into the shared
// charging flag.
//
// Edge callbacks from the GPIO driver must not block, so the settle
// delay runs on a dedicated worker goroutine: the callback only posts a
// wake-up, the worker sleeps out the settle window, re-reads the line,
// and applies the result. Edges that arrive while a settle window is in
// flight coalesce into the pending wake-up; the post-settle re-read
// returns the instantaneous level, so the final state is always the one
// the hardware ended up in.
package sensor

import (
	"fmt"
	"log"
	"time"

	"github.com/sweeney/charge-indicator/internal/gpio"
	"github.com/sweeney/charge-indicator/internal/logic"
	"github.com/sweeney/charge-indicator/internal/state"
)

// Default timing. The settle delay rejects STAT glitches around an
// edge; the initial gap separates the two boot-time samples.
const (
	DefaultSettle     = 8 * time.Millisecond
	DefaultInitialGap = 10 * time.Millisecond
)

// Sensor owns the debounce path from edge to applied state.
type Sensor struct {
	stat   gpio.StatReader
	store  *state.Store
	apply  func(charging bool)
	settle time.Duration
	gap    time.Duration

	// onChange fires after a debounced edge that flipped the stored
	// state. Optional.
	onChange func(charging bool)

	sleep func(time.Duration) // injectable for tests

	kicks chan struct{}
	stop  chan struct{}
	done  chan struct{}
}

// New creates a Sensor. apply is invoked synchronously from the worker
// on every debounced edge, after the store is updated.
func New(stat gpio.StatReader, store *state.Store, apply func(charging bool), settle, initialGap time.Duration) *Sensor {
	if settle <= 0 {
		settle = DefaultSettle
	}
	if initialGap <= 0 {
		initialGap = DefaultInitialGap
	}
	return &Sensor{
		stat:   stat,
		store:  store,
		apply:  apply,
		settle: settle,
		gap:    initialGap,
		sleep:  time.Sleep,
		kicks:  make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// OnChange installs a transition callback. Must be called before Start.
func (s *Sensor) OnChange(fn func(charging bool)) {
	s.onChange = fn
}

// InitialState establishes the boot-time charging state with two
// samples one gap apart. Both must agree to report charging; a
// disagreement means the line was still settling and the conservative
// default is "not charging". The result is stored and applied.
func (s *Sensor) InitialState() (bool, error) {
	r1, err := s.stat.ReadRaw()
	if err != nil {
		return false, fmt.Errorf("initial sample 1: %w", err)
	}
	s.sleep(s.gap)
	r2, err := s.stat.ReadRaw()
	if err != nil {
		return false, fmt.Errorf("initial sample 2: %w", err)
	}

	charging := logic.InitialCharging(logic.InterpretRaw(r1), logic.InterpretRaw(r2))
	s.store.Set(charging)
	s.apply(charging)
	return charging, nil
}

// Notify wakes the debounce worker. Safe to call from the GPIO event
// goroutine: it never blocks. Multiple notifies during one settle
// window coalesce.
func (s *Sensor) Notify() {
	select {
	case s.kicks <- struct{}{}:
	default:
	}
}

// Start launches the debounce worker.
func (s *Sensor) Start() {
	go s.run()
}

// Stop terminates the worker and waits for it to exit. Only used by
// tests and process shutdown; the daemon otherwise runs the worker for
// process lifetime.
func (s *Sensor) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Sensor) run() {
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			return
		case <-s.kicks:
			s.handleEdge()
		}
	}
}

// handleEdge performs the deferred debounce: settle, re-read, store,
// apply. A read failure keeps the previous state; the next edge or
// suppression pass corrects any divergence.
func (s *Sensor) handleEdge() {
	s.sleep(s.settle)

	raw, err := s.stat.ReadRaw()
	if err != nil {
		log.Printf("sensor: read after edge failed: %v", err)
		return
	}

	charging := logic.InterpretRaw(raw)
	prev := s.store.Get()
	s.store.Set(charging)
	s.apply(charging)

	if charging != prev && s.onChange != nil {
		s.onChange(charging)
	}
}
