// Package suppress re-asserts the charging color to win the output
// lines back from the external status-display daemon.
//
// A single apply-on-edge is not enough: the display may write the lines
// after the edge-driven apply and before the next real edge. Periodic
// re-assertion while charging bounds the visible wrong state to one
// active interval. While not charging the scheduler never touches the
// outputs (the transition already forced them off) and just naps on a
// longer interval. No lock is held anywhere; correctness rests on
// actuator idempotence and last-write-wins on the lines.
package suppress

import (
	"time"

	"github.com/sweeney/charge-indicator/internal/state"
)

// Default intervals. Active trades suppression strength (shorter means
// fewer visible display flickers) against background wake cost.
const (
	DefaultActiveInterval = 150 * time.Millisecond
	DefaultIdleInterval   = time.Second
)

// Scheduler is the perpetual re-assertion loop.
type Scheduler struct {
	store  *state.Store
	apply  func()
	active time.Duration
	idle   time.Duration

	stop chan struct{}
	done chan struct{}
}

// New creates a Scheduler. apply re-asserts the current charging color
// and is only invoked while the store reads charging.
func New(store *state.Store, apply func(), active, idle time.Duration) *Scheduler {
	if active <= 0 {
		active = DefaultActiveInterval
	}
	if idle <= 0 {
		idle = DefaultIdleInterval
	}
	return &Scheduler{
		store:  store,
		apply:  apply,
		active: active,
		idle:   idle,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start launches the loop goroutine.
func (s *Scheduler) Start() {
	go s.run()
}

// Stop terminates the loop and waits for it to exit. In the daemon the
// loop runs for process lifetime; Stop exists for tests and shutdown.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Scheduler) run() {
	defer close(s.done)
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-timer.C:
		}

		wait := s.idle
		if s.store.Get() {
			s.apply()
			wait = s.active
		}
		timer.Reset(wait)
	}
}
