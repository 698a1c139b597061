package sensor

import (
	"errors"
	"testing"
	"time"

	"github.com/sweeney/charge-indicator/internal/gpio"
	"github.com/sweeney/charge-indicator/internal/state"
)

// newTestSensor returns a sensor with sleeps disabled and an apply
// function that records every call.
func newTestSensor(stat *gpio.FakeStat) (*Sensor, *state.Store, *[]bool) {
	store := state.NewStore(false)
	var applied []bool
	s := New(stat, store, func(charging bool) {
		applied = append(applied, charging)
	}, time.Millisecond, time.Millisecond)
	s.sleep = func(time.Duration) {}
	return s, store, &applied
}

func TestInitialStateBothCharging(t *testing.T) {
	stat := gpio.NewFakeStat(0, 0) // both samples active-low
	s, store, applied := newTestSensor(stat)

	charging, err := s.InitialState()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !charging {
		t.Error("expected charging=true for samples (0, 0)")
	}
	if !store.Get() {
		t.Error("store should hold charging=true")
	}
	if len(*applied) != 1 || !(*applied)[0] {
		t.Errorf("expected one apply(true), got %v", *applied)
	}
}

func TestInitialStateDisagreement(t *testing.T) {
	cases := [][]int{{0, 1}, {1, 0}, {1, 1}}
	for _, levels := range cases {
		stat := gpio.NewFakeStat(levels...)
		s, store, _ := newTestSensor(stat)

		charging, err := s.InitialState()
		if err != nil {
			t.Fatalf("levels %v: unexpected error: %v", levels, err)
		}
		if charging {
			t.Errorf("levels %v: expected conservative not-charging", levels)
		}
		if store.Get() {
			t.Errorf("levels %v: store should hold false", levels)
		}
	}
}

func TestInitialStateReadError(t *testing.T) {
	stat := gpio.NewFakeStat(0)
	stat.ReadError = errors.New("line gone")
	s, _, _ := newTestSensor(stat)

	if _, err := s.InitialState(); err == nil {
		t.Error("expected error when the initial read fails")
	}
}

func TestHandleEdgeToCharging(t *testing.T) {
	stat := gpio.NewFakeStat(0) // post-settle re-read: charging
	s, store, applied := newTestSensor(stat)

	s.handleEdge()

	if !store.Get() {
		t.Error("store should hold charging=true after edge")
	}
	if len(*applied) != 1 || !(*applied)[0] {
		t.Errorf("expected one apply(true), got %v", *applied)
	}
}

func TestHandleEdgeToNotCharging(t *testing.T) {
	stat := gpio.NewFakeStat(1)
	s, store, applied := newTestSensor(stat)
	store.Set(true)

	s.handleEdge()

	if store.Get() {
		t.Error("store should hold charging=false after edge")
	}
	if len(*applied) != 1 || (*applied)[0] {
		t.Errorf("expected one apply(false), got %v", *applied)
	}
}

func TestHandleEdgeReadErrorKeepsState(t *testing.T) {
	stat := gpio.NewFakeStat(0)
	stat.ReadError = errors.New("transient")
	s, store, applied := newTestSensor(stat)
	store.Set(true)

	s.handleEdge()

	if !store.Get() {
		t.Error("read error must not change the stored state")
	}
	if len(*applied) != 0 {
		t.Errorf("read error must not apply, got %v", *applied)
	}
}

func TestOnChangeFiresOnTransitionsOnly(t *testing.T) {
	stat := gpio.NewFakeStat(0)
	s, _, _ := newTestSensor(stat)

	var changes []bool
	s.OnChange(func(charging bool) { changes = append(changes, charging) })

	s.handleEdge() // false -> true: fires
	s.handleEdge() // true -> true: no change
	stat.SetLevels(1)
	s.handleEdge() // true -> false: fires

	if len(changes) != 2 || !changes[0] || changes[1] {
		t.Errorf("expected transitions [true false], got %v", changes)
	}
}

func TestNotifyCoalesces(t *testing.T) {
	stat := gpio.NewFakeStat(0)
	s, _, _ := newTestSensor(stat)

	// Worker not running: repeated notifies must never block.
	for i := 0; i < 10; i++ {
		s.Notify()
	}
}

func TestWorkerHandlesNotify(t *testing.T) {
	stat := gpio.NewFakeStat(0)
	store := state.NewStore(false)
	done := make(chan bool, 1)
	s := New(stat, store, func(charging bool) {
		done <- charging
	}, time.Millisecond, time.Millisecond)

	s.Start()
	defer s.Stop()

	stat.TriggerEdge() // no callback installed yet; must be harmless
	stat.OnEdge(s.Notify)
	stat.TriggerEdge()

	select {
	case charging := <-done:
		if !charging {
			t.Error("expected apply(true)")
		}
	case <-time.After(time.Second):
		t.Fatal("worker did not process the edge")
	}
	if !store.Get() {
		t.Error("store should hold charging=true")
	}
}
