package indicator

import (
	"errors"
	"testing"

	"github.com/sweeney/charge-indicator/internal/gpio"
	"github.com/sweeney/charge-indicator/internal/logic"
)

func TestDrivenInversion(t *testing.T) {
	// Common-anode wiring: logical on = physical low.
	cases := []struct {
		channels logic.Channels
		want     gpio.Write
	}{
		{logic.Channels{}, gpio.Write{Red: 1, Green: 1, Blue: 1}},
		{logic.Channels{Red: true}, gpio.Write{Red: 0, Green: 1, Blue: 1}},
		{logic.Channels{Red: true, Blue: true}, gpio.Write{Red: 0, Green: 1, Blue: 0}},
		{logic.Channels{Red: true, Green: true, Blue: true}, gpio.Write{Red: 0, Green: 0, Blue: 0}},
	}

	for _, c := range cases {
		outputs := gpio.NewFakeOutputs()
		d := NewDriven(outputs)
		d.SetChannels(c.channels)

		got, ok := outputs.Last()
		if !ok {
			t.Fatalf("%+v: no write recorded", c.channels)
		}
		if got != c.want {
			t.Errorf("%+v: wrote %+v, want %+v", c.channels, got, c.want)
		}
	}
}

func TestDrivenIdempotent(t *testing.T) {
	outputs := gpio.NewFakeOutputs()
	d := NewDriven(outputs)

	v := logic.Channels{Red: true, Blue: true}
	d.SetChannels(v)
	first, _ := outputs.Last()
	d.SetChannels(v)
	second, _ := outputs.Last()

	if first != second {
		t.Errorf("repeated write differs: %+v vs %+v", first, second)
	}
}

func TestDrivenAbsorbsWriteErrors(t *testing.T) {
	outputs := gpio.NewFakeOutputs()
	outputs.SetError = errors.New("line gone")
	d := NewDriven(outputs)

	// Must not panic; the error is logged and dropped.
	d.SetChannels(logic.Channels{Red: true})
}

func TestNoopIsSafe(t *testing.T) {
	n := NewNoop()
	n.SetChannels(logic.Channels{})
	n.SetChannels(logic.Channels{Red: true, Green: true, Blue: true})
}

func TestFakeRecordsCalls(t *testing.T) {
	f := NewFake()
	if _, ok := f.Last(); ok {
		t.Error("expected no calls initially")
	}

	f.SetChannels(logic.Channels{Red: true})
	f.SetChannels(logic.Channels{})

	if f.Count() != 2 {
		t.Fatalf("expected 2 calls, got %d", f.Count())
	}
	last, _ := f.Last()
	if last != (logic.Channels{}) {
		t.Errorf("last call: got %+v, want all off", last)
	}
}
