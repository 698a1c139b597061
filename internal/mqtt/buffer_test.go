package mqtt

import (
	"fmt"
	"testing"
)

func TestRingBufferPushDrain(t *testing.T) {
	r := newRingBuffer(4)

	if got := r.drain(); got != nil {
		t.Errorf("drain of empty buffer: got %v, want nil", got)
	}

	r.push(bufferedMsg{topic: "a"})
	r.push(bufferedMsg{topic: "b"})
	r.push(bufferedMsg{topic: "c"})

	if r.len() != 3 {
		t.Fatalf("len: got %d, want 3", r.len())
	}

	msgs := r.drain()
	if len(msgs) != 3 {
		t.Fatalf("drained %d messages, want 3", len(msgs))
	}
	for i, want := range []string{"a", "b", "c"} {
		if msgs[i].topic != want {
			t.Errorf("message %d: got %q, want %q", i, msgs[i].topic, want)
		}
	}

	if r.len() != 0 {
		t.Errorf("len after drain: got %d, want 0", r.len())
	}
}

func TestRingBufferOverflowDropsOldest(t *testing.T) {
	r := newRingBuffer(3)

	for i := 0; i < 5; i++ {
		r.push(bufferedMsg{topic: fmt.Sprintf("m%d", i)})
	}

	msgs := r.drain()
	if len(msgs) != 3 {
		t.Fatalf("drained %d messages, want 3", len(msgs))
	}
	for i, want := range []string{"m2", "m3", "m4"} {
		if msgs[i].topic != want {
			t.Errorf("message %d: got %q, want %q", i, msgs[i].topic, want)
		}
	}
}

func TestRingBufferReuseAfterDrain(t *testing.T) {
	r := newRingBuffer(2)

	r.push(bufferedMsg{topic: "a"})
	r.drain()

	r.push(bufferedMsg{topic: "b"})
	r.push(bufferedMsg{topic: "c"})

	msgs := r.drain()
	if len(msgs) != 2 || msgs[0].topic != "b" || msgs[1].topic != "c" {
		t.Errorf("got %v", msgs)
	}
}
