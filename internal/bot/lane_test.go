package bot

import (
	"testing"
	"time"
)

func TestLaneDrainsInOrderAfterClose(t *testing.T) {
	l := newLane()
	for i := 1; i <= 100; i++ {
		l.push(Event{ChatID: int64(i)})
	}
	l.close()

	var got []int64
	done := make(chan struct{})
	go func() {
		l.drain(func(ev Event) { got = append(got, ev.ChatID) })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("drain did not return")
	}
	if len(got) != 100 {
		t.Fatalf("handled %d events, want 100", len(got))
	}
	for i, id := range got {
		if id != int64(i+1) {
			t.Fatalf("event %d out of order: %d", i, id)
		}
	}
}

func TestLaneWaitsForPush(t *testing.T) {
	l := newLane()
	handled := make(chan int64, 1)
	done := make(chan struct{})
	go func() {
		l.drain(func(ev Event) { handled <- ev.ChatID })
		close(done)
	}()

	l.push(Event{ChatID: 9})
	select {
	case id := <-handled:
		if id != 9 {
			t.Errorf("got %d", id)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event not handled")
	}

	l.close()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("drain did not return after close")
	}
}
