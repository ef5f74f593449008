package reactive

import (
	"testing"

	"github.com/petermattis/goid"
)

// Goroutine ids are never reused, so any state left behind after a
// goroutine finishes its reactive work is retained forever.
func TestTrackStateReleasedWhenIdle(t *testing.T) {
	done := make(chan int64)
	go func() {
		m := NewMap(map[string]any{"n": 1})
		w := NewWatcher(nil, func() any { return m.Get("n") }, nil, WatcherOptions{})
		m.Set("n", 2)
		Flush()
		w.Teardown()
		Untracked(func() { _ = m.Get("n") })
		WithoutObserving(func() { _ = m.Get("n") })
		done <- goid.Get()
	}()
	gid := <-done
	if _, ok := trackStates.Load(gid); ok {
		t.Fatalf("tracking state retained for goroutine %d", gid)
	}
}

func TestTrackStateSurvivesNestedEvaluation(t *testing.T) {
	m := NewMap(map[string]any{"n": 1})
	c := NewComputed(nil, func() any { return m.Get("n").(int) * 2 })
	var got any
	w := NewWatcher(nil, func() any {
		// Computed evaluation pushes its own target; the outer
		// watcher must be restored afterwards.
		got = c.Get()
		return got
	}, nil, WatcherOptions{})
	if got != 2 {
		t.Fatalf("got %v, want 2", got)
	}
	m.Set("n", 3)
	Flush()
	if got != 6 {
		t.Fatalf("after write got %v, want 6", got)
	}
	w.Teardown()
}
