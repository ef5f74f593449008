package reactive

import (
	"errors"
	"testing"
)

func TestFlushBatchesWritesWithinOneTick(t *testing.T) {
	m := NewMap(map[string]any{"a": 1, "b": 2})
	runs := 0
	NewWatcher(nil, func() any {
		runs++
		return []any{m.Get("a"), m.Get("b")}
	}, nil, WatcherOptions{})

	m.Set("a", 10)
	m.Set("b", 20)
	m.Set("a", 30)
	if runs != 1 {
		t.Fatalf("watcher must not run before the flush, got %d runs", runs)
	}
	Flush()
	if runs != 2 {
		t.Errorf("three writes in one tick must coalesce into one run, got %d runs", runs)
	}
}

func TestFlushRunsInAscendingIDOrder(t *testing.T) {
	m := NewMap(map[string]any{"n": 1})
	var order []string

	parent := NewWatcher(nil, func() any {
		order = append(order, "parent")
		return m.Get("n")
	}, nil, WatcherOptions{})
	child := NewWatcher(nil, func() any {
		order = append(order, "child")
		return m.Get("n")
	}, nil, WatcherOptions{})
	if child.ID() <= parent.ID() {
		t.Fatal("ids must increase with creation order")
	}

	order = nil
	m.Set("n", 2)
	Flush()
	if len(order) != 2 || order[0] != "parent" || order[1] != "child" {
		t.Errorf("expected parent before child, got %v", order)
	}
}

func TestFlushReQueuesWatcherTriggeredDuringFlush(t *testing.T) {
	m := NewMap(map[string]any{"a": 1, "b": 1})

	// Earlier watcher reads b, which the later watcher writes: the
	// earlier id must be re-processed within the same flush.
	aRuns := 0
	NewWatcher(nil, func() any {
		aRuns++
		return m.Get("b")
	}, nil, WatcherOptions{})
	NewWatcher(nil, func() any {
		if m.Get("a").(int) > 1 {
			m.Set("b", 99)
		}
		return m.Get("a")
	}, nil, WatcherOptions{})

	m.Set("a", 2)
	Flush()
	if aRuns != 2 {
		t.Errorf("expected the b-watcher to run again in the same flush, got %d runs", aRuns)
	}
}

func TestInfiniteUpdateLoopDetected(t *testing.T) {
	var reported error
	SetErrorHandler(func(err error, context string) {
		if reported == nil {
			reported = err
		}
	})
	defer SetErrorHandler(nil)

	m := NewMap(map[string]any{"n": 0})
	NewWatcher(nil, func() any {
		// Each run mutates its own dependency.
		n := m.Get("n").(int)
		m.Set("n", n+1)
		return n
	}, nil, WatcherOptions{})

	m.Set("n", 1)
	Flush() // must terminate

	if !errors.Is(reported, ErrInfiniteUpdateLoop) {
		t.Errorf("expected ErrInfiniteUpdateLoop, got %v", reported)
	}
}

func TestAbandonedFlushSkipsUnranUpdatedHooks(t *testing.T) {
	SetErrorHandler(func(error, string) {})
	defer SetErrorHandler(nil)

	m := NewMap(map[string]any{"n": 0, "other": 0})

	// The lower id watcher mutates its own dependency until the update
	// cap abandons the flush, leaving the later watcher queued.
	NewWatcher(nil, func() any {
		n := m.Get("n").(int)
		m.Set("n", n+1)
		return n
	}, nil, WatcherOptions{})

	tailRuns := 0
	tailNotified := false
	NewWatcher(nil, func() any {
		tailRuns++
		return m.Get("other")
	}, nil, WatcherOptions{
		OnFlushed: func() { tailNotified = true },
	})

	m.Set("n", 1)
	m.Set("other", 1)
	Flush()

	if tailRuns != 1 {
		t.Fatalf("expected the tail watcher not to run in the abandoned flush, got %d runs", tailRuns)
	}
	if tailNotified {
		t.Errorf("updated hook fired for a watcher the abandoned flush never ran")
	}
}

func TestFlushContinuesPastFailingUserWatcher(t *testing.T) {
	var reported []error
	SetErrorHandler(func(err error, context string) {
		reported = append(reported, err)
	})
	defer SetErrorHandler(nil)

	m := NewMap(map[string]any{"n": 1})
	NewWatcher(nil, func() any {
		if m.Get("n").(int) > 1 {
			panic(errors.New("user watcher failed"))
		}
		return m.Get("n")
	}, nil, WatcherOptions{User: true})

	otherRuns := 0
	NewWatcher(nil, func() any {
		otherRuns++
		return m.Get("n")
	}, nil, WatcherOptions{})

	m.Set("n", 2)
	Flush()

	if len(reported) != 1 {
		t.Fatalf("expected 1 reported error, got %d", len(reported))
	}
	if otherRuns != 2 {
		t.Errorf("unrelated watcher must still run in the same flush, got %d runs", otherRuns)
	}
}

func TestNextTickRunsAfterFlush(t *testing.T) {
	m := NewMap(map[string]any{"n": 1})
	runs := 0
	NewWatcher(nil, func() any {
		runs++
		return m.Get("n")
	}, nil, WatcherOptions{})

	sawRuns := -1
	m.Set("n", 2)
	NextTick(func() {
		sawRuns = runs
	})
	Flush()
	if sawRuns != 2 {
		t.Errorf("NextTick callback must observe the flushed state, saw %d runs", sawRuns)
	}
}

func TestOnFlushedFiresInReverseOrder(t *testing.T) {
	m := NewMap(map[string]any{"n": 1})
	var order []string

	NewWatcher(nil, func() any { return m.Get("n") }, nil, WatcherOptions{
		OnFlushed: func() { order = append(order, "parent") },
	})
	NewWatcher(nil, func() any { return m.Get("n") }, nil, WatcherOptions{
		OnFlushed: func() { order = append(order, "child") },
	})

	m.Set("n", 2)
	Flush()
	if len(order) != 2 || order[0] != "child" || order[1] != "parent" {
		t.Errorf("updated notifications must fire child before parent, got %v", order)
	}
}

func TestBeforeHookRunsBeforeWatcher(t *testing.T) {
	m := NewMap(map[string]any{"n": 1})
	var order []string
	NewWatcher(nil, func() any {
		order = append(order, "run")
		return m.Get("n")
	}, nil, WatcherOptions{
		Before: func() { order = append(order, "before") },
	})

	order = nil
	m.Set("n", 2)
	Flush()
	if len(order) != 2 || order[0] != "before" || order[1] != "run" {
		t.Errorf("expected before then run, got %v", order)
	}
}
