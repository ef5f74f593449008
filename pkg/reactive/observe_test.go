package reactive

import (
	"math"
	"testing"
)

func TestObserveConvertsNestedGraph(t *testing.T) {
	v, ob := Observe(map[string]any{
		"user": map[string]any{"name": "ada"},
		"tags": []any{"a", "b"},
	}, false)

	if ob == nil {
		t.Fatal("expected an observer for a plain map")
	}
	m, ok := v.(*Map)
	if !ok {
		t.Fatalf("expected *Map, got %T", v)
	}
	if _, ok := m.Get("user").(*Map); !ok {
		t.Errorf("nested map not converted, got %T", m.Get("user"))
	}
	if _, ok := m.Get("tags").(*Slice); !ok {
		t.Errorf("nested slice not converted, got %T", m.Get("tags"))
	}
}

func TestObserveIdentityPreserved(t *testing.T) {
	m := NewMap(map[string]any{"n": 1})

	v, ob := Observe(m, false)
	if v != any(m) {
		t.Error("re-observing a converted container must return the same container")
	}
	if ob != m.Observer() {
		t.Error("re-observing must return the existing observer")
	}
}

func TestSetNotifiesOnChangeOnly(t *testing.T) {
	m := NewMap(map[string]any{"n": 1})
	runs := 0
	NewWatcher(nil, func() any {
		runs++
		return m.Get("n")
	}, nil, WatcherOptions{Sync: true})

	m.Set("n", 1) // unchanged
	if runs != 1 {
		t.Errorf("expected no re-run for equal write, got %d runs", runs)
	}
	m.Set("n", 2)
	if runs != 2 {
		t.Errorf("expected re-run for changed write, got %d runs", runs)
	}
}

func TestSetNaNEqualsNaN(t *testing.T) {
	m := NewMap(map[string]any{"x": math.NaN()})
	runs := 0
	NewWatcher(nil, func() any {
		runs++
		return m.Get("x")
	}, nil, WatcherOptions{Sync: true})

	m.Set("x", math.NaN())
	if runs != 1 {
		t.Errorf("NaN -> NaN write must not notify, got %d runs", runs)
	}
}

func TestPlainAddIsNotObserved(t *testing.T) {
	m := NewMap(map[string]any{"a": 1})
	runs := 0
	NewWatcher(nil, func() any {
		runs++
		return m.Get("b")
	}, nil, WatcherOptions{Sync: true})

	m.Set("b", 2) // key was never defined reactively
	if runs != 1 {
		t.Errorf("plain add must not notify, got %d runs", runs)
	}
	if m.Get("b") != 2 {
		t.Errorf("plain add must still be readable, got %v", m.Get("b"))
	}
}

func TestSetDefinesReactiveField(t *testing.T) {
	m := NewMap(map[string]any{"a": 1})

	// Reading the container through a reactive field registers on the
	// container dep via the child observer, so Set on m reaches here.
	outer := NewMap(map[string]any{"inner": m})
	containerRuns := 0
	NewWatcher(nil, func() any {
		containerRuns++
		return outer.Get("inner")
	}, nil, WatcherOptions{Sync: true})

	Set(m, "b", 2)
	if containerRuns != 2 {
		t.Errorf("Set must notify container dependents, got %d runs", containerRuns)
	}

	// The new field is now reactive.
	fieldRuns := 0
	NewWatcher(nil, func() any {
		fieldRuns++
		return m.Get("b")
	}, nil, WatcherOptions{Sync: true})
	m.Set("b", 3)
	if fieldRuns != 2 {
		t.Errorf("field added via Set must be reactive, got %d runs", fieldRuns)
	}
}

func TestDelNotifiesContainerDependents(t *testing.T) {
	m := NewMap(map[string]any{"a": 1, "b": 2})
	outer := NewMap(map[string]any{"inner": m})
	runs := 0
	NewWatcher(nil, func() any {
		runs++
		return outer.Get("inner")
	}, nil, WatcherOptions{Sync: true})

	Del(m, "b")
	if runs != 2 {
		t.Errorf("Del must notify container dependents, got %d runs", runs)
	}
	if m.Has("b") {
		t.Error("deleted key must be gone")
	}
}

func TestSliceMutatorsNotify(t *testing.T) {
	s := NewSlice([]any{1, 2, 3})
	runs := 0
	NewWatcher(nil, func() any {
		runs++
		return s.Len()
	}, nil, WatcherOptions{Sync: true})

	s.Push(4)
	s.Pop()
	s.Shift()
	s.Unshift(0)
	s.Splice(1, 1, 9)
	s.Sort(func(a, b any) bool { return a.(int) < b.(int) })
	s.Reverse()

	if runs != 8 {
		t.Errorf("expected 8 runs (1 initial + 7 mutations), got %d", runs)
	}
}

func TestSliceInsertedElementsAreObserved(t *testing.T) {
	s := NewSlice(nil)
	s.Push(map[string]any{"n": 1})

	item, ok := s.Get(0).(*Map)
	if !ok {
		t.Fatalf("pushed map not converted, got %T", s.Get(0))
	}
	if item.Get("n") != 1 {
		t.Errorf("expected 1, got %v", item.Get("n"))
	}
}

func TestWithoutObserving(t *testing.T) {
	var v any
	WithoutObserving(func() {
		v, _ = Observe(map[string]any{"n": 1}, false)
	})
	if _, ok := v.(*Map); ok {
		t.Error("conversion must be suspended inside WithoutObserving")
	}
}
