package vue

import (
	"testing"

	"github.com/yeyan1996/vue/pkg/reactive"
)

func TestDevModeWarningSink(t *testing.T) {
	SetDevMode(true)
	var got []string
	OnWarning(func(msg string) { got = append(got, msg) })
	defer func() {
		SetDevMode(false)
		OnWarning(nil)
	}()

	m := reactive.NewMap(map[string]any{})
	// Deleting a missing key is a no-op and must not warn; adding via
	// Set must go through without warnings either.
	Set(m, "a", 1)
	Del(m, "missing")
	if len(got) != 0 {
		t.Errorf("expected no warnings, got %v", got)
	}
}

func TestSetIsReactiveThroughRoot(t *testing.T) {
	converted, _ := reactive.Observe(map[string]any{"obj": map[string]any{"a": 1}}, false)
	m := converted.(*reactive.Map)

	runs := 0
	w := reactive.NewWatcher(nil, func() any {
		runs++
		return m.Get("obj")
	}, nil, reactive.WatcherOptions{})
	defer w.Teardown()

	Set(m.Get("obj"), "b", 2)
	ticked := false
	NextTick(func() { ticked = true })
	Flush()

	if runs != 2 {
		t.Errorf("expected watcher rerun after Set, got %d runs", runs)
	}
	if !ticked {
		t.Errorf("expected NextTick callback after flush")
	}
}
