// Package vue is the top-level entry point for the framework: global
// development-mode switches and re-exports of the handful of functions
// applications reach for without importing the subpackages.
package vue

import (
	"github.com/yeyan1996/vue/internal/warn"
	"github.com/yeyan1996/vue/pkg/reactive"
)

// SetDevMode toggles development diagnostics (duplicate key detection,
// invalid reactive writes, hydration mismatch reports). Set it once at
// startup.
func SetDevMode(enabled bool) {
	warn.Dev = enabled
}

// OnWarning replaces the development warning sink. Passing nil restores
// the default stderr handler.
func OnWarning(fn func(msg string)) {
	warn.SetHandler(fn)
}

// OnError replaces the handler for errors recovered from watcher
// getters and callbacks.
func OnError(h reactive.ErrorHandler) {
	reactive.SetErrorHandler(h)
}

// Set adds a reactive property to a container, notifying watchers of
// the container. Plain map writes after observation are not reactive;
// this is the escape hatch.
func Set(target any, key any, value any) any {
	return reactive.Set(target, key, value)
}

// Del removes a reactive property from a container, notifying watchers
// of the container.
func Del(target any, key any) {
	reactive.Del(target, key)
}

// NextTick registers fn to run after the next flush completes.
func NextTick(fn func()) {
	reactive.NextTick(fn)
}

// Flush drains pending watcher updates now. Hosts call this at their
// tick boundary; tests call it after writes.
func Flush() {
	reactive.Flush()
}
