// Package warn is the development-mode diagnostic channel shared by the
// reactive and vdom packages. Warnings report programmer errors (duplicate
// keys, invalid reactive additions, hydration mismatches) and never alter
// control flow.
package warn

import (
	"fmt"
	"os"
)

// Dev enables development diagnostics. Set at startup and not changed
// during runtime.
var Dev bool

var handler = func(msg string) {
	fmt.Fprintln(os.Stderr, "[vue warn] "+msg)
}

// SetHandler replaces the warning sink. Passing nil restores the default
// stderr handler.
func SetHandler(fn func(msg string)) {
	if fn == nil {
		handler = func(msg string) {
			fmt.Fprintln(os.Stderr, "[vue warn] "+msg)
		}
		return
	}
	handler = fn
}

// Warnf reports a diagnostic when Dev is enabled.
func Warnf(format string, args ...any) {
	if Dev {
		handler(fmt.Sprintf(format, args...))
	}
}
