package reactive

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrInfiniteUpdateLoop is reported when a single watcher is re-queued
// more than maxUpdateCount times within one flush, indicating an update
// that keeps re-triggering itself. The flush is abandoned rather than
// looping forever.
var ErrInfiniteUpdateLoop = errors.New("reactive: infinite update loop in watcher")

// ErrorHandler receives errors recovered from user code (watcher getters
// and callbacks, lifecycle hooks, scheduled callbacks) together with a
// short description of where the error occurred.
type ErrorHandler func(err error, context string)

var (
	errorHandlerMu sync.RWMutex
	errorHandler   ErrorHandler = defaultErrorHandler
)

func defaultErrorHandler(err error, context string) {
	fmt.Fprintf(os.Stderr, "reactive: error in %s: %v\n", context, err)
}

// SetErrorHandler replaces the central error handler. Passing nil restores
// the default stderr handler.
func SetErrorHandler(h ErrorHandler) {
	errorHandlerMu.Lock()
	defer errorHandlerMu.Unlock()
	if h == nil {
		errorHandler = defaultErrorHandler
		return
	}
	errorHandler = h
}

// HandleError routes an error from user code to the central handler.
// It never panics; a failing handler would take the flush down with it.
func HandleError(err error, context string) {
	errorHandlerMu.RLock()
	h := errorHandler
	errorHandlerMu.RUnlock()
	h(err, context)
}

// invokeGuarded runs fn with panics recovered and routed to the central
// error handler. Used at every user-code boundary where one failing
// callback must not break the surrounding flush.
func invokeGuarded(context string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			HandleError(recoveredError(r), context)
		}
	}()
	fn()
}

func recoveredError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
