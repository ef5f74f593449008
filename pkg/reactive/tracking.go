package reactive

import (
	"sync"

	"github.com/petermattis/goid"
)

// trackState holds the per-goroutine reactive bookkeeping: the stack of
// active Watchers and the conversion-suspension flag. Exactly one Watcher
// is the active observer at any instant on a goroutine; activation is a
// stack so nested evaluations (a computed read during a render) attribute
// dependencies to the innermost Watcher and restore the outer one on
// completion, including on panic.
type trackState struct {
	targets   []*Watcher
	observing bool
}

var trackStates sync.Map // goroutine id -> *trackState

// lookupTrackState returns the current goroutine's state without
// allocating one, so read-only lookups leave no entry behind.
func lookupTrackState() *trackState {
	if s, ok := trackStates.Load(goid.Get()); ok {
		return s.(*trackState)
	}
	return nil
}

func getTrackState() *trackState {
	gid := goid.Get()
	if s, ok := trackStates.Load(gid); ok {
		return s.(*trackState)
	}
	s := &trackState{observing: true}
	trackStates.Store(gid, s)
	return s
}

// releaseTrackState drops the goroutine's entry once it is back at the
// defaults. Goroutine ids are never reused, so retained entries would
// accumulate for the life of the process.
func releaseTrackState(gid int64, s *trackState) {
	if len(s.targets) == 0 && s.observing {
		trackStates.Delete(gid)
	}
}

// activeWatcher returns the innermost Watcher currently evaluating on this
// goroutine, or nil when reads are untracked.
func activeWatcher() *Watcher {
	if s := lookupTrackState(); s != nil {
		if n := len(s.targets); n > 0 {
			return s.targets[n-1]
		}
	}
	return nil
}

// pushTarget installs w as the active observer. Always paired with a
// deferred popTarget so the stack survives panics in user code.
func pushTarget(w *Watcher) {
	s := getTrackState()
	s.targets = append(s.targets, w)
}

func popTarget() {
	gid := goid.Get()
	s := lookupTrackState()
	if s == nil {
		return
	}
	if n := len(s.targets); n > 0 {
		s.targets[n-1] = nil
		s.targets = s.targets[:n-1]
	}
	releaseTrackState(gid, s)
}

// Untracked runs fn with dependency tracking disabled: reactive reads
// inside fn do not subscribe the active observer.
func Untracked(fn func()) {
	pushTarget(nil)
	defer popTarget()
	fn()
}

func shouldObserve() bool {
	if s := lookupTrackState(); s != nil {
		return s.observing
	}
	return true
}

// WithoutObserving runs fn with reactive conversion suspended, for bulk
// seeding of values that must stay plain (e.g. root props).
func WithoutObserving(fn func()) {
	gid := goid.Get()
	s := getTrackState()
	prev := s.observing
	s.observing = false
	defer func() {
		s.observing = prev
		releaseTrackState(gid, s)
	}()
	fn()
}
