package reactive

import (
	"sync"
	"sync/atomic"
)

// idCounter is the source of unique ids for all reactive primitives.
// Deps and Watchers share it, so watcher ids are monotonically increasing
// with creation order.
var idCounter uint64

func nextID() uint64 {
	return atomic.AddUint64(&idCounter, 1)
}

// Dep is a change-notification publisher. One Dep is owned by every
// reactive field and by every lazy (computed) Watcher. Subscribers are
// kept in subscription order and appear at most once; deduplication is
// enforced by Watcher.addDep, which checks its tracked-id set before
// calling addSub.
type Dep struct {
	id uint64

	subs []*Watcher
	mu   sync.Mutex
}

func newDep() *Dep {
	return &Dep{id: nextID()}
}

// ID returns the unique identifier for this Dep.
func (d *Dep) ID() uint64 {
	return d.id
}

func (d *Dep) addSub(w *Watcher) {
	d.mu.Lock()
	d.subs = append(d.subs, w)
	d.mu.Unlock()
}

func (d *Dep) removeSub(w *Watcher) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, s := range d.subs {
		if s.id == w.id {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

// Depend subscribes the currently active Watcher, if any, to this Dep.
func (d *Dep) Depend() {
	if w := activeWatcher(); w != nil {
		w.addDep(d)
	}
}

// Notify tells every subscriber that the published value changed.
// Subscribers are notified in subscription order; most of them funnel into
// the scheduler, so actual side effects follow flush ordering instead.
func (d *Dep) Notify() {
	d.mu.Lock()
	subs := make([]*Watcher, len(d.subs))
	copy(subs, d.subs)
	d.mu.Unlock()

	for _, s := range subs {
		s.Update()
	}
}
