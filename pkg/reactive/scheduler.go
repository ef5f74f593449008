package reactive

import (
	"fmt"
	"sort"
	"sync"
)

// maxUpdateCount is the hard cap on how many times one watcher may be
// re-queued within a single flush before the flush is abandoned as an
// infinite update loop.
const maxUpdateCount = 100

// scheduler is the process-wide queue of watchers pending flush. Entries
// are deduplicated by watcher id and run in ascending id order, which is
// creation order and therefore ancestor before descendant: a parent is
// never patched using a stale, about-to-be-destroyed child.
type scheduler struct {
	mu sync.Mutex

	queue    []*Watcher
	has      map[uint64]bool
	circular map[uint64]int

	flushing bool
	index    int

	afterFlush []func()
}

var sched = &scheduler{
	has:      make(map[uint64]bool),
	circular: make(map[uint64]int),
}

// queueWatcher enqueues w for the next flush unless it is already queued.
// When a flush is in progress and w's id is greater than the watcher
// currently being processed, it is inserted past the cursor so it still
// runs in the same flush.
func queueWatcher(w *Watcher) {
	sched.mu.Lock()
	defer sched.mu.Unlock()

	if sched.has[w.id] {
		return
	}
	sched.has[w.id] = true

	if !sched.flushing {
		sched.queue = append(sched.queue, w)
		return
	}

	i := len(sched.queue) - 1
	for i > sched.index && sched.queue[i].id > w.id {
		i--
	}
	sched.queue = append(sched.queue, nil)
	copy(sched.queue[i+2:], sched.queue[i+1:])
	sched.queue[i+1] = w
}

// NextTick registers fn to run after the next flush completes, following
// the updated-hook notifications.
func NextTick(fn func()) {
	sched.mu.Lock()
	sched.afterFlush = append(sched.afterFlush, fn)
	sched.mu.Unlock()
}

// Flush drains the pending watcher queue: one tick boundary. Mutations
// performed between two Flush calls coalesce, so a watcher runs at most
// once per tick unless one of its own runs re-triggers it. The queue is
// sorted by ascending watcher id before draining. Re-entrant calls during
// a flush are no-ops; re-entrant mutations queue for the same flush via
// the cursor-aware insert above.
func Flush() {
	sched.mu.Lock()
	if sched.flushing {
		sched.mu.Unlock()
		return
	}
	if len(sched.queue) == 0 {
		cbs := sched.afterFlush
		sched.afterFlush = nil
		sched.mu.Unlock()
		runAfterFlush(cbs)
		return
	}

	sched.flushing = true
	sort.Slice(sched.queue, func(i, j int) bool {
		return sched.queue[i].id < sched.queue[j].id
	})
	clear(sched.circular)

	// A render watcher re-panics on evaluation errors. Reset the state
	// before propagating so the scheduler is usable afterwards.
	defer func() {
		if r := recover(); r != nil {
			sched.mu.Lock()
			sched.queue = nil
			sched.has = make(map[uint64]bool)
			clear(sched.circular)
			sched.flushing = false
			sched.index = 0
			sched.mu.Unlock()
			panic(r)
		}
	}()

	for sched.index = 0; sched.index < len(sched.queue); sched.index++ {
		w := sched.queue[sched.index]
		// Clear the membership flag before running so a change made by
		// this run re-queues the watcher instead of being swallowed.
		delete(sched.has, w.id)
		sched.mu.Unlock()

		if w.before != nil {
			w.before()
		}
		w.run()

		sched.mu.Lock()
		if sched.has[w.id] {
			sched.circular[w.id]++
			if sched.circular[w.id] > maxUpdateCount {
				sched.mu.Unlock()
				HandleError(fmt.Errorf("%w (watcher id %d)", ErrInfiniteUpdateLoop, w.id), "scheduler flush")
				sched.mu.Lock()
				break
			}
		}
	}

	// An abandoned flush leaves a tail of watchers that never ran; only
	// the executed prefix gets updated notifications.
	ran := sched.index
	if ran < len(sched.queue) {
		ran++
	}
	flushed := sched.queue[:ran]
	sched.queue = nil
	sched.has = make(map[uint64]bool)
	clear(sched.circular)
	sched.flushing = false
	sched.index = 0
	cbs := sched.afterFlush
	sched.afterFlush = nil
	sched.mu.Unlock()

	// Updated notifications fire in reverse flush order, child before
	// parent, once the whole queue has drained.
	for i := len(flushed) - 1; i >= 0; i-- {
		w := flushed[i]
		if w.active && w.onFlushed != nil {
			w.onFlushed()
		}
	}

	runAfterFlush(cbs)
}

func runAfterFlush(cbs []func()) {
	for _, cb := range cbs {
		invokeGuarded("scheduled callback", cb)
	}
}
