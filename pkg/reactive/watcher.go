package reactive

// WatcherOptions carries the flags a Watcher can be created with.
type WatcherOptions struct {
	// Deep traverses the full value graph after each evaluation to force
	// dependency registration on every nested reactive field.
	Deep bool

	// User marks a user-defined watcher: errors thrown from its getter or
	// callback are reported to the central handler and suppressed, so one
	// failing watcher does not break the flush. Render-path watchers
	// propagate instead, because rendering cannot continue with a partial
	// tree.
	User bool

	// Lazy defers evaluation until the value is read and caches it under
	// a dirty flag. This is the computed-property mode.
	Lazy bool

	// Sync runs the callback inline on notification instead of deferring
	// through the scheduler.
	Sync bool

	// Before is invoked by the scheduler just before the watcher runs
	// during a flush.
	Before func()

	// OnFlushed is invoked after the flush that ran this watcher fully
	// drains, in reverse flush order. Render watchers use it to fire
	// their updated lifecycle notification.
	OnFlushed func()
}

// Watcher subscribes to the Deps its evaluation function reads and reacts
// to their notifications: lazily (flip dirty), synchronously (run inline)
// or by enqueueing itself into the scheduler.
type Watcher struct {
	id    uint64
	owner any // owning component context, opaque to this package

	getter func() any
	cb     func(newVal, oldVal any)

	deep   bool
	user   bool
	lazy   bool
	sync   bool
	active bool
	dirty  bool

	value any

	// Two generations of tracked Deps. After any evaluation deps holds
	// exactly the set read during that evaluation; stale subscriptions
	// from a now-dead conditional branch are dropped by cleanupDeps.
	deps      []*Dep
	newDeps   []*Dep
	depIDs    map[uint64]struct{}
	newDepIDs map[uint64]struct{}

	before    func()
	onFlushed func()
}

// NewWatcher creates a Watcher around getter. Non-lazy watchers evaluate
// immediately; lazy ones start dirty and evaluate on first read.
func NewWatcher(owner any, getter func() any, cb func(newVal, oldVal any), opts WatcherOptions) *Watcher {
	w := &Watcher{
		id:        nextID(),
		owner:     owner,
		getter:    getter,
		cb:        cb,
		deep:      opts.Deep,
		user:      opts.User,
		lazy:      opts.Lazy,
		sync:      opts.Sync,
		active:    true,
		dirty:     opts.Lazy,
		depIDs:    make(map[uint64]struct{}),
		newDepIDs: make(map[uint64]struct{}),
		before:    opts.Before,
		onFlushed: opts.OnFlushed,
	}
	if !w.lazy {
		w.value = w.get()
	}
	return w
}

// ID returns the watcher's creation-order id.
func (w *Watcher) ID() uint64 {
	return w.id
}

// Owner returns the owning context the watcher was created with.
func (w *Watcher) Owner() any {
	return w.owner
}

// Value returns the last computed value.
func (w *Watcher) Value() any {
	return w.value
}

// Dirty reports whether a lazy watcher needs recomputation.
func (w *Watcher) Dirty() bool {
	return w.dirty
}

// Active reports whether the watcher has not been torn down.
func (w *Watcher) Active() bool {
	return w.active
}

// get runs the evaluation function with this Watcher installed as the
// active observer, then reconciles the tracked-Dep generations. The
// target pop and the cleanup run on every exit path, including panics
// from the evaluation function.
func (w *Watcher) get() any {
	pushTarget(w)
	defer func() {
		popTarget()
		w.cleanupDeps()
	}()

	var value any
	if w.user {
		invokeGuarded("getter for watcher", func() {
			value = w.getter()
		})
	} else {
		value = w.getter()
	}
	if w.deep {
		traverse(value)
	}
	return value
}

// addDep records d as read during the current evaluation and subscribes
// the watcher unless the previous generation already held it.
func (w *Watcher) addDep(d *Dep) {
	if _, ok := w.newDepIDs[d.id]; ok {
		return
	}
	w.newDepIDs[d.id] = struct{}{}
	w.newDeps = append(w.newDeps, d)
	if _, ok := w.depIDs[d.id]; !ok {
		d.addSub(w)
	}
}

// cleanupDeps drops subscriptions to Deps that were not read during the
// latest evaluation, then swaps the generations and clears the new one.
func (w *Watcher) cleanupDeps() {
	for _, d := range w.deps {
		if _, ok := w.newDepIDs[d.id]; !ok {
			d.removeSub(w)
		}
	}
	w.deps, w.newDeps = w.newDeps, w.deps[:0]
	w.depIDs, w.newDepIDs = w.newDepIDs, w.depIDs
	clear(w.newDepIDs)
}

// Update is the notification entry called by a Dep when a published value
// changed. Lazy watchers only flip dirty; sync watchers run inline;
// everything else enqueues into the scheduler.
func (w *Watcher) Update() {
	switch {
	case w.lazy:
		w.dirty = true
	case w.sync:
		w.run()
	default:
		queueWatcher(w)
	}
}

// run re-evaluates and invokes the callback when the value is observed to
// have changed. A mutable (non-primitive) value or a deep watcher always
// counts as changed, since internal mutation is invisible to an equality
// check. A torn-down watcher's run is a no-op.
func (w *Watcher) run() {
	if !w.active {
		return
	}
	value := w.get()
	if !isMutable(value) && !w.deep && !hasChanged(w.value, value) {
		return
	}
	oldValue := w.value
	w.value = value
	if w.cb == nil {
		return
	}
	if w.user {
		invokeGuarded("callback for watcher", func() {
			w.cb(value, oldValue)
		})
	} else {
		w.cb(value, oldValue)
	}
}

// Evaluate recomputes a lazy watcher's value and clears the dirty flag.
// Only called for lazy watchers, from the computed read path.
func (w *Watcher) Evaluate() {
	w.value = w.get()
	w.dirty = false
}

// Depend subscribes the currently active outer observer to every Dep this
// watcher tracks, so a change to a computed's inputs transitively reaches
// the outer watcher even though it never read the underlying fields.
func (w *Watcher) Depend() {
	for _, d := range w.deps {
		d.Depend()
	}
}

// Teardown unsubscribes from every tracked Dep and deactivates the
// watcher. Idempotent; safe to call with a flush entry still pending.
func (w *Watcher) Teardown() {
	if !w.active {
		return
	}
	w.active = false
	for _, d := range w.deps {
		d.removeSub(w)
	}
	w.deps = nil
	w.depIDs = make(map[uint64]struct{})
}
