package reactive

// Computed is a cached derived value backed by a lazy Watcher.
// Invalidation is eager: any input change flips the dirty flag through the
// push-based notification path. Recomputation is lazy: it happens on the
// next Get, never inside the notification.
type Computed struct {
	w *Watcher
}

// NewComputed creates the lazy watcher backing a computed property.
// The getter does not run until the first Get.
func NewComputed(owner any, getter func() any) *Computed {
	return &Computed{
		w: NewWatcher(owner, getter, nil, WatcherOptions{Lazy: true}),
	}
}

// Get returns a fresh value, recomputing only when dirty. If an outer
// observer is active, the computed's tracked Deps also subscribe it, so
// the outer watcher is transitively notified when the inputs change.
func (c *Computed) Get() any {
	if c.w.dirty {
		c.w.Evaluate()
	}
	if activeWatcher() != nil {
		c.w.Depend()
	}
	return c.w.value
}

// Watcher exposes the backing watcher, mainly for teardown bookkeeping.
func (c *Computed) Watcher() *Watcher {
	return c.w
}

// Teardown unsubscribes the backing watcher from all its Deps.
func (c *Computed) Teardown() {
	c.w.Teardown()
}
