package runtime

import (
	"strings"

	"github.com/yeyan1996/vue/pkg/reactive"
)

// WatchOptions tune a user watcher.
type WatchOptions struct {
	// Deep subscribes to every nested container under the watched
	// value, not just its identity.
	Deep bool
	// Immediate fires the handler once with the current value before
	// any change.
	Immediate bool
	// Sync runs the handler at write time instead of at the next flush.
	Sync bool
}

// Watch observes a dot-separated state path and calls handler with the
// new and old values when it changes. The returned function stops the
// watcher.
func (c *Component) Watch(path string, handler func(c *Component, newVal, oldVal any), opts WatchOptions) (unwatch func()) {
	getter := pathGetter(c, path)
	return c.watchGetter(getter, handler, opts)
}

// WatchFunc observes an arbitrary reactive getter.
func (c *Component) WatchFunc(getter func(c *Component) any, handler func(c *Component, newVal, oldVal any), opts WatchOptions) (unwatch func()) {
	return c.watchGetter(func() any { return getter(c) }, handler, opts)
}

func (c *Component) watchGetter(getter func() any, handler func(c *Component, newVal, oldVal any), opts WatchOptions) func() {
	w := reactive.NewWatcher(c, getter, func(newVal, oldVal any) {
		handler(c, newVal, oldVal)
	}, reactive.WatcherOptions{
		Deep: opts.Deep,
		User: true,
		Sync: opts.Sync,
	})
	c.watchers = append(c.watchers, w)

	if opts.Immediate {
		reactive.Untracked(func() {
			handler(c, w.Value(), nil)
		})
	}
	return w.Teardown
}

// pathGetter resolves a dot path through the component's state each time
// it runs, registering a dependency at every step. A path that runs off
// the data shape yields nil, so watchers survive keys that appear later
// via reactive.Set.
func pathGetter(c *Component, path string) func() any {
	segments := strings.Split(path, ".")
	return func() any {
		var cur any = c.Get(segments[0])
		for _, seg := range segments[1:] {
			m, ok := cur.(*reactive.Map)
			if !ok {
				return nil
			}
			cur = m.Get(seg)
		}
		return cur
	}
}
