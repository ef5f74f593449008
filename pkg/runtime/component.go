package runtime

import (
	"github.com/yeyan1996/vue/internal/warn"
	"github.com/yeyan1996/vue/pkg/reactive"
	"github.com/yeyan1996/vue/pkg/vdom"
)

// Options declares a component: its reactive state, how it renders, and
// the hooks and watchers attached to its lifecycle. All fields are
// optional except Render.
type Options struct {
	Name string

	// Data returns the initial state. It is called once per instance
	// and the result is converted into a reactive container tree.
	Data func() map[string]any

	// Render produces the virtual tree for the current state. Every
	// reactive read it performs subscribes the instance's render
	// watcher.
	Render func(c *Component) *vdom.VNode

	// Computed derivations, cached until a dependency changes.
	Computed map[string]func(c *Component) any

	// Watch handlers keyed by dot-separated state path.
	Watch map[string]func(c *Component, newVal, oldVal any)

	BeforeCreate  func(c *Component)
	Created       func(c *Component)
	BeforeMount   func(c *Component)
	Mounted       func(c *Component)
	BeforeUpdate  func(c *Component)
	Updated       func(c *Component)
	BeforeDestroy func(c *Component)
	Destroyed     func(c *Component)
}

// Component is a live instance of an Options declaration. It owns a
// reactive data tree, the computed and user watchers declared on it, and
// once mounted a render watcher that re-patches the tree when state it
// read changes.
type Component struct {
	opts    Options
	patcher *vdom.Patcher

	data     *reactive.Map
	computed map[string]*reactive.Computed
	watchers []*reactive.Watcher

	renderWatcher *reactive.Watcher

	// vnode is the rendered tree; placeholder is the component vnode
	// occupying a slot in the parent's tree, nil for a root instance.
	vnode       *vdom.VNode
	placeholder *vdom.VNode

	mountElm  vdom.Node
	hydrating bool

	mounted   bool
	destroyed bool
}

// New instantiates a component without mounting it. BeforeCreate runs
// before state setup, Created after.
func New(patcher *vdom.Patcher, opts Options) *Component {
	c := &Component{
		opts:    opts,
		patcher: patcher,
	}
	c.callHook(opts.BeforeCreate)

	var initial map[string]any
	if opts.Data != nil {
		initial = opts.Data()
	}
	if initial == nil {
		initial = map[string]any{}
	}
	converted, _ := reactive.Observe(initial, true)
	c.data = converted.(*reactive.Map)

	if len(opts.Computed) > 0 {
		c.computed = make(map[string]*reactive.Computed, len(opts.Computed))
		for name, getter := range opts.Computed {
			getter := getter
			c.computed[name] = reactive.NewComputed(c, func() any { return getter(c) })
		}
	}

	for path, handler := range opts.Watch {
		c.Watch(path, handler, WatchOptions{})
	}

	c.callHook(opts.Created)
	return c
}

// Data exposes the reactive state container.
func (c *Component) Data() *reactive.Map {
	return c.data
}

// Get reads a top-level state or computed property reactively. Computed
// names shadow data keys.
func (c *Component) Get(key string) any {
	if cp, ok := c.computed[key]; ok {
		return cp.Get()
	}
	return c.data.Get(key)
}

// Set writes a top-level state property.
func (c *Component) Set(key string, value any) {
	if _, ok := c.computed[key]; ok {
		warn.Warnf("component %s: computed property %q is read-only", c.opts.Name, key)
		return
	}
	c.data.Set(key, value)
}

// Mount renders the component into el. A nil el mounts detached, which
// is how a parent patch grafts child instances in. With hydrating set
// the first render adopts existing content under el when it matches.
func (c *Component) Mount(el vdom.Node, hydrating bool) vdom.Node {
	if c.opts.Render == nil {
		warn.Warnf("component %s: mounted without a render function", c.opts.Name)
		return nil
	}
	c.callHook(c.opts.BeforeMount)
	c.mountElm = el
	c.hydrating = hydrating

	c.renderWatcher = reactive.NewWatcher(c, func() any {
		c.update(c.render())
		return nil
	}, nil, reactive.WatcherOptions{
		Before: func() {
			if c.mounted && !c.destroyed {
				c.callHook(c.opts.BeforeUpdate)
			}
		},
		OnFlushed: func() {
			if c.mounted && !c.destroyed {
				c.callHook(c.opts.Updated)
			}
		},
	})

	c.hydrating = false
	// A root instance is mounted now; a child becomes mounted when its
	// placeholder's insert hook fires in the parent patch.
	if c.placeholder == nil {
		c.mounted = true
		c.callHook(c.opts.Mounted)
	}
	return c.Elm()
}

func (c *Component) render() *vdom.VNode {
	vnode := c.opts.Render(c)
	if vnode == nil {
		vnode = vdom.NewComment("")
	}
	vnode.Parent = c.placeholder
	return vnode
}

func (c *Component) update(next *vdom.VNode) {
	prev := c.vnode
	c.vnode = next
	if prev == nil {
		c.patcher.Mount(c.mountElm, next, c.hydrating)
		return
	}
	c.patcher.Patch(prev, next, false)
}

// ForceUpdate schedules a re-render regardless of dependency state.
func (c *Component) ForceUpdate() {
	if c.renderWatcher != nil {
		c.renderWatcher.Update()
	}
}

// Destroy tears the instance down: watchers first so teardown cannot
// trigger renders, then the rendered tree, which cascades into child
// instances through their placeholder destroy hooks.
func (c *Component) Destroy() {
	if c.destroyed {
		return
	}
	c.callHook(c.opts.BeforeDestroy)
	c.destroyed = true

	if c.renderWatcher != nil {
		c.renderWatcher.Teardown()
	}
	for _, w := range c.watchers {
		w.Teardown()
	}
	for _, cp := range c.computed {
		cp.Teardown()
	}

	// Destroy hooks only. Physical removal is the parent patch's job
	// when the placeholder leaves its tree; a root element is left in
	// place for the caller to remove.
	if c.vnode != nil {
		c.patcher.Patch(c.vnode, nil, false)
	}
	c.callHook(c.opts.Destroyed)
}

// Mounted reports whether the instance has been inserted.
func (c *Component) Mounted() bool {
	return c.mounted
}

// Destroyed reports whether the instance has been torn down.
func (c *Component) Destroyed() bool {
	return c.destroyed
}

// Name returns the declared component name.
func (c *Component) Name() string {
	return c.opts.Name
}

func (c *Component) callHook(hook func(c *Component)) {
	if hook != nil {
		hook(c)
	}
}

// RootVNode and Elm satisfy vdom.ComponentInstance.

func (c *Component) RootVNode() *vdom.VNode {
	return c.vnode
}

func (c *Component) Elm() vdom.Node {
	if c.vnode == nil {
		return nil
	}
	return c.vnode.Elm
}
