package runtime_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/yeyan1996/vue/pkg/dom"
	"github.com/yeyan1996/vue/pkg/reactive"
	"github.com/yeyan1996/vue/pkg/runtime"
	"github.com/yeyan1996/vue/pkg/vdom"
)

func newEnv() (*dom.Ops, *vdom.Patcher, *dom.Node) {
	ops := dom.NewOps()
	p := vdom.NewPatcher(ops, vdom.DefaultModules(ops)...)
	root := ops.CreateElement("body").(*dom.Node)
	placeholder := ops.CreateElement("div").(*dom.Node)
	ops.AppendChild(root, placeholder)
	return ops, p, root
}

func mountTarget(root *dom.Node) *dom.Node {
	return root.Children[0]
}

func textEl(tag, s string) *vdom.VNode {
	return vdom.NewElement(tag, &vdom.Data{}, vdom.NewText(s))
}

func TestMountRendersInitialState(t *testing.T) {
	_, p, root := newEnv()

	c := runtime.New(p, runtime.Options{
		Data: func() map[string]any { return map[string]any{"msg": "hello"} },
		Render: func(c *runtime.Component) *vdom.VNode {
			return textEl("p", c.Get("msg").(string))
		},
	})
	c.Mount(mountTarget(root), false)

	if got := dom.HTML(root); got != "<body><p>hello</p></body>" {
		t.Errorf("unexpected render output %s", got)
	}
	if !c.Mounted() {
		t.Errorf("expected component to report mounted")
	}
}

func TestWriteRepatchesAtFlush(t *testing.T) {
	_, p, root := newEnv()

	c := runtime.New(p, runtime.Options{
		Data: func() map[string]any { return map[string]any{"n": 1} },
		Render: func(c *runtime.Component) *vdom.VNode {
			if c.Get("n").(int) > 1 {
				return textEl("p", "big")
			}
			return textEl("p", "small")
		},
	})
	c.Mount(mountTarget(root), false)

	c.Set("n", 5)
	if got := root.TextContent(); got != "small" {
		t.Fatalf("expected write to be invisible before flush, got %q", got)
	}
	reactive.Flush()
	if got := root.TextContent(); got != "big" {
		t.Errorf("expected %q after flush, got %q", "big", got)
	}
}

func TestUpdateHookOrder(t *testing.T) {
	_, p, root := newEnv()

	var order []string
	c := runtime.New(p, runtime.Options{
		Data: func() map[string]any { return map[string]any{"n": 0} },
		Render: func(c *runtime.Component) *vdom.VNode {
			order = append(order, "render")
			return textEl("p", strconv.Itoa(c.Get("n").(int)))
		},
		BeforeUpdate: func(*runtime.Component) { order = append(order, "beforeUpdate") },
		Updated:      func(*runtime.Component) { order = append(order, "updated") },
	})
	c.Mount(mountTarget(root), false)
	order = order[:0]

	c.Set("n", 1)
	reactive.Flush()

	if strings.Join(order, ",") != "beforeUpdate,render,updated" {
		t.Errorf("unexpected hook order %v", order)
	}
}

func TestComputedDrivesRender(t *testing.T) {
	_, p, root := newEnv()

	calls := 0
	c := runtime.New(p, runtime.Options{
		Data: func() map[string]any { return map[string]any{"first": "Ada", "last": "Lovelace"} },
		Computed: map[string]func(*runtime.Component) any{
			"full": func(c *runtime.Component) any {
				calls++
				return c.Get("first").(string) + " " + c.Get("last").(string)
			},
		},
		Render: func(c *runtime.Component) *vdom.VNode {
			return textEl("p", c.Get("full").(string))
		},
	})
	c.Mount(mountTarget(root), false)

	if got := root.TextContent(); got != "Ada Lovelace" {
		t.Fatalf("expected computed in render, got %q", got)
	}
	if calls != 1 {
		t.Errorf("expected one computed evaluation, got %d", calls)
	}

	c.Set("first", "A.")
	reactive.Flush()
	if got := root.TextContent(); got != "A. Lovelace" {
		t.Errorf("expected re-render with new computed value, got %q", got)
	}
}

func TestWatchPathAndOptions(t *testing.T) {
	_, p, _ := newEnv()

	c := runtime.New(p, runtime.Options{
		Data: func() map[string]any {
			return map[string]any{"user": map[string]any{"name": "a"}}
		},
		Render: func(c *runtime.Component) *vdom.VNode { return textEl("p", "x") },
	})

	var got []string
	c.Watch("user.name", func(_ *runtime.Component, newVal, _ any) {
		got = append(got, newVal.(string))
	}, runtime.WatchOptions{Immediate: true})

	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("expected immediate call with current value, got %v", got)
	}

	c.Data().Get("user").(*reactive.Map).Set("name", "b")
	reactive.Flush()
	if len(got) != 2 || got[1] != "b" {
		t.Errorf("expected watcher to see nested write, got %v", got)
	}
}

func TestWatchUnsubscribe(t *testing.T) {
	_, p, _ := newEnv()

	c := runtime.New(p, runtime.Options{
		Data:   func() map[string]any { return map[string]any{"n": 0} },
		Render: func(c *runtime.Component) *vdom.VNode { return textEl("p", "x") },
	})

	calls := 0
	unwatch := c.Watch("n", func(*runtime.Component, any, any) { calls++ }, runtime.WatchOptions{})
	c.Set("n", 1)
	reactive.Flush()
	unwatch()
	c.Set("n", 2)
	reactive.Flush()

	if calls != 1 {
		t.Errorf("expected one call before unwatch, got %d", calls)
	}
}

func TestNestedLifecycleOrder(t *testing.T) {
	_, p, root := newEnv()

	var order []string
	hook := func(name string) func(*runtime.Component) {
		return func(*runtime.Component) { order = append(order, name) }
	}

	grandchild := runtime.Options{
		Name:          "gc",
		Render:        func(c *runtime.Component) *vdom.VNode { return textEl("i", "gc") },
		Mounted:       hook("gc.mounted"),
		BeforeDestroy: hook("gc.beforeDestroy"),
		Destroyed:     hook("gc.destroyed"),
	}
	child := runtime.Options{
		Name: "child",
		Render: func(c *runtime.Component) *vdom.VNode {
			return vdom.NewElement("section", &vdom.Data{}, runtime.ComponentVNode(p, grandchild, ""))
		},
		Mounted:       hook("child.mounted"),
		BeforeDestroy: hook("child.beforeDestroy"),
		Destroyed:     hook("child.destroyed"),
	}
	parent := runtime.New(p, runtime.Options{
		Name: "parent",
		Render: func(c *runtime.Component) *vdom.VNode {
			return vdom.NewElement("div", &vdom.Data{}, runtime.ComponentVNode(p, child, ""))
		},
		Mounted:       hook("parent.mounted"),
		BeforeDestroy: hook("parent.beforeDestroy"),
		Destroyed:     hook("parent.destroyed"),
	})

	parent.Mount(mountTarget(root), false)
	if strings.Join(order, ",") != "gc.mounted,child.mounted,parent.mounted" {
		t.Fatalf("unexpected mount order %v", order)
	}
	if got := root.TextContent(); got != "gc" {
		t.Errorf("expected nested render output, got %q", got)
	}

	order = order[:0]
	parent.Destroy()
	want := "parent.beforeDestroy,child.beforeDestroy,gc.beforeDestroy,gc.destroyed,child.destroyed,parent.destroyed"
	if strings.Join(order, ",") != want {
		t.Errorf("unexpected destroy order %v", order)
	}
}

func TestConditionalChildDestroyedByPatch(t *testing.T) {
	_, p, root := newEnv()

	var destroyed bool
	child := runtime.Options{
		Name:      "modal",
		Render:    func(c *runtime.Component) *vdom.VNode { return textEl("aside", "modal") },
		Destroyed: func(*runtime.Component) { destroyed = true },
	}
	parent := runtime.New(p, runtime.Options{
		Data: func() map[string]any { return map[string]any{"show": true} },
		Render: func(c *runtime.Component) *vdom.VNode {
			if c.Get("show").(bool) {
				return vdom.NewElement("div", &vdom.Data{}, runtime.ComponentVNode(p, child, ""))
			}
			return vdom.NewElement("div", &vdom.Data{})
		},
	})
	parent.Mount(mountTarget(root), false)

	if got := root.TextContent(); got != "modal" {
		t.Fatalf("expected child rendered, got %q", got)
	}
	parent.Set("show", false)
	reactive.Flush()

	if !destroyed {
		t.Errorf("expected child instance destroyed when patched out")
	}
	if got := root.TextContent(); got != "" {
		t.Errorf("expected child removed from tree, got %q", got)
	}
}

func TestChildSurvivesParentRerender(t *testing.T) {
	_, p, root := newEnv()

	created := 0
	child := runtime.Options{
		Name: "counter",
		Data: func() map[string]any { return map[string]any{"n": 0} },
		Render: func(c *runtime.Component) *vdom.VNode {
			return textEl("span", "child")
		},
		Created: func(*runtime.Component) { created++ },
	}
	parent := runtime.New(p, runtime.Options{
		Data: func() map[string]any { return map[string]any{"title": "a"} },
		Render: func(c *runtime.Component) *vdom.VNode {
			return vdom.NewElement("div", &vdom.Data{},
				textEl("h1", c.Get("title").(string)),
				runtime.ComponentVNode(p, child, ""),
			)
		},
	})
	parent.Mount(mountTarget(root), false)

	parent.Set("title", "b")
	reactive.Flush()

	if created != 1 {
		t.Errorf("expected child instantiated once across parent re-renders, got %d", created)
	}
	if got := root.TextContent(); got != "bchild" {
		t.Errorf("unexpected output %q", got)
	}
}
