package runtime

import (
	"github.com/yeyan1996/vue/pkg/vdom"
)

// ComponentVNode returns a placeholder vnode that, when the parent's
// tree is patched, instantiates and mounts a child Component in its
// slot. The child mounts detached; the reconciler splices its root in
// and relays insert, prepatch and destroy through the placeholder's
// hooks.
func ComponentVNode(patcher *vdom.Patcher, opts Options, key string) *vdom.VNode {
	v := &vdom.VNode{
		Kind: vdom.KindComponent,
		Tag:  componentTag(opts.Name),
		Key:  key,
		Data: &vdom.Data{},
	}
	v.Data.Hook = &vdom.Hooks{
		Init: func(v *vdom.VNode) {
			child := New(patcher, opts)
			child.placeholder = v
			v.Instance = child
			child.Mount(nil, false)
		},
		Prepatch: func(old, v *vdom.VNode) {
			// Same identity: the existing instance carries over and the
			// placeholder pointer moves to the new tree.
			v.Instance = old.Instance
			if child, ok := v.Instance.(*Component); ok {
				child.placeholder = v
			}
		},
		Insert: func(v *vdom.VNode) {
			if child, ok := v.Instance.(*Component); ok && !child.mounted {
				child.mounted = true
				child.callHook(child.opts.Mounted)
			}
		},
		Destroy: func(v *vdom.VNode) {
			if child, ok := v.Instance.(*Component); ok {
				child.Destroy()
			}
		},
	}
	return v
}

func componentTag(name string) string {
	if name == "" {
		return "component"
	}
	return "component-" + name
}
