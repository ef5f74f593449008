package vdom

// AttrSetter is implemented by backends whose nodes carry string
// attributes. AttrsModule requires it.
type AttrSetter interface {
	SetAttribute(node Node, key, value string)
	RemoveAttribute(node Node, key string)
}

// EventTarget is implemented by backends whose nodes dispatch events.
// EventsModule requires it.
type EventTarget interface {
	AddEventListener(node Node, event string, handler func(any))
	RemoveEventListener(node Node, event string)
}

// AttrsModule returns a module that reconciles Data.Attrs onto the
// render target. Attributes absent from the new vnode are removed.
func AttrsModule(ops NodeOps) Module {
	setter, _ := ops.(AttrSetter)
	update := func(oldVnode, vnode *VNode) {
		if setter == nil {
			return
		}
		var oldAttrs map[string]string
		if oldVnode != nil && oldVnode.Data != nil {
			oldAttrs = oldVnode.Data.Attrs
		}
		var attrs map[string]string
		if vnode.Data != nil {
			attrs = vnode.Data.Attrs
		}
		if len(oldAttrs) == 0 && len(attrs) == 0 {
			return
		}
		for key, val := range attrs {
			if oldAttrs[key] != val {
				setter.SetAttribute(vnode.Elm, key, val)
			}
		}
		for key := range oldAttrs {
			if _, ok := attrs[key]; !ok {
				setter.RemoveAttribute(vnode.Elm, key)
			}
		}
	}
	return Module{Create: update, Update: update}
}

// EventsModule returns a module that attaches and detaches Data.On
// handlers. Handlers are replaced wholesale per event name; the diff is
// by presence, since funcs are not comparable.
func EventsModule(ops NodeOps) Module {
	target, _ := ops.(EventTarget)
	update := func(oldVnode, vnode *VNode) {
		if target == nil {
			return
		}
		var oldOn map[string]func(any)
		if oldVnode != nil && oldVnode.Data != nil {
			oldOn = oldVnode.Data.On
		}
		var on map[string]func(any)
		if vnode.Data != nil {
			on = vnode.Data.On
		}
		if len(oldOn) == 0 && len(on) == 0 {
			return
		}
		for event := range oldOn {
			if _, ok := on[event]; !ok {
				target.RemoveEventListener(vnode.Elm, event)
			}
		}
		for event, handler := range on {
			if _, ok := oldOn[event]; ok {
				target.RemoveEventListener(vnode.Elm, event)
			}
			target.AddEventListener(vnode.Elm, event, handler)
		}
	}
	return Module{Create: update, Update: update}
}

// DefaultModules returns the built-in module set for a backend.
func DefaultModules(ops NodeOps) []Module {
	return []Module{AttrsModule(ops), EventsModule(ops)}
}
