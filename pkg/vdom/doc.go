// Package vdom implements the virtual-tree layer: immutable-ish VNode
// descriptions of the desired render output, and a Patcher that diffs
// two descriptions and applies the minimal mutation set to a concrete
// render target through the NodeOps backend interface.
//
// The Patcher is backend-agnostic. Anything that can create, move and
// remove opaque nodes can implement NodeOps; the dom package ships an
// in-memory implementation used for server-side rendering and tests.
// Side effects beyond tree shape (attributes, event listeners) are
// pluggable Modules invoked at fixed points of a node's lifecycle.
//
// Typical wiring:
//
//	ops := dom.NewOps()
//	p := vdom.NewPatcher(ops, vdom.DefaultModules(ops)...)
//	root := p.Mount(target, tree, false)
//	// later, after re-render:
//	p.Patch(tree, nextTree, false)
package vdom
