package vdom

import (
	"github.com/yeyan1996/vue/internal/warn"
)

// Patcher converts (old, new) virtual-tree pairs into render-target
// mutations through a NodeOps backend and a registered set of side-effect
// modules. The render target is mutated only here.
type Patcher struct {
	ops     NodeOps
	modules []Module
}

// NewPatcher creates a Patcher over the given backend and modules.
func NewPatcher(ops NodeOps, modules ...Module) *Patcher {
	return &Patcher{ops: ops, modules: modules}
}

// Mount performs the first patch against a live render-target element.
// With hydrating true the existing subtree is adopted when it matches the
// virtual tree; on mismatch the mismatch is reported, the existing
// content discarded, and a full client-side mount performed instead.
// A nil el mounts the tree detached; the caller splices it in (this is
// the component-mount path, and insert hooks are deferred to the parent
// patch through the placeholder vnode).
func (p *Patcher) Mount(el Node, vnode *VNode, hydrating bool) Node {
	if vnode == nil {
		return nil
	}
	var insertedQueue []*VNode
	if el == nil {
		p.createElm(vnode, &insertedQueue, nil, nil, nil, 0)
		p.invokeInsertHook(vnode, insertedQueue, true)
		return vnode.Elm
	}

	if hydrating {
		if p.hydrate(el, vnode, &insertedQueue) {
			p.invokeInsertHook(vnode, insertedQueue, true)
			return vnode.Elm
		}
		warn.Warnf("hydration mismatch on <%s>: server-rendered content does not match the virtual tree, performing full client-side mount", p.ops.TagName(el))
	}

	oldVnode := p.emptyNodeAt(el)
	p.replaceRoot(oldVnode, vnode, &insertedQueue)
	p.invokeInsertHook(vnode, insertedQueue, false)
	return vnode.Elm
}

// Patch diffs two virtual trees and applies the minimal set of create,
// move, update and remove operations to the render target. A nil vnode
// destroys the old tree. With removeOnly set, the list diff never
// physically reorders retained nodes, so remove transitions play out at
// stable positions.
func (p *Patcher) Patch(oldVnode, vnode *VNode, removeOnly bool) Node {
	if vnode == nil {
		if oldVnode != nil {
			p.invokeDestroyHook(oldVnode)
		}
		return nil
	}
	var insertedQueue []*VNode
	if oldVnode == nil {
		p.createElm(vnode, &insertedQueue, nil, nil, nil, 0)
		p.invokeInsertHook(vnode, insertedQueue, true)
		return vnode.Elm
	}

	if SameVNode(oldVnode, vnode) {
		p.patchVnode(oldVnode, vnode, &insertedQueue, nil, 0, removeOnly)
	} else {
		p.replaceRoot(oldVnode, vnode, &insertedQueue)
	}
	p.invokeInsertHook(vnode, insertedQueue, false)
	return vnode.Elm
}

// Destroy tears a mounted tree down: destroy hooks fire top-down over the
// still-intact tree, then remove modules run with physical detachment
// deferred until every asynchronous remove listener has signalled.
func (p *Patcher) Destroy(vnode *VNode) {
	if vnode == nil {
		return
	}
	p.invokeDestroyHook(vnode)
	if vnode.Tag != "" || vnode.Kind == KindComponent {
		p.removeAndInvokeRemoveHook(vnode, nil)
	} else {
		p.removeNode(vnode.Elm)
	}
}

// replaceRoot mounts vnode next to the old root, updates any placeholder
// ancestors, then removes the old tree.
func (p *Patcher) replaceRoot(oldVnode, vnode *VNode, insertedQueue *[]*VNode) {
	oldElm := oldVnode.Elm
	parentElm := p.ops.ParentNode(oldElm)

	p.createElm(vnode, insertedQueue, parentElm, p.ops.NextSibling(oldElm), nil, 0)

	// A component root changed identity: walk the placeholder chain so
	// ancestors point at the new target node.
	if vnode.Parent != nil {
		patchable := p.isPatchable(vnode)
		for ancestor := vnode.Parent; ancestor != nil; ancestor = ancestor.Parent {
			for _, m := range p.modules {
				if m.Destroy != nil {
					m.Destroy(ancestor)
				}
			}
			ancestor.Elm = vnode.Elm
			if patchable {
				for _, m := range p.modules {
					if m.Create != nil {
						m.Create(nil, ancestor)
					}
				}
			}
		}
	}

	if parentElm != nil {
		p.removeVnodes([]*VNode{oldVnode}, 0, 0)
	} else {
		p.invokeDestroyHook(oldVnode)
	}
}

// emptyNodeAt wraps a live element into a vnode so the normal replace
// path applies to first mounts onto existing targets.
func (p *Patcher) emptyNodeAt(el Node) *VNode {
	return &VNode{
		Kind: KindElement,
		Tag:  p.ops.TagName(el),
		Data: &Data{},
		Elm:  el,
	}
}

// createElm materializes vnode and its subtree. Children are created and
// attached before the node itself is spliced into parentElm, so a subtree
// arrives in the live target whole.
func (p *Patcher) createElm(vnode *VNode, insertedQueue *[]*VNode, parentElm, refElm Node, ownerArray []*VNode, index int) {
	if vnode.Elm != nil && ownerArray != nil {
		// This vnode was already materialized in a previous render and
		// the render function reused the object verbatim. Clone before
		// writing so the previous tree stays consistent.
		vnode = CloneVNode(vnode)
		ownerArray[index] = vnode
	}

	if p.createComponent(vnode, insertedQueue, parentElm, refElm) {
		return
	}

	switch vnode.Kind {
	case KindElement:
		if vnode.NS != "" {
			vnode.Elm = p.ops.CreateElementNS(vnode.NS, vnode.Tag)
		} else {
			vnode.Elm = p.ops.CreateElement(vnode.Tag)
		}
		p.setScope(vnode)
		p.createChildren(vnode, vnode.Children, insertedQueue)
		if vnode.Data != nil {
			p.invokeCreateHooks(vnode, insertedQueue)
		}
		p.insert(parentElm, vnode.Elm, refElm)
	case KindComment:
		vnode.Elm = p.ops.CreateComment(vnode.Text)
		p.insert(parentElm, vnode.Elm, refElm)
	case KindComponent:
		// Placeholder without an init hook: nothing can instantiate it.
		vnode.Elm = p.ops.CreateComment("")
		p.insert(parentElm, vnode.Elm, refElm)
	default:
		vnode.Elm = p.ops.CreateTextNode(vnode.Text)
		p.insert(parentElm, vnode.Elm, refElm)
	}
}

// createComponent delegates a placeholder vnode to the component
// collaborator via its init hook. The collaborator mounts the child
// instance detached; its root is spliced in here.
func (p *Patcher) createComponent(vnode *VNode, insertedQueue *[]*VNode, parentElm, refElm Node) bool {
	if vnode.Kind != KindComponent || vnode.Data == nil || vnode.Data.Hook == nil || vnode.Data.Hook.Init == nil {
		return false
	}
	vnode.Data.Hook.Init(vnode)
	if vnode.Instance == nil {
		return false
	}
	p.initComponent(vnode, insertedQueue)
	p.insert(parentElm, vnode.Elm, refElm)
	return true
}

func (p *Patcher) initComponent(vnode *VNode, insertedQueue *[]*VNode) {
	// Adopt the child's deferred insert queue first: its entries predate
	// this placeholder, keeping child-before-parent order.
	if vnode.Data.PendingInsert != nil {
		*insertedQueue = append(*insertedQueue, vnode.Data.PendingInsert...)
		vnode.Data.PendingInsert = nil
	}
	vnode.Elm = vnode.Instance.Elm()
	if p.isPatchable(vnode) {
		p.invokeCreateHooks(vnode, insertedQueue)
		p.setScope(vnode)
	} else {
		// Empty component root (comment): only queue the insert hook.
		*insertedQueue = append(*insertedQueue, vnode)
	}
}

// isPatchable walks through component roots until a non-component vnode
// and reports whether the eventual render output is an element.
func (p *Patcher) isPatchable(vnode *VNode) bool {
	for vnode.Kind == KindComponent && vnode.Instance != nil {
		root := vnode.Instance.RootVNode()
		if root == nil {
			return false
		}
		vnode = root
	}
	return vnode.Kind == KindElement
}

func (p *Patcher) invokeCreateHooks(vnode *VNode, insertedQueue *[]*VNode) {
	for _, m := range p.modules {
		if m.Create != nil {
			m.Create(nil, vnode)
		}
	}
	if vnode.Data.Hook != nil {
		if vnode.Data.Hook.Create != nil {
			vnode.Data.Hook.Create(nil, vnode)
		}
		if vnode.Data.Hook.Insert != nil {
			*insertedQueue = append(*insertedQueue, vnode)
		}
	}
}

func (p *Patcher) setScope(vnode *VNode) {
	if vnode.Data != nil && vnode.Data.ScopeID != "" {
		p.ops.SetStyleScope(vnode.Elm, vnode.Data.ScopeID)
	}
}

func (p *Patcher) createChildren(vnode *VNode, children []*VNode, insertedQueue *[]*VNode) {
	if len(children) > 0 {
		if warn.Dev {
			checkDuplicateKeys(children)
		}
		for i := range children {
			p.createElm(children[i], insertedQueue, vnode.Elm, nil, children, i)
		}
		return
	}
	if vnode.Text != "" {
		p.ops.AppendChild(vnode.Elm, p.ops.CreateTextNode(vnode.Text))
	}
}

// insert splices elm into parent before ref, or appends when ref is nil.
// A ref that moved away from parent (e.g. removed by a transition) makes
// the insert a no-op.
func (p *Patcher) insert(parent, elm, ref Node) {
	if parent == nil {
		return
	}
	if ref != nil {
		if p.ops.ParentNode(ref) == parent {
			p.ops.InsertBefore(parent, elm, ref)
		}
		return
	}
	p.ops.AppendChild(parent, elm)
}

func (p *Patcher) addVnodes(parentElm, refElm Node, vnodes []*VNode, start, end int, insertedQueue *[]*VNode) {
	for ; start <= end; start++ {
		p.createElm(vnodes[start], insertedQueue, parentElm, refElm, vnodes, start)
	}
}

func (p *Patcher) removeVnodes(vnodes []*VNode, start, end int) {
	for ; start <= end; start++ {
		ch := vnodes[start]
		if ch == nil {
			continue
		}
		if ch.Tag != "" || ch.Kind == KindComponent {
			p.invokeDestroyHook(ch)
			p.removeAndInvokeRemoveHook(ch, nil)
		} else {
			p.removeNode(ch.Elm)
		}
	}
}

func (p *Patcher) removeNode(el Node) {
	if el == nil {
		return
	}
	if parent := p.ops.ParentNode(el); parent != nil {
		p.ops.RemoveChild(parent, el)
	}
}

// removeCountdown defers physical detachment until every registered
// asynchronous remove listener has called done. The countdown is shared
// across modules and nested component roots.
type removeCountdown struct {
	p         *Patcher
	elm       Node
	listeners int
}

func (r *removeCountdown) done() {
	r.listeners--
	if r.listeners == 0 {
		r.p.removeNode(r.elm)
	}
}

func (p *Patcher) removeAndInvokeRemoveHook(vnode *VNode, rm *removeCountdown) {
	if rm == nil && vnode.Data == nil {
		p.removeNode(vnode.Elm)
		return
	}

	listeners := 1
	for _, m := range p.modules {
		if m.Remove != nil {
			listeners++
		}
	}
	if rm != nil {
		// Nested component root: reuse the outer countdown.
		rm.listeners += listeners
	} else {
		rm = &removeCountdown{p: p, elm: vnode.Elm, listeners: listeners}
	}

	if vnode.Instance != nil {
		if root := vnode.Instance.RootVNode(); root != nil && root.Data != nil {
			p.removeAndInvokeRemoveHook(root, rm)
		}
	}
	for _, m := range p.modules {
		if m.Remove != nil {
			m.Remove(vnode, rm.done)
		}
	}
	if vnode.Data != nil && vnode.Data.Hook != nil && vnode.Data.Hook.Remove != nil {
		vnode.Data.Hook.Remove(vnode, rm.done)
	} else {
		rm.done()
	}
}

// invokeDestroyHook fires destroy hooks top-down: the node's own hooks
// and modules run before its children's, so teardown logic always sees a
// fully intact subtree.
func (p *Patcher) invokeDestroyHook(vnode *VNode) {
	if vnode.Data != nil {
		if vnode.Data.Hook != nil && vnode.Data.Hook.Destroy != nil {
			vnode.Data.Hook.Destroy(vnode)
		}
		for _, m := range p.modules {
			if m.Destroy != nil {
				m.Destroy(vnode)
			}
		}
	}
	for _, child := range vnode.Children {
		p.invokeDestroyHook(child)
	}
}

// patchVnode updates the render target in place for two same-identity
// vnodes.
func (p *Patcher) patchVnode(oldVnode, vnode *VNode, insertedQueue *[]*VNode, ownerArray []*VNode, index int, removeOnly bool) {
	if oldVnode == vnode {
		return
	}
	if vnode.Elm != nil && ownerArray != nil {
		vnode = CloneVNode(vnode)
		ownerArray[index] = vnode
	}

	elm := oldVnode.Elm
	vnode.Elm = elm

	if oldVnode.IsAsyncPlaceholder {
		vnode.IsAsyncPlaceholder = true
		return
	}

	// Known-immutable subtree rendered through a clone: reuse the old
	// target without re-diffing.
	if vnode.IsStatic && oldVnode.IsStatic && vnode.Key == oldVnode.Key && vnode.IsCloned {
		vnode.Instance = oldVnode.Instance
		return
	}

	if vnode.Data != nil && vnode.Data.Hook != nil && vnode.Data.Hook.Prepatch != nil {
		vnode.Data.Hook.Prepatch(oldVnode, vnode)
	}

	oldCh := oldVnode.Children
	ch := vnode.Children

	if vnode.Data != nil && p.isPatchable(vnode) {
		for _, m := range p.modules {
			if m.Update != nil {
				m.Update(oldVnode, vnode)
			}
		}
		if vnode.Data.Hook != nil && vnode.Data.Hook.Update != nil {
			vnode.Data.Hook.Update(oldVnode, vnode)
		}
	}

	if vnode.Text == "" {
		switch {
		case len(oldCh) > 0 && len(ch) > 0:
			if !sameChildren(oldCh, ch) {
				p.updateChildren(elm, oldCh, ch, insertedQueue, removeOnly)
			}
		case len(ch) > 0:
			if warn.Dev {
				checkDuplicateKeys(ch)
			}
			if oldVnode.Text != "" {
				p.ops.SetTextContent(elm, "")
			}
			p.addVnodes(elm, nil, ch, 0, len(ch)-1, insertedQueue)
		case len(oldCh) > 0:
			p.removeVnodes(oldCh, 0, len(oldCh)-1)
		case oldVnode.Text != "":
			p.ops.SetTextContent(elm, "")
		}
	} else if oldVnode.Text != vnode.Text {
		p.ops.SetTextContent(elm, vnode.Text)
	}

	if vnode.Data != nil && vnode.Data.Hook != nil && vnode.Data.Hook.Postpatch != nil {
		vnode.Data.Hook.Postpatch(oldVnode, vnode)
	}
}

// sameChildren reports whether two child lists share the same backing
// array, in which case diffing them is pointless.
func sameChildren(a, b []*VNode) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}

// invokeInsertHook fires queued insert hooks, or defers them to the
// parent patch when this was a component's initial detached mount. The
// queue is in mount order, child before parent.
func (p *Patcher) invokeInsertHook(vnode *VNode, queue []*VNode, initial bool) {
	if initial && vnode.Parent != nil {
		if vnode.Parent.Data == nil {
			vnode.Parent.Data = &Data{}
		}
		vnode.Parent.Data.PendingInsert = queue
		return
	}
	for _, v := range queue {
		if v.Data != nil && v.Data.Hook != nil && v.Data.Hook.Insert != nil {
			v.Data.Hook.Insert(v)
		}
	}
}
