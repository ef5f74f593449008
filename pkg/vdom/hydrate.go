package vdom

import (
	"strings"

	"github.com/yeyan1996/vue/internal/warn"
)

// hydrate adopts an existing render-target subtree for vnode instead of
// creating it from scratch. It requires the backend to implement
// ChildWalker; without it hydration is unsupported and the caller falls
// back to a full mount. Returns false on any structural mismatch, and
// leaves recovery to the caller.
func (p *Patcher) hydrate(elm Node, vnode *VNode, insertedQueue *[]*VNode) bool {
	walker, ok := p.ops.(ChildWalker)
	if !ok {
		return false
	}

	vnode.Elm = elm

	if vnode.Kind == KindComponent && vnode.Data != nil && vnode.Data.Hook != nil && vnode.Data.Hook.Init != nil {
		if vnode.IsAsyncPlaceholder {
			return true
		}
		vnode.Data.Hook.Init(vnode)
		if vnode.Instance != nil {
			// The child instance hydrated against the same element;
			// adopt it wholesale.
			p.initComponent(vnode, insertedQueue)
			return true
		}
		return false
	}

	if !p.matchesNode(walker, elm, vnode) {
		return false
	}

	switch vnode.Kind {
	case KindElement:
		if !p.hydrateChildren(walker, elm, vnode, insertedQueue) {
			return false
		}
		if vnode.Data != nil {
			p.invokeCreateHooks(vnode, insertedQueue)
		}
	case KindText:
		if walker.TextContent(elm) != vnode.Text {
			p.ops.SetTextContent(elm, vnode.Text)
		}
	}
	return true
}

func (p *Patcher) matchesNode(walker ChildWalker, elm Node, vnode *VNode) bool {
	kind := walker.KindOf(elm)
	switch vnode.Kind {
	case KindElement:
		return kind == KindElement && strings.EqualFold(p.ops.TagName(elm), vnode.Tag)
	case KindText:
		return kind == KindText
	case KindComment:
		return kind == KindComment
	}
	return false
}

func (p *Patcher) hydrateChildren(walker ChildWalker, elm Node, vnode *VNode, insertedQueue *[]*VNode) bool {
	children := vnode.Children

	if len(children) == 0 {
		if vnode.Text != "" {
			if walker.TextContent(elm) != vnode.Text {
				if warn.Dev {
					warn.Warnf("hydration text mismatch on <%s>: server rendered %q, client expects %q", vnode.Tag, walker.TextContent(elm), vnode.Text)
				}
				return false
			}
		}
		return true
	}

	childNode := walker.FirstChild(elm)
	for _, child := range children {
		if childNode == nil || !p.hydrate(childNode, child, insertedQueue) {
			if warn.Dev {
				warn.Warnf("hydration children mismatch on <%s>", vnode.Tag)
			}
			return false
		}
		childNode = p.ops.NextSibling(childNode)
	}
	// Leftover server-rendered children mean the trees diverge.
	if childNode != nil {
		if warn.Dev {
			warn.Warnf("hydration children mismatch on <%s>: extra server-rendered nodes", vnode.Tag)
		}
		return false
	}
	return true
}
