package dom

import (
	"sync/atomic"

	"github.com/yeyan1996/vue/pkg/vdom"
)

// Ops is the in-memory vdom.NodeOps backend. It also implements the
// optional vdom.ChildWalker, vdom.AttrSetter and vdom.EventTarget
// capabilities, so hydration and the default modules work against it.
//
// Handles passed through vdom.Node are always *Node. Methods that can
// come up empty return untyped nil, never a typed nil pointer.
type Ops struct {
	nextID atomic.Uint64
}

// NewOps returns a fresh backend with its own node ID sequence.
func NewOps() *Ops {
	return &Ops{}
}

func (o *Ops) newNode(t NodeType) *Node {
	return &Node{ID: o.nextID.Add(1), Type: t}
}

func (o *Ops) CreateElement(tag string) vdom.Node {
	n := o.newNode(ElementNode)
	n.Tag = tag
	return n
}

func (o *Ops) CreateElementNS(ns, tag string) vdom.Node {
	n := o.newNode(ElementNode)
	n.Tag = tag
	n.NS = ns
	return n
}

func (o *Ops) CreateTextNode(text string) vdom.Node {
	n := o.newNode(TextNode)
	n.Text = text
	return n
}

func (o *Ops) CreateComment(text string) vdom.Node {
	n := o.newNode(CommentNode)
	n.Text = text
	return n
}

func (o *Ops) AppendChild(parent, child vdom.Node) {
	p, c := parent.(*Node), child.(*Node)
	if c.Parent != nil {
		c.Parent.removeChild(c)
	}
	c.Parent = p
	p.Children = append(p.Children, c)
}

// InsertBefore splices child before ref under parent. A nil ref appends.
func (o *Ops) InsertBefore(parent, child, ref vdom.Node) {
	if ref == nil {
		o.AppendChild(parent, child)
		return
	}
	p, c, r := parent.(*Node), child.(*Node), ref.(*Node)
	if c.Parent != nil {
		c.Parent.removeChild(c)
	}
	i := p.indexOf(r)
	if i < 0 {
		c.Parent = p
		p.Children = append(p.Children, c)
		return
	}
	c.Parent = p
	p.Children = append(p.Children, nil)
	copy(p.Children[i+1:], p.Children[i:])
	p.Children[i] = c
}

func (o *Ops) RemoveChild(parent, child vdom.Node) {
	parent.(*Node).removeChild(child.(*Node))
}

func (o *Ops) ParentNode(node vdom.Node) vdom.Node {
	n := node.(*Node)
	if n.Parent == nil {
		return nil
	}
	return n.Parent
}

func (o *Ops) NextSibling(node vdom.Node) vdom.Node {
	s := node.(*Node).NextSibling()
	if s == nil {
		return nil
	}
	return s
}

// SetTextContent on an element replaces its children with a single text
// node, or clears them for empty text. On text and comment nodes it
// rewrites the node's own text.
func (o *Ops) SetTextContent(node vdom.Node, text string) {
	n := node.(*Node)
	if n.Type != ElementNode {
		n.Text = text
		return
	}
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = n.Children[:0]
	if text != "" {
		t := o.newNode(TextNode)
		t.Text = text
		t.Parent = n
		n.Children = append(n.Children, t)
	}
}

func (o *Ops) SetStyleScope(node vdom.Node, scopeID string) {
	node.(*Node).StyleScope = scopeID
}

func (o *Ops) TagName(node vdom.Node) string {
	return node.(*Node).Tag
}

// ChildWalker.

func (o *Ops) FirstChild(node vdom.Node) vdom.Node {
	c := node.(*Node).FirstChild()
	if c == nil {
		return nil
	}
	return c
}

func (o *Ops) TextContent(node vdom.Node) string {
	return node.(*Node).TextContent()
}

func (o *Ops) KindOf(node vdom.Node) vdom.Kind {
	switch node.(*Node).Type {
	case TextNode:
		return vdom.KindText
	case CommentNode:
		return vdom.KindComment
	}
	return vdom.KindElement
}

// AttrSetter.

func (o *Ops) SetAttribute(node vdom.Node, key, value string) {
	n := node.(*Node)
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
}

func (o *Ops) RemoveAttribute(node vdom.Node, key string) {
	delete(node.(*Node).Attrs, key)
}

// EventTarget.

func (o *Ops) AddEventListener(node vdom.Node, event string, handler func(any)) {
	n := node.(*Node)
	if n.Listeners == nil {
		n.Listeners = make(map[string]func(any))
	}
	n.Listeners[event] = handler
}

func (o *Ops) RemoveEventListener(node vdom.Node, event string) {
	delete(node.(*Node).Listeners, event)
}

// Dispatch fires the named event on n and bubbles it toward the root,
// stopping after the first ancestor chain is exhausted. It reports
// whether any handler ran.
func Dispatch(n *Node, event string, payload any) bool {
	handled := false
	for cur := n; cur != nil; cur = cur.Parent {
		if h, ok := cur.Listeners[event]; ok {
			h(payload)
			handled = true
		}
	}
	return handled
}
