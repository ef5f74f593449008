package vdom

// NodeOps is the platform capability set the patcher mutates the render
// target through. All operations are synchronous. InsertBefore with a nil
// ref appends, matching DOM semantics.
type NodeOps interface {
	CreateElement(tag string) Node
	CreateElementNS(ns, tag string) Node
	CreateTextNode(text string) Node
	CreateComment(text string) Node
	AppendChild(parent, child Node)
	InsertBefore(parent, newNode, ref Node)
	RemoveChild(parent, child Node)
	ParentNode(n Node) Node
	NextSibling(n Node) Node
	SetTextContent(n Node, text string)
	SetStyleScope(n Node, scopeID string)
	TagName(n Node) string
}

// ChildWalker is the optional backend extension hydration needs to walk
// an existing server-rendered target. A backend that does not implement
// it opts out of hydration: the patcher falls back to a full mount.
type ChildWalker interface {
	FirstChild(n Node) Node
	TextContent(n Node) string
	KindOf(n Node) Kind
}

// Module is a set of side-effect hooks the patcher invokes at the
// documented points. Modules implement attribute, event, style and
// similar bindings without the patcher knowing about them. Remove hooks
// may complete asynchronously; physical detachment waits for every
// registered done callback.
type Module struct {
	Create   func(oldVnode, vnode *VNode)
	Activate func(oldVnode, vnode *VNode)
	Update   func(oldVnode, vnode *VNode)
	Remove   func(vnode *VNode, done func())
	Destroy  func(vnode *VNode)
}
