package vdom

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement   Kind = iota // <div>, <button>, etc.
	KindText                  // Plain text node
	KindComment               // Comment node
	KindComponent             // Component placeholder
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// Node is an opaque handle to a render-target node. Backends must use
// comparable handles (typically pointers) and return untyped nil for
// "no node".
type Node = any

// VNode is an immutable-per-render description of one render-target node.
// A fresh tree is produced on every render; the Elm handle is carried
// forward into the next version's corresponding node when it is reused.
type VNode struct {
	Kind     Kind
	Tag      string
	Data     *Data
	Children []*VNode
	Text     string
	Key      string
	NS       string

	// Elm is the produced render-target node once materialized.
	Elm Node

	// Instance is the component linkage when this node is a component
	// placeholder.
	Instance ComponentInstance

	// Parent is the placeholder vnode in the owning component's parent
	// tree, set on a component's root vnode.
	Parent *VNode

	// IsStatic marks a known-immutable subtree; together with IsCloned
	// it lets the patcher reuse the previous render target untouched.
	IsStatic bool
	IsCloned bool

	// IsAsyncPlaceholder marks the comment stand-in rendered while an
	// async component factory is unresolved.
	IsAsyncPlaceholder bool
	AsyncFactory       *AsyncFactory
}

// Data is the payload attached to a vnode: attributes, event handlers,
// scoping and lifecycle hooks.
type Data struct {
	Attrs map[string]string
	On    map[string]func(payload any)

	// ScopeID is applied to the node via NodeOps.SetStyleScope.
	ScopeID string

	Hook *Hooks

	// PendingInsert carries a child component's deferred insert-hook
	// queue up to the parent patch, so insert hooks fire only after the
	// whole ancestor chain is in the target, child before parent.
	PendingInsert []*VNode
}

// Hooks are the lifecycle hooks the patcher invokes on a vnode at the
// documented points. Init/Prepatch/Insert/Destroy carry the component
// contract; Create/Update/Postpatch/Remove are available to any node.
type Hooks struct {
	Init      func(v *VNode)
	Prepatch  func(oldVnode, vnode *VNode)
	Create    func(oldVnode, vnode *VNode)
	Update    func(oldVnode, vnode *VNode)
	Postpatch func(oldVnode, vnode *VNode)
	Insert    func(v *VNode)
	Remove    func(v *VNode, done func())
	Destroy   func(v *VNode)
}

// AsyncFactory identifies an async component factory. Placeholders for
// the same factory are interchangeable until the factory fails.
type AsyncFactory struct {
	Err error
}

// ComponentInstance is the contract the patcher needs from the component
// collaborator attached to a placeholder vnode.
type ComponentInstance interface {
	// RootVNode returns the instance's current rendered root.
	RootVNode() *VNode
	// Elm returns the instance's render-target root.
	Elm() Node
}

// NewElement creates an element vnode.
func NewElement(tag string, data *Data, children ...*VNode) *VNode {
	return &VNode{Kind: KindElement, Tag: tag, Data: data, Children: children}
}

// NewText creates a text vnode.
func NewText(text string) *VNode {
	return &VNode{Kind: KindText, Text: text}
}

// NewComment creates a comment vnode.
func NewComment(text string) *VNode {
	return &VNode{Kind: KindComment, Text: text}
}

// CloneVNode shallow-clones a vnode, marking the clone. Used when a node
// object from a previous render appears again in a new tree: the already
// materialized original must not be mutated.
func CloneVNode(v *VNode) *VNode {
	cloned := *v
	if v.Children != nil {
		cloned.Children = make([]*VNode, len(v.Children))
		copy(cloned.Children, v.Children)
	}
	cloned.IsCloned = true
	return &cloned
}

// textInputTypes are the input types whose content model is text-like;
// two inputs within this set count as the same logical node.
var textInputTypes = map[string]bool{
	"text":     true,
	"number":   true,
	"password": true,
	"search":   true,
	"email":    true,
	"tel":      true,
	"url":      true,
}

func sameInputType(a, b *VNode) bool {
	if a.Tag != "input" {
		return true
	}
	ta := attrOf(a, "type")
	tb := attrOf(b, "type")
	return ta == tb || (textInputTypes[ta] && textInputTypes[tb])
}

func attrOf(v *VNode, key string) string {
	if v.Data == nil || v.Data.Attrs == nil {
		return ""
	}
	return v.Data.Attrs[key]
}

// SameVNode is the identity rule: it decides whether two vnodes describe
// the same logical render-target node, reusable in place rather than
// replaced. Every other reconciliation decision builds on it.
func SameVNode(a, b *VNode) bool {
	if a.Key != b.Key {
		return false
	}
	if a.IsAsyncPlaceholder && b.IsAsyncPlaceholder {
		return a.AsyncFactory == b.AsyncFactory &&
			(b.AsyncFactory == nil || b.AsyncFactory.Err == nil)
	}
	return a.Tag == b.Tag &&
		a.Kind == b.Kind &&
		(a.Data != nil) == (b.Data != nil) &&
		sameInputType(a, b)
}
