package dom

import "github.com/yeyan1996/vue/pkg/vdom"

// OpKind names a recorded mutation. The values double as the wire
// vocabulary of the patch stream, so they marshal as plain strings.
type OpKind string

const (
	OpCreateElement  OpKind = "createElement"
	OpCreateText     OpKind = "createText"
	OpCreateComment  OpKind = "createComment"
	OpAppendChild    OpKind = "appendChild"
	OpInsertBefore   OpKind = "insertBefore"
	OpRemoveChild    OpKind = "removeChild"
	OpSetText        OpKind = "setText"
	OpSetAttr        OpKind = "setAttr"
	OpRemoveAttr     OpKind = "removeAttr"
	OpAddListener    OpKind = "addListener"
	OpRemoveListener OpKind = "removeListener"
)

// Op is one recorded mutation. Node and Ref carry the stable IDs of the
// nodes involved; fields that don't apply to a kind stay zero and are
// omitted on the wire.
type Op struct {
	Kind  OpKind `json:"op"`
	Node  uint64 `json:"node,omitempty"`
	Ref   uint64 `json:"ref,omitempty"`
	Tag   string `json:"tag,omitempty"`
	NS    string `json:"ns,omitempty"`
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`
}

// Recorder wraps an Ops backend and logs every mutation it performs.
// The log is what the server streams to clients, and what tests assert
// move and create counts against.
type Recorder struct {
	ops *Ops
	log []Op
}

// NewRecorder wraps ops.
func NewRecorder(ops *Ops) *Recorder {
	return &Recorder{ops: ops}
}

// Log returns the recorded operations since the last Reset.
func (r *Recorder) Log() []Op {
	return r.log
}

// Reset clears the log, typically after one flush has been streamed.
func (r *Recorder) Reset() {
	r.log = r.log[:0]
}

// Count returns how many recorded operations are of the given kind.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.log {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func id(node vdom.Node) uint64 {
	if node == nil {
		return 0
	}
	return node.(*Node).ID
}

func (r *Recorder) CreateElement(tag string) vdom.Node {
	n := r.ops.CreateElement(tag)
	r.log = append(r.log, Op{Kind: OpCreateElement, Node: id(n), Tag: tag})
	return n
}

func (r *Recorder) CreateElementNS(ns, tag string) vdom.Node {
	n := r.ops.CreateElementNS(ns, tag)
	r.log = append(r.log, Op{Kind: OpCreateElement, Node: id(n), Tag: tag, NS: ns})
	return n
}

func (r *Recorder) CreateTextNode(text string) vdom.Node {
	n := r.ops.CreateTextNode(text)
	r.log = append(r.log, Op{Kind: OpCreateText, Node: id(n), Value: text})
	return n
}

func (r *Recorder) CreateComment(text string) vdom.Node {
	n := r.ops.CreateComment(text)
	r.log = append(r.log, Op{Kind: OpCreateComment, Node: id(n), Value: text})
	return n
}

func (r *Recorder) AppendChild(parent, child vdom.Node) {
	r.ops.AppendChild(parent, child)
	r.log = append(r.log, Op{Kind: OpAppendChild, Node: id(child), Ref: id(parent)})
}

func (r *Recorder) InsertBefore(parent, child, ref vdom.Node) {
	r.ops.InsertBefore(parent, child, ref)
	r.log = append(r.log, Op{Kind: OpInsertBefore, Node: id(child), Ref: id(ref)})
}

func (r *Recorder) RemoveChild(parent, child vdom.Node) {
	r.ops.RemoveChild(parent, child)
	r.log = append(r.log, Op{Kind: OpRemoveChild, Node: id(child), Ref: id(parent)})
}

func (r *Recorder) ParentNode(node vdom.Node) vdom.Node  { return r.ops.ParentNode(node) }
func (r *Recorder) NextSibling(node vdom.Node) vdom.Node { return r.ops.NextSibling(node) }

func (r *Recorder) SetTextContent(node vdom.Node, text string) {
	r.ops.SetTextContent(node, text)
	r.log = append(r.log, Op{Kind: OpSetText, Node: id(node), Value: text})
}

func (r *Recorder) SetStyleScope(node vdom.Node, scopeID string) {
	r.ops.SetStyleScope(node, scopeID)
}

func (r *Recorder) TagName(node vdom.Node) string { return r.ops.TagName(node) }

// ChildWalker passthrough so hydration works through a Recorder too.

func (r *Recorder) FirstChild(node vdom.Node) vdom.Node { return r.ops.FirstChild(node) }
func (r *Recorder) TextContent(node vdom.Node) string   { return r.ops.TextContent(node) }
func (r *Recorder) KindOf(node vdom.Node) vdom.Kind     { return r.ops.KindOf(node) }

func (r *Recorder) SetAttribute(node vdom.Node, key, value string) {
	r.ops.SetAttribute(node, key, value)
	r.log = append(r.log, Op{Kind: OpSetAttr, Node: id(node), Key: key, Value: value})
}

func (r *Recorder) RemoveAttribute(node vdom.Node, key string) {
	r.ops.RemoveAttribute(node, key)
	r.log = append(r.log, Op{Kind: OpRemoveAttr, Node: id(node), Key: key})
}

func (r *Recorder) AddEventListener(node vdom.Node, event string, handler func(any)) {
	r.ops.AddEventListener(node, event, handler)
	r.log = append(r.log, Op{Kind: OpAddListener, Node: id(node), Key: event})
}

func (r *Recorder) RemoveEventListener(node vdom.Node, event string) {
	r.ops.RemoveEventListener(node, event)
	r.log = append(r.log, Op{Kind: OpRemoveListener, Node: id(node), Key: event})
}
