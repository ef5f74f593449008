package dom

import "strings"

// NodeType discriminates the three node shapes the tree can hold.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
	CommentNode
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	}
	return "unknown"
}

// Node is a node of the in-memory document tree. Nodes are created
// through Ops and mutated only through it; the fields are exported for
// inspection by serializers and tests.
type Node struct {
	ID         uint64
	Type       NodeType
	Tag        string
	NS         string
	Text       string
	Attrs      map[string]string
	StyleScope string
	Listeners  map[string]func(any)
	Parent     *Node
	Children   []*Node
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// NextSibling returns the node following n under its parent, or nil.
func (n *Node) NextSibling() *Node {
	if n.Parent == nil {
		return nil
	}
	for i, c := range n.Parent.Children {
		if c == n {
			if i+1 < len(n.Parent.Children) {
				return n.Parent.Children[i+1]
			}
			return nil
		}
	}
	return nil
}

// TextContent returns the concatenated text of the subtree, matching the
// DOM property of the same name. Comments contribute nothing.
func (n *Node) TextContent() string {
	switch n.Type {
	case TextNode:
		return n.Text
	case CommentNode:
		return ""
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) removeChild(child *Node) {
	if i := n.indexOf(child); i >= 0 {
		n.Children = append(n.Children[:i], n.Children[i+1:]...)
		child.Parent = nil
	}
}
