package dom

import (
	"io"
	"sort"
	"strings"
)

// voidElements never take a closing tag in HTML output.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// WriteHTML serializes the subtree rooted at n as HTML. Attribute order
// is deterministic (sorted by name, data-v scope last) so output is
// stable across runs.
func WriteHTML(w io.Writer, n *Node) error {
	hw := &htmlWriter{w: w}
	hw.writeNode(n)
	return hw.err
}

// HTML serializes the subtree rooted at n into a string.
func HTML(n *Node) string {
	var b strings.Builder
	WriteHTML(&b, n)
	return b.String()
}

type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) writeString(s string) {
	if hw.err == nil {
		_, hw.err = io.WriteString(hw.w, s)
	}
}

func (hw *htmlWriter) writeNode(n *Node) {
	switch n.Type {
	case TextNode:
		hw.writeString(escapeHTML(n.Text))
		return
	case CommentNode:
		hw.writeString("<!--")
		hw.writeString(escapeHTML(n.Text))
		hw.writeString("-->")
		return
	}

	hw.writeString("<")
	hw.writeString(n.Tag)
	if len(n.Attrs) > 0 {
		names := make([]string, 0, len(n.Attrs))
		for name := range n.Attrs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			hw.writeString(" ")
			hw.writeString(name)
			hw.writeString(`="`)
			hw.writeString(escapeAttr(n.Attrs[name]))
			hw.writeString(`"`)
		}
	}
	if n.StyleScope != "" {
		hw.writeString(" data-v-")
		hw.writeString(n.StyleScope)
	}
	hw.writeString(">")

	if voidElements[n.Tag] {
		return
	}
	for _, c := range n.Children {
		hw.writeNode(c)
	}
	hw.writeString("</")
	hw.writeString(n.Tag)
	hw.writeString(">")
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// escapeAttr escapes text for safe inclusion in attribute values. In
// addition to the standard entities it escapes whitespace characters
// that could break attribute parsing.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
