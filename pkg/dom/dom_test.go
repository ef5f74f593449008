package dom

import (
	"strings"
	"testing"
)

func TestInsertBeforeAndSiblings(t *testing.T) {
	ops := NewOps()
	parent := ops.CreateElement("ul").(*Node)
	a := ops.CreateElement("li").(*Node)
	b := ops.CreateElement("li").(*Node)
	c := ops.CreateElement("li").(*Node)

	ops.AppendChild(parent, a)
	ops.AppendChild(parent, c)
	ops.InsertBefore(parent, b, c)

	if got := parent.Children; len(got) != 3 || got[0] != a || got[1] != b || got[2] != c {
		t.Fatalf("expected children [a b c], got %v", got)
	}
	if a.NextSibling() != b {
		t.Errorf("expected a's next sibling to be b")
	}
	if c.NextSibling() != nil {
		t.Errorf("expected c to have no next sibling")
	}
}

func TestInsertBeforeReparents(t *testing.T) {
	ops := NewOps()
	p1 := ops.CreateElement("div").(*Node)
	p2 := ops.CreateElement("div").(*Node)
	child := ops.CreateElement("span").(*Node)

	ops.AppendChild(p1, child)
	ops.AppendChild(p2, child)

	if len(p1.Children) != 0 {
		t.Errorf("expected child detached from first parent")
	}
	if child.Parent != p2 {
		t.Errorf("expected child reparented")
	}
}

func TestNilInterfaceDiscipline(t *testing.T) {
	ops := NewOps()
	root := ops.CreateElement("div")
	if parent := ops.ParentNode(root); parent != nil {
		t.Errorf("expected untyped nil parent, got %#v", parent)
	}
	if sib := ops.NextSibling(root); sib != nil {
		t.Errorf("expected untyped nil sibling, got %#v", sib)
	}
}

func TestSetTextContentOnElement(t *testing.T) {
	ops := NewOps()
	el := ops.CreateElement("p").(*Node)
	ops.AppendChild(el, ops.CreateElement("span").(*Node))
	ops.SetTextContent(el, "hello")

	if el.TextContent() != "hello" {
		t.Errorf("expected text content %q, got %q", "hello", el.TextContent())
	}
	if len(el.Children) != 1 || el.Children[0].Type != TextNode {
		t.Errorf("expected single text child")
	}
}

func TestHTMLSerialization(t *testing.T) {
	ops := NewOps()
	div := ops.CreateElement("div").(*Node)
	ops.SetAttribute(div, "class", "msg")
	ops.SetAttribute(div, "title", `say "hi" & bye`)
	ops.AppendChild(div, ops.CreateTextNode("a < b").(*Node))
	ops.AppendChild(div, ops.CreateElement("br").(*Node))

	want := `<div class="msg" title="say &quot;hi&quot; &amp; bye">a &lt; b<br></div>`
	if got := HTML(div); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestHTMLStyleScope(t *testing.T) {
	ops := NewOps()
	div := ops.CreateElement("div").(*Node)
	ops.SetStyleScope(div, "7ba5bd90")
	if got := HTML(div); !strings.Contains(got, "data-v-7ba5bd90") {
		t.Errorf("expected scope attribute in output, got %s", got)
	}
}

func TestRecorderLogsMutations(t *testing.T) {
	rec := NewRecorder(NewOps())
	parent := rec.CreateElement("div")
	child := rec.CreateTextNode("hi")
	rec.AppendChild(parent, child)
	rec.SetAttribute(parent, "id", "root")

	if got := rec.Count(OpCreateElement); got != 1 {
		t.Errorf("expected 1 createElement, got %d", got)
	}
	if got := rec.Count(OpAppendChild); got != 1 {
		t.Errorf("expected 1 appendChild, got %d", got)
	}
	log := rec.Log()
	last := log[len(log)-1]
	if last.Kind != OpSetAttr || last.Key != "id" || last.Value != "root" {
		t.Errorf("unexpected last op %+v", last)
	}
	rec.Reset()
	if len(rec.Log()) != 0 {
		t.Errorf("expected empty log after reset")
	}
}

func TestDispatchBubbles(t *testing.T) {
	ops := NewOps()
	outer := ops.CreateElement("div").(*Node)
	inner := ops.CreateElement("button").(*Node)
	ops.AppendChild(outer, inner)

	var order []string
	ops.AddEventListener(inner, "click", func(any) { order = append(order, "inner") })
	ops.AddEventListener(outer, "click", func(any) { order = append(order, "outer") })

	if !Dispatch(inner, "click", nil) {
		t.Fatalf("expected dispatch to report handled")
	}
	if len(order) != 2 || order[0] != "inner" || order[1] != "outer" {
		t.Errorf("expected inner-then-outer, got %v", order)
	}
	if Dispatch(inner, "keydown", nil) {
		t.Errorf("expected unhandled event to report false")
	}
}
