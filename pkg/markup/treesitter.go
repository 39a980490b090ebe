package markup

import (
	"fmt"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uxc/pkg/parser"
)

// TreeSitterParser implements Parser on top of the tree-sitter HTML grammar.
//
// The grammar applies HTML's implied end tags, so its element nesting is
// not used. The tree is rebuilt from the tag tokens instead, with XML
// rules: an element closes only at "/>" or at its own end tag, an end tag
// closes every element opened after its match, an unmatched end tag is
// dropped and elements still open at the end of input close there. Text
// nodes are cut from the raw source between tokens, so entities and
// whitespace survive exactly as written.
type TreeSitterParser struct {
	pm *parser.ParserManager
}

// NewTreeSitterParser creates a markup parser backed by pm.
func NewTreeSitterParser(pm *parser.ParserManager) *TreeSitterParser {
	return &TreeSitterParser{pm: pm}
}

// ParseFragment parses src and returns its nodes under an implicit root.
func (p *TreeSitterParser) ParseFragment(src []byte) (*Element, error) {
	tree, err := p.pm.Parse(src, parser.LanguageHTML)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	defer tree.Close()

	root := &Element{}
	b := builder{src: src, open: []*Element{root}}
	b.walk(tree.RootNode())
	b.flush(uint(len(src)))
	return root, nil
}

type builder struct {
	src []byte
	// pos is the end of the last consumed token.
	pos uint
	// open is the stack of unclosed elements; open[0] is the implicit root.
	open []*Element
}

func (b *builder) text(n *ts.Node) string {
	return string(b.src[n.StartByte():n.EndByte()])
}

func (b *builder) add(n Node) {
	parent := b.open[len(b.open)-1]
	parent.Children = append(parent.Children, n)
}

// flush turns the source between the last token and end into text.
func (b *builder) flush(end uint) {
	if end > b.pos {
		b.add(&Text{Data: string(b.src[b.pos:end])})
		b.pos = end
	}
}

// walk visits the tag tokens under n in document order.
func (b *builder) walk(n *ts.Node) {
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		// Zero-width nodes are tokens the grammar inserted during recovery.
		if c == nil || c.StartByte() == c.EndByte() || c.StartByte() < b.pos {
			continue
		}
		switch c.Kind() {
		case "start_tag":
			b.flush(c.StartByte())
			el := &Element{}
			b.tag(c, el)
			b.add(el)
			b.open = append(b.open, el)
		case "self_closing_tag":
			b.flush(c.StartByte())
			el := &Element{}
			b.tag(c, el)
			b.add(el)
		case "end_tag", "erroneous_end_tag":
			b.flush(c.StartByte())
			b.close(b.endTagName(c))
		case "script_element", "style_element":
			b.flush(c.StartByte())
			b.add(b.rawElement(c))
		case "comment":
			b.flush(c.StartByte())
			b.add(&Comment{Data: commentData(b.text(c))})
		case "doctype":
			b.flush(c.StartByte())
		default:
			b.walk(c)
			continue
		}
		b.pos = c.EndByte()
	}
}

// close pops the innermost open element named tag and everything opened
// after it. The implicit root is never closed.
func (b *builder) close(tag string) {
	for i := len(b.open) - 1; i > 0; i-- {
		if b.open[i].Tag == tag {
			b.open = b.open[:i]
			return
		}
	}
}

func (b *builder) endTagName(n *ts.Node) string {
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if k := c.Kind(); k == "tag_name" || k == "erroneous_end_tag_name" {
			return b.text(c)
		}
	}
	return ""
}

// rawElement converts a script or style element. Its content is a single
// Text child.
func (b *builder) rawElement(n *ts.Node) *Element {
	el := &Element{}
	count := n.ChildCount()
	if count == 0 {
		return el
	}

	start := n.Child(0)
	b.tag(start, el)
	if start.Kind() == "self_closing_tag" {
		return el
	}

	from := start.EndByte()
	to := n.EndByte()
	if last := n.Child(count - 1); last != nil && last.Kind() == "end_tag" && last.EndByte() > last.StartByte() {
		to = last.StartByte()
	}
	if to > from {
		el.Children = []Node{&Text{Data: string(b.src[from:to])}}
	}
	return el
}

// tag fills in the tag name and attributes from a start or self-closing tag.
func (b *builder) tag(n *ts.Node, el *Element) {
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		switch c.Kind() {
		case "tag_name":
			el.Tag = b.text(c)
		case "attribute":
			el.Attrs = append(el.Attrs, b.attribute(c))
		}
	}
}

func (b *builder) attribute(n *ts.Node) Attr {
	var a Attr
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		switch c.Kind() {
		case "attribute_name":
			a.Name = b.text(c)
		case "attribute_value":
			a.Value = b.text(c)
		case "quoted_attribute_value":
			for j := uint(0); j < c.ChildCount(); j++ {
				if v := c.Child(j); v.Kind() == "attribute_value" {
					a.Value = b.text(v)
				}
			}
		}
	}
	return a
}

func commentData(raw string) string {
	raw = strings.TrimPrefix(raw, "<!--")
	return strings.TrimSuffix(raw, "-->")
}
