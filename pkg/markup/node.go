// Package markup holds the already-parsed template tree the compiler works
// on: a closed set of node types (elements, text and comments) with ordered
// attributes and children.
package markup

// Node is one of *Element, *Text or *Comment. The set is closed; switch on
// the concrete type to handle every kind.
type Node interface {
	node()
}

// Attr is one attribute of an element. Order is source order.
type Attr struct {
	Name  string
	Value string
}

// Element is a tagged node. The implicit root returned by a Parser has an
// empty Tag.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []Node
}

// Text is raw character data. Entities are kept verbatim.
type Text struct {
	Data string
}

// Comment is the content of a <!-- --> comment.
type Comment struct {
	Data string
}

func (*Element) node() {}
func (*Text) node()    {}
func (*Comment) node() {}

// Parser turns a markup fragment into a tree under an implicit root.
//
// Implementations must not decode entities and must honour self-closing
// tags.
type Parser interface {
	ParseFragment(src []byte) (*Element, error)
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttr reports whether the element carries the named attribute.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// ElementChildren returns the direct children that are elements.
func (e *Element) ElementChildren() []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// FindAll returns every descendant element matching pred, in document order.
func (e *Element) FindAll(pred func(*Element) bool) []*Element {
	var out []*Element
	var walk func(*Element)
	walk = func(el *Element) {
		for _, c := range el.Children {
			child, ok := c.(*Element)
			if !ok {
				continue
			}
			if pred(child) {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(e)
	return out
}

// RemoveAll detaches every descendant element matching pred.
func (e *Element) RemoveAll(pred func(*Element) bool) {
	kept := e.Children[:0]
	for _, c := range e.Children {
		if child, ok := c.(*Element); ok {
			if pred(child) {
				continue
			}
			child.RemoveAll(pred)
		}
		kept = append(kept, c)
	}
	clear(e.Children[len(kept):])
	e.Children = kept
}

// Retain keeps only the direct children for which keep returns true.
func (e *Element) Retain(keep func(Node) bool) {
	kept := e.Children[:0]
	for _, c := range e.Children {
		if keep(c) {
			kept = append(kept, c)
		}
	}
	clear(e.Children[len(kept):])
	e.Children = kept
}

// TextContent returns the raw markup inside the element. For style and
// script elements this is their source text.
func (e *Element) TextContent() string {
	return e.InnerHTML()
}

// IsElement reports whether n is an element.
func IsElement(n Node) bool {
	_, ok := n.(*Element)
	return ok
}
