package markup

import "strings"

// Render serialises n back to markup. Text and attribute values are written
// verbatim; elements without children are self-closed.
func Render(n Node) string {
	var b strings.Builder
	write(&b, n)
	return b.String()
}

// InnerHTML renders the element's children.
func (e *Element) InnerHTML() string {
	var b strings.Builder
	for _, c := range e.Children {
		write(&b, c)
	}
	return b.String()
}

// OuterHTML renders the element itself. The implicit root renders as its
// children.
func (e *Element) OuterHTML() string {
	return Render(e)
}

func write(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Text:
		b.WriteString(n.Data)
	case *Comment:
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")
	case *Element:
		if n.Tag == "" {
			for _, c := range n.Children {
				write(b, c)
			}
			return
		}
		b.WriteByte('<')
		b.WriteString(n.Tag)
		for _, a := range n.Attrs {
			b.WriteByte(' ')
			b.WriteString(a.Name)
			if a.Value == "" {
				continue
			}
			quote := byte('"')
			if strings.IndexByte(a.Value, '"') >= 0 && strings.IndexByte(a.Value, '\'') < 0 {
				quote = '\''
			}
			b.WriteByte('=')
			b.WriteByte(quote)
			b.WriteString(a.Value)
			b.WriteByte(quote)
		}
		if len(n.Children) == 0 {
			b.WriteString("/>")
			return
		}
		b.WriteByte('>')
		for _, c := range n.Children {
			write(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Tag)
		b.WriteByte('>')
	}
}
