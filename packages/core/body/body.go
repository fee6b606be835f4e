package body

import (
	"mime"
	"strings"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/sentinel"
)

// Body is a parsed request body.
type Body struct {
	ContentType string
	// JSON is set when Nodes is a JSON AST rather than flat text.
	JSON  bool
	Nodes []Node
}

// Build parses text according to contentType. JSON content types get a JSON
// AST when the text parses; anything else yields Text and Masked nodes.
func Build(text, contentType string, reg *sentinel.Registry) *Body {
	b := &Body{ContentType: contentType}
	if IsJSON(contentType) {
		if nodes, err := ParseJSON(text, reg); err == nil {
			b.JSON = true
			b.Nodes = nodes
			return b
		}
	}
	b.Nodes = flat(text, reg)
	return b
}

func flat(text string, reg *sentinel.Registry) []Node {
	var nodes []Node
	for _, seg := range sentinel.Split(text) {
		if seg.Masked {
			nodes = append(nodes, &Masked{Index: seg.Index, Display: reg.Display(seg.Index)})
			continue
		}
		nodes = append(nodes, &Text{Text: seg.Text})
	}
	return nodes
}

// IsJSON reports whether the media type is application/json or carries a
// +json suffix.
func IsJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// Root returns the root value of a JSON body.
func (b *Body) Root() Node {
	if b == nil || !b.JSON {
		return nil
	}
	for _, n := range b.Nodes {
		if !IsTrivia(n) {
			return n
		}
	}
	return nil
}

// Text renders the body. With reveal set masked values are unmasked.
func (b *Body) Text(reg *sentinel.Registry, reveal bool) string {
	if b == nil {
		return ""
	}
	return Render(b.Nodes, reg, reveal)
}

// Render writes nodes back to text, in the display view or, with reveal
// set, the execution view.
func Render(nodes []Node, reg *sentinel.Registry, reveal bool) string {
	var sb strings.Builder
	for _, n := range nodes {
		write(&sb, n, reg, reveal)
	}
	return sb.String()
}

func write(sb *strings.Builder, n Node, reg *sentinel.Registry, reveal bool) {
	switch n := n.(type) {
	case *Text:
		sb.WriteString(n.Text)
	case *Whitespace:
		sb.WriteString(n.Text)
	case *Punctuation:
		sb.WriteString(n.Text)
	case *Comment:
		sb.WriteString(reg.Substitute(n.Raw, reveal))
	case *Unknown:
		sb.WriteString(reg.Substitute(n.Raw, reveal))
	case *Null:
		sb.WriteString(n.Raw)
	case *Boolean:
		sb.WriteString(n.Raw)
	case *Number:
		sb.WriteString(n.Raw)
	case *String:
		sb.WriteString(n.Raw)
	case *Masked:
		text := n.Display
		if reveal {
			text = reg.Text(n.Index, true)
		}
		if n.Quoted {
			sb.WriteByte('"')
			sb.WriteString(text)
			sb.WriteByte('"')
			return
		}
		sb.WriteString(text)
	case *Composite:
		for _, p := range n.Parts {
			write(sb, p, reg, reveal)
		}
	case *Array:
		for _, c := range n.Children {
			write(sb, c, reg, reveal)
		}
	case *Object:
		for _, c := range n.Children {
			write(sb, c, reg, reveal)
		}
	case *Property:
		for _, c := range n.Children {
			write(sb, c, reg, reveal)
		}
	}
}
