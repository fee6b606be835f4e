package body

import (
	"strings"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/sentinel"
)

// NodeKind identifies the node type.
type NodeKind int

const (
	KindText NodeKind = iota
	KindWhitespace
	KindComment
	KindPunctuation
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindMasked
	KindComposite
	KindUnknown
	KindArray
	KindObject
	KindProperty
)

func (k NodeKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindWhitespace:
		return "whitespace"
	case KindComment:
		return "comment"
	case KindPunctuation:
		return "punctuation"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindMasked:
		return "masked"
	case KindComposite:
		return "composite"
	case KindUnknown:
		return "unknown"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindProperty:
		return "property"
	default:
		return "invalid"
	}
}

// Node is a body AST node.
type Node interface {
	Kind() NodeKind
}

// Text is a literal run of a flat body or a fragment of a Composite.
type Text struct {
	Text string
}

// Whitespace is insignificant JSON whitespace.
type Whitespace struct {
	Text string
}

// Comment is a line or block comment including its delimiters. Raw may
// contain sentinels, which render through the registry.
type Comment struct {
	Raw string
}

// Punctuation is one of { } [ ] : ,
type Punctuation struct {
	Text string
}

type Null struct {
	Raw string
}

type Boolean struct {
	Raw   string
	Value bool
}

type Number struct {
	Raw   string
	Value float64
}

// String is a JSON string literal. Raw includes the quotes, Value is the
// decoded content.
type String struct {
	Raw   string
	Value string
}

// Masked is a masked value occupying a whole atom. Quoted is set when the
// value was written as "${...}" and renders with its quotes.
type Masked struct {
	Index   int
	Display string
	Quoted  bool
}

// Composite is an atom assembled from Text and Masked parts, for instance
// "Bearer ${token}" or 12${suffix}. Of is KindString or KindNumber.
type Composite struct {
	Of    NodeKind
	Parts []Node
}

// Unknown is a bare literal that is not valid JSON. Raw may contain
// sentinels, which render as display text in the display view.
type Unknown struct {
	Raw string
}

// Array holds its brackets, separators and trivia in Children.
type Array struct {
	Children []Node
}

// Object holds its braces, separators, trivia and properties in Children.
type Object struct {
	Children []Node
}

// Property is a key/value pair; Children keeps the trivia and colon between
// them.
type Property struct {
	Key      Node
	Value    Node
	Children []Node
}

func (*Text) Kind() NodeKind        { return KindText }
func (*Whitespace) Kind() NodeKind  { return KindWhitespace }
func (*Comment) Kind() NodeKind     { return KindComment }
func (*Punctuation) Kind() NodeKind { return KindPunctuation }
func (*Null) Kind() NodeKind        { return KindNull }
func (*Boolean) Kind() NodeKind     { return KindBoolean }
func (*Number) Kind() NodeKind      { return KindNumber }
func (*String) Kind() NodeKind      { return KindString }
func (*Masked) Kind() NodeKind      { return KindMasked }
func (*Composite) Kind() NodeKind   { return KindComposite }
func (*Unknown) Kind() NodeKind     { return KindUnknown }
func (*Array) Kind() NodeKind       { return KindArray }
func (*Object) Kind() NodeKind      { return KindObject }
func (*Property) Kind() NodeKind    { return KindProperty }

// Items returns the element nodes of the array.
func (a *Array) Items() []Node {
	var items []Node
	for _, c := range a.Children {
		if isValue(c) {
			items = append(items, c)
		}
	}
	return items
}

// Properties returns the properties of the object in source order.
func (o *Object) Properties() []*Property {
	var props []*Property
	for _, c := range o.Children {
		if p, ok := c.(*Property); ok {
			props = append(props, p)
		}
	}
	return props
}

// Get returns the value of the first property whose decoded key equals name.
func (o *Object) Get(name string) (Node, bool) {
	for _, p := range o.Properties() {
		if s, ok := p.Key.(*String); ok && s.Value == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Name returns the key as display text.
func (p *Property) Name(reg *sentinel.Registry) string {
	switch k := p.Key.(type) {
	case *String:
		return k.Value
	case *Masked:
		return k.Display
	default:
		return strings.Trim(Render([]Node{k}, reg, false), `"`)
	}
}

func isValue(n Node) bool {
	switch n.Kind() {
	case KindWhitespace, KindComment, KindPunctuation, KindText:
		return false
	default:
		return true
	}
}

// IsTrivia reports whether n carries no value: whitespace or a comment.
func IsTrivia(n Node) bool {
	k := n.Kind()
	return k == KindWhitespace || k == KindComment
}
