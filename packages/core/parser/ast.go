package parser

import (
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/body"
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/sentinel"
)

// Document is the request AST of one template.
type Document struct {
	// Request is a *RequestNode or an *ErrorNode.
	Request Node
	// Headers holds *HeaderNode and *ErrorNode entries in source order.
	Headers []Node
	Body    *body.Body
}

// Node is a line-level AST node.
type Node interface {
	Pos() (line, column int)
}

type RequestNode struct {
	Method   string
	URL      Value
	Protocol string
	Line     int
	Column   int
}

type HeaderNode struct {
	// Name is lowercased.
	Name   string
	Value  Value
	Line   int
	Column int
}

func (n *RequestNode) Pos() (int, int) { return n.Line, n.Column }
func (n *HeaderNode) Pos() (int, int)  { return n.Line, n.Column }
func (n *ErrorNode) Pos() (int, int)   { return n.Line, n.Column }

// Value is the value of a URL or header: *Text, *Masked or *Values.
type Value interface {
	valueNode()
}

type Text struct {
	Text string
}

type Masked struct {
	Index   int
	Display string
}

// Values is a compound value of *Text and *Masked parts.
type Values struct {
	Parts []Value
}

func (*Text) valueNode()   {}
func (*Masked) valueNode() {}
func (*Values) valueNode() {}

// Metadata carries what a parse discovered besides the AST: the masked value
// registry, the routing content type and non-fatal warnings.
type Metadata struct {
	Registry    *sentinel.Registry
	ContentType string
	Warnings    []Warning
}

// Errors returns every error node of the document in source order.
func (d *Document) Errors() []*ErrorNode {
	var errs []*ErrorNode
	if e, ok := d.Request.(*ErrorNode); ok {
		errs = append(errs, e)
	}
	for _, h := range d.Headers {
		if e, ok := h.(*ErrorNode); ok {
			errs = append(errs, e)
		}
	}
	return errs
}

// Err wraps the first error node in a *GrammarError, or returns nil.
func (d *Document) Err() error {
	errs := d.Errors()
	if len(errs) == 0 {
		return nil
	}
	return &GrammarError{Node: errs[0], Count: len(errs)}
}

// Method returns the request method, or "" when the request line failed.
func (d *Document) Method() string {
	if r, ok := d.Request.(*RequestNode); ok {
		return r.Method
	}
	return ""
}
