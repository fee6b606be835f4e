package body

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/sentinel"
)

var (
	numberPattern   = regexp.MustCompile(`^-?(0|[1-9]\d*)(\.\d+)?([eE][+-]?\d+)?$`)
	numericFragment = regexp.MustCompile(`^[0-9eE+\-.]*$`)
)

// SyntaxError describes why a JSON body could not be parsed. Build never
// returns it; it is exposed for ParseJSON callers.
type SyntaxError struct {
	Token   string
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("json: %s", e.Message)
	}
	return fmt.Sprintf("json: %s near %q", e.Message, e.Token)
}

type parser struct {
	tokens []token
	pos    int
	reg    *sentinel.Registry
}

// ParseJSON parses text as JSONC into a node list: leading trivia, the root
// value and trailing trivia.
func ParseJSON(text string, reg *sentinel.Registry) ([]Node, error) {
	tokens, err := lex(text)
	if err != nil {
		return nil, &SyntaxError{Message: err.Error()}
	}
	p := &parser{tokens: tokens, reg: reg}
	return p.document()
}

func (p *parser) document() ([]Node, error) {
	nodes, err := p.trivia()
	if err != nil {
		return nil, err
	}
	if p.eof() {
		return nil, &SyntaxError{Message: "empty document"}
	}
	root, err := p.value()
	if err != nil {
		return nil, err
	}
	nodes = append(nodes, root)
	rest, err := p.trivia()
	if err != nil {
		return nil, err
	}
	nodes = append(nodes, rest...)
	if !p.eof() {
		return nil, p.unexpected("content after root value")
	}
	return nodes, nil
}

func (p *parser) eof() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) unexpected(msg string) error {
	if p.eof() {
		return &SyntaxError{Message: "unexpected end of input, " + msg}
	}
	return &SyntaxError{Token: p.peek().text, Message: msg}
}

func (p *parser) isPunct(text string) bool {
	return !p.eof() && p.peek().kind == tokPunct && p.peek().text == text
}

func (p *parser) punct(text string) (Node, error) {
	if !p.isPunct(text) {
		return nil, p.unexpected(fmt.Sprintf("expected %q", text))
	}
	p.pos++
	return &Punctuation{Text: text}, nil
}

func (p *parser) trivia() ([]Node, error) {
	var nodes []Node
	for !p.eof() {
		t := p.peek()
		switch {
		case t.kind == tokWhitespace:
			nodes = append(nodes, &Whitespace{Text: t.text})
			p.pos++
		case t.kind == tokComment && t.opens:
			c, err := p.comment()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, c)
		default:
			return nodes, nil
		}
	}
	return nodes, nil
}

// comment joins the fragments of one comment. Sentinels inside it stay in
// Raw.
func (p *parser) comment() (Node, error) {
	var raw strings.Builder
	for !p.eof() {
		t := p.peek()
		p.pos++
		raw.WriteString(t.text)
		if t.kind == tokComment && t.closes {
			return &Comment{Raw: raw.String()}, nil
		}
	}
	return nil, &SyntaxError{Message: "unterminated comment"}
}

func (p *parser) value() (Node, error) {
	if p.eof() {
		return nil, p.unexpected("expected value")
	}
	t := p.peek()
	switch {
	case t.kind == tokPunct && t.text == "{":
		return p.object()
	case t.kind == tokPunct && t.text == "[":
		return p.array()
	case t.kind == tokString && t.opens:
		return p.str()
	case t.kind == tokLiteral, t.kind == tokMasked && t.state == stateStructural:
		return p.atom()
	default:
		return nil, p.unexpected("expected value")
	}
}

func (p *parser) object() (Node, error) {
	open, _ := p.punct("{")
	obj := &Object{Children: []Node{open}}
	return obj, p.members("}", p.property, &obj.Children)
}

func (p *parser) array() (Node, error) {
	open, _ := p.punct("[")
	arr := &Array{Children: []Node{open}}
	return arr, p.members("]", p.value, &arr.Children)
}

// members parses a comma separated list up to the closing delimiter,
// accepting a trailing comma.
func (p *parser) members(closing string, item func() (Node, error), children *[]Node) error {
	add := func(nodes ...Node) { *children = append(*children, nodes...) }
	expectItem := true
	for {
		trivia, err := p.trivia()
		if err != nil {
			return err
		}
		add(trivia...)
		if p.isPunct(closing) {
			end, _ := p.punct(closing)
			add(end)
			return nil
		}
		if !expectItem {
			sep, err := p.punct(",")
			if err != nil {
				return err
			}
			add(sep)
			expectItem = true
			continue
		}
		n, err := item()
		if err != nil {
			return err
		}
		add(n)
		expectItem = false
	}
}

func (p *parser) property() (Node, error) {
	if p.eof() || p.peek().kind != tokString || !p.peek().opens {
		return nil, p.unexpected("expected property name")
	}
	key, err := p.str()
	if err != nil {
		return nil, err
	}
	prop := &Property{Key: key, Children: []Node{key}}
	trivia, err := p.trivia()
	if err != nil {
		return nil, err
	}
	prop.Children = append(prop.Children, trivia...)
	colon, err := p.punct(":")
	if err != nil {
		return nil, err
	}
	prop.Children = append(prop.Children, colon)
	if trivia, err = p.trivia(); err != nil {
		return nil, err
	}
	prop.Children = append(prop.Children, trivia...)
	value, err := p.value()
	if err != nil {
		return nil, err
	}
	prop.Value = value
	prop.Children = append(prop.Children, value)
	return prop, nil
}

// str groups the fragments of one string literal. A string holding exactly
// one sentinel becomes a quoted Masked node, a string mixing text and
// sentinels becomes a Composite.
func (p *parser) str() (Node, error) {
	var group []token
	for !p.eof() {
		t := p.peek()
		p.pos++
		group = append(group, t)
		if t.kind == tokString && t.closes {
			break
		}
	}
	if last := group[len(group)-1]; last.kind != tokString || !last.closes {
		return nil, &SyntaxError{Message: "unterminated string"}
	}

	masked := 0
	for _, t := range group {
		if t.kind == tokMasked {
			masked++
		}
	}
	if masked == 0 {
		var raw strings.Builder
		for _, t := range group {
			raw.WriteString(t.text)
		}
		var value string
		if err := json.Unmarshal([]byte(raw.String()), &value); err != nil {
			return nil, &SyntaxError{Token: raw.String(), Message: "invalid string"}
		}
		return &String{Raw: raw.String(), Value: value}, nil
	}
	if len(group) == 3 && masked == 1 && group[0].text == `"` && group[2].text == `"` {
		return p.masked(group[1], true), nil
	}
	return &Composite{Of: KindString, Parts: p.parts(group)}, nil
}

// atom groups adjacent bare literal and sentinel tokens.
func (p *parser) atom() (Node, error) {
	var group []token
	for !p.eof() {
		t := p.peek()
		if t.kind != tokLiteral && (t.kind != tokMasked || t.state != stateStructural) {
			break
		}
		group = append(group, t)
		p.pos++
	}

	if len(group) == 1 {
		t := group[0]
		if t.kind == tokMasked {
			return p.masked(t, false), nil
		}
		return literal(t.text), nil
	}

	numeric := true
	var raw strings.Builder
	for _, t := range group {
		raw.WriteString(t.text)
		if t.kind == tokLiteral && !numericFragment.MatchString(t.text) {
			numeric = false
		}
	}
	if !numeric {
		return &Unknown{Raw: raw.String()}, nil
	}
	return &Composite{Of: KindNumber, Parts: p.parts(group)}, nil
}

func (p *parser) masked(t token, quoted bool) *Masked {
	return &Masked{Index: t.index, Display: p.reg.Display(t.index), Quoted: quoted}
}

func (p *parser) parts(group []token) []Node {
	parts := make([]Node, 0, len(group))
	for _, t := range group {
		if t.kind == tokMasked {
			parts = append(parts, p.masked(t, false))
			continue
		}
		if t.text != "" {
			parts = append(parts, &Text{Text: t.text})
		}
	}
	return parts
}

func literal(raw string) Node {
	switch raw {
	case "null":
		return &Null{Raw: raw}
	case "true":
		return &Boolean{Raw: raw, Value: true}
	case "false":
		return &Boolean{Raw: raw, Value: false}
	}
	if numberPattern.MatchString(raw) {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return &Number{Raw: raw, Value: v}
		}
	}
	return &Unknown{Raw: raw}
}
