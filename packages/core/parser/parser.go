package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/body"
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/sentinel"
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/template"
)

// Methods is the accepted method vocabulary.
var Methods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS", "TRACE", "CONNECT"}

// Protocols is the accepted protocol allow-list.
var Protocols = []string{"HTTP/1.1"}

var headerName = regexp.MustCompile("^[!#$%&'*+\\-.^_`|~0-9A-Za-z]+$")

type Parser struct {
	lines []Line
	meta  *Metadata
}

// Parse turns a settled template into a request document. Only a template
// without slots and with blank text fails; every other problem is reported
// as an ErrorNode in the document or a Warning in the metadata.
func Parse(r *template.Resolved) (*Document, *Metadata, error) {
	if len(r.Values) == 0 && strings.TrimSpace(strings.Join(r.Literals, "")) == "" {
		return nil, nil, &StructuralError{Message: "template is empty"}
	}

	p := &Parser{
		lines: Segment(r),
		meta:  &Metadata{Registry: &sentinel.Registry{}},
	}
	p.checkBoundaries(r)
	p.register()
	return p.parse(), p.meta, nil
}

func (p *Parser) checkBoundaries(r *template.Resolved) {
	first := strings.TrimLeft(r.Literals[0], " \t")
	if !strings.HasPrefix(first, "\n") && !strings.HasPrefix(first, "\r\n") {
		p.meta.Warnings = append(p.meta.Warnings, Warning{
			Message: "Request template should start on a new line",
			Fix:     FixInsertLeadingNewline,
			Line:    1,
			Column:  1,
		})
	}

	last := strings.TrimRight(r.Literals[len(r.Literals)-1], " \t")
	if strings.HasSuffix(last, "\n") {
		// The closing line of the template is layout, not body content.
		if n := len(p.lines); n > 0 && p.lines[n-1].Blank() {
			p.lines = p.lines[:n-1]
		}
		return
	}
	line, column := 1, 1
	if n := len(p.lines); n > 0 {
		l := p.lines[n-1]
		line = l.Number
		if k := len(l.Parts); k > 0 {
			column = l.Parts[k-1].Column + utf8.RuneCountInString(l.Parts[k-1].Text)
		}
	}
	p.meta.Warnings = append(p.meta.Warnings, Warning{
		Message: "Request template should end with a new line",
		Fix:     FixInsertTrailingNewline,
		Line:    line,
		Column:  column,
	})
}

// register assigns registry indexes to masked parts in reading order.
func (p *Parser) register() {
	for i := range p.lines {
		for j := range p.lines[i].Parts {
			part := &p.lines[i].Parts[j]
			if part.Kind == PartMasked {
				part.Index = p.meta.Registry.Register(part.Mask)
			}
		}
	}
}

func (p *Parser) parse() *Document {
	doc := &Document{}
	if len(p.lines) == 0 {
		doc.Request = &ErrorNode{Reason: "Missing request line", Line: 1, Column: 1}
		return doc
	}
	doc.Request = p.parseRequestLine(p.lines[0])

	rest := p.lines[1:]
	separator := len(rest)
	for i, line := range rest {
		if line.Blank() {
			separator = i
			break
		}
	}
	for _, line := range rest[:separator] {
		doc.Headers = append(doc.Headers, p.parseHeader(line))
	}
	if separator < len(rest) {
		doc.Body = p.parseBody(rest[separator+1:])
	}
	return doc
}

func (p *Parser) parseRequestLine(line Line) Node {
	tokens := tokenize(line.Parts)
	first := line.Parts[0]
	if len(tokens) < 3 {
		return &ErrorNode{
			Reason: "Request line must contain a method, a URL and a protocol",
			Line:   line.Number,
			Column: first.Column,
		}
	}

	method := tokens[0]
	if len(method) != 1 || !method[0].Literal() {
		return &ErrorNode{Reason: "Method must be literal text", Line: line.Number, Column: method[0].Column}
	}
	if !contains(Methods, method[0].Text) {
		node := &ErrorNode{
			Reason: fmt.Sprintf("Unknown method %q", method[0].Text),
			Line:   line.Number,
			Column: method[0].Column,
		}
		if upper := strings.ToUpper(method[0].Text); contains(Methods, upper) {
			node.Suggestions = []string{upper}
			node.Autofix = FixUppercaseMethod
		} else {
			node.Suggestions = append([]string(nil), Methods...)
		}
		return node
	}

	protocol := tokens[len(tokens)-1]
	if len(protocol) != 1 || !protocol[0].Literal() || !contains(Protocols, protocol[0].Text) {
		return &ErrorNode{
			Reason:      "Unsupported protocol, expected " + strings.Join(Protocols, " or "),
			Suggestions: append([]string(nil), Protocols...),
			Line:        line.Number,
			Column:      protocol[0].Column,
		}
	}

	var url []Part
	for i, tok := range tokens[1 : len(tokens)-1] {
		if i > 0 {
			url = append(url, Part{Kind: PartText, Text: " "})
		}
		url = append(url, tok...)
	}
	return &RequestNode{
		Method:   method[0].Text,
		URL:      p.compound(url),
		Protocol: protocol[0].Text,
		Line:     line.Number,
		Column:   method[0].Column,
	}
}

// tokenize splits parts on whitespace. Slot parts stay atomic and glue to
// adjacent non-whitespace text.
func tokenize(parts []Part) [][]Part {
	var tokens [][]Part
	var current []Part
	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, current)
			current = nil
		}
	}
	for _, part := range parts {
		if !part.Literal() {
			current = append(current, part)
			continue
		}
		column := part.Column
		var word strings.Builder
		start := column
		for _, r := range part.Text {
			if unicode.IsSpace(r) {
				if word.Len() > 0 {
					current = append(current, Part{Kind: PartText, Text: word.String(), Line: part.Line, Column: start})
					word.Reset()
				}
				flush()
			} else {
				if word.Len() == 0 {
					start = column
				}
				word.WriteRune(r)
			}
			column++
		}
		if word.Len() > 0 {
			current = append(current, Part{Kind: PartText, Text: word.String(), Line: part.Line, Column: start})
		}
	}
	flush()
	return tokens
}

func (p *Parser) parseHeader(line Line) Node {
	first := line.Parts[0]
	if !first.Literal() {
		return &ErrorNode{Reason: "Header name must be literal text", Line: line.Number, Column: first.Column}
	}
	colon := strings.IndexByte(first.Text, ':')
	if colon < 0 {
		return &ErrorNode{Reason: "Expected ':' after header name", Line: line.Number, Column: first.Column}
	}
	name := first.Text[:colon]
	if name == "" {
		return &ErrorNode{Reason: "Empty header name", Line: line.Number, Column: first.Column}
	}
	if !headerName.MatchString(name) {
		return &ErrorNode{Reason: "Illegal header name, invalid characters", Line: line.Number, Column: first.Column}
	}

	rest := Part{
		Kind:   PartText,
		Text:   first.Text[colon+1:],
		Line:   line.Number,
		Column: first.Column + utf8.RuneCountInString(first.Text[:colon+1]),
	}
	value := p.compound(append([]Part{rest}, line.Parts[1:]...))
	node := &HeaderNode{
		Name:   strings.ToLower(name),
		Value:  value,
		Line:   line.Number,
		Column: first.Column,
	}
	if node.Name == "content-type" {
		p.meta.ContentType = valueText(value, p.meta.Registry, true)
	}
	return node
}

// compound folds parts into a single value. Primitive parts merge into text
// and the outer whitespace is trimmed. Every masked part of a compound value
// is followed by a text node, empty when nothing follows it.
func (p *Parser) compound(parts []Part) Value {
	var values []Value
	var text strings.Builder
	pending := false
	flush := func() {
		if pending {
			values = append(values, &Text{Text: text.String()})
			text.Reset()
			pending = false
		}
	}
	for _, part := range parts {
		if part.Kind == PartMasked {
			flush()
			values = append(values, &Masked{Index: part.Index, Display: p.meta.Registry.Display(part.Index)})
			continue
		}
		text.WriteString(part.Text)
		pending = true
	}
	flush()

	if n := len(values); n > 0 {
		if t, ok := values[0].(*Text); ok {
			t.Text = strings.TrimLeftFunc(t.Text, unicode.IsSpace)
		}
		if t, ok := values[n-1].(*Text); ok {
			t.Text = strings.TrimRightFunc(t.Text, unicode.IsSpace)
		}
	}
	// Empty text only survives as the literal that follows a masked part.
	kept := make([]Value, 0, len(values)+1)
	for i, v := range values {
		if t, ok := v.(*Text); ok && t.Text == "" {
			if i == 0 {
				continue
			}
			if _, afterMask := values[i-1].(*Masked); !afterMask {
				continue
			}
		}
		kept = append(kept, v)
	}
	if n := len(kept); n > 1 {
		if _, ok := kept[n-1].(*Masked); ok {
			kept = append(kept, &Text{})
		}
	}

	switch {
	case len(kept) == 0:
		return &Text{}
	case len(kept) == 1:
		return kept[0]
	case len(kept) == 2 && isEmptyText(kept[1]):
		if _, ok := kept[0].(*Masked); ok {
			return kept[0]
		}
		return &Values{Parts: kept}
	default:
		return &Values{Parts: kept}
	}
}

func isEmptyText(v Value) bool {
	t, ok := v.(*Text)
	return ok && t.Text == ""
}

// parseBody flattens the body lines, replacing masked parts with sentinels.
func (p *Parser) parseBody(lines []Line) *body.Body {
	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, part := range line.Parts {
			if part.Kind == PartMasked {
				sb.WriteString(sentinel.Encode(part.Index))
				continue
			}
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return nil
	}
	return body.Build(sb.String(), p.meta.ContentType, p.meta.Registry)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
