package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/template"
	"github.com/Marvin-Brouwer/slng-sub000/packages/masking"
)

type PartKind int

const (
	// PartText is literal template text.
	PartText PartKind = iota
	// PartSlot is a primitive slot value.
	PartSlot
	// PartMasked is a masked slot value.
	PartMasked
)

func (k PartKind) String() string {
	switch k {
	case PartText:
		return "text"
	case PartSlot:
		return "slot"
	case PartMasked:
		return "masked"
	default:
		return "unknown"
	}
}

// Part is a piece of a logical line. Slot parts are atomic: the grammar
// never splits them.
type Part struct {
	Kind PartKind
	// Text is the literal text, the stringified primitive, or the display
	// text of a masked value.
	Text string
	Mask *masking.Value
	// Index is the registry index of a masked part, assigned by Parse.
	Index  int
	Line   int
	Column int
	// Continuation marks literal text that directly follows a slot on the
	// same line. It is never stripped of indentation.
	Continuation bool
}

func (p Part) Literal() bool {
	return p.Kind == PartText
}

// Line is a logical template line. Number is the 1-based line in the
// template source.
type Line struct {
	Number int
	Parts  []Part
}

// Blank reports a separator line: no parts, or a single empty text part.
func (l Line) Blank() bool {
	switch len(l.Parts) {
	case 0:
		return true
	case 1:
		return l.Parts[0].Kind == PartText && l.Parts[0].Text == ""
	default:
		return false
	}
}

type segmenter struct {
	lines   []Line
	current Line
	column  int

	baseline    string
	established bool
	pending     string
}

// Segment splits a settled template into logical lines. The indentation of
// the first non-blank line becomes the baseline stripped from every later
// line start. Leading blank lines are dropped and empty slot values produce
// no part.
func Segment(r *template.Resolved) []Line {
	s := &segmenter{current: Line{Number: 1}, column: 1}
	for i, literal := range r.Literals {
		pieces := strings.Split(strings.ReplaceAll(literal, "\r\n", "\n"), "\n")
		for j, piece := range pieces {
			if j > 0 {
				s.newline()
			}
			if j == 0 && i > 0 {
				s.continuation(piece)
			} else {
				s.lineStart(piece)
			}
		}
		if i < len(r.Values) {
			s.slot(r.Values[i])
		}
	}
	s.finish()
	return s.lines
}

func (s *segmenter) lineStart(piece string) {
	if !s.established {
		if strings.TrimSpace(piece) == "" {
			s.pending = piece
			s.column += utf8.RuneCountInString(piece)
			return
		}
		s.establish(leadingWhitespace(piece))
	}
	indent := commonPrefix(piece, s.baseline)
	s.column += utf8.RuneCountInString(indent)
	s.text(piece[len(indent):], false)
}

func (s *segmenter) continuation(piece string) {
	if !s.established && strings.TrimSpace(piece) != "" {
		s.establish(s.pending)
	}
	s.text(piece, true)
}

func (s *segmenter) slot(v template.Settled) {
	if v.Empty() {
		return
	}
	if !s.established {
		s.establish(s.pending)
	}
	part := Part{Kind: PartSlot, Text: v.Text(), Line: s.current.Number, Column: s.column}
	if v.Masked() {
		part.Kind = PartMasked
		part.Mask = v.Mask
	}
	s.current.Parts = append(s.current.Parts, part)
	s.column += utf8.RuneCountInString(part.Text)
}

func (s *segmenter) text(text string, continuation bool) {
	if text == "" {
		return
	}
	s.current.Parts = append(s.current.Parts, Part{
		Kind:         PartText,
		Text:         text,
		Line:         s.current.Number,
		Column:       s.column,
		Continuation: continuation,
	})
	s.column += utf8.RuneCountInString(text)
}

func (s *segmenter) establish(baseline string) {
	s.baseline = baseline
	s.established = true
	s.pending = ""
}

func (s *segmenter) newline() {
	s.finish()
	s.current = Line{Number: s.current.Number + 1}
	s.column = 1
	s.pending = ""
}

func (s *segmenter) finish() {
	if !s.established {
		return
	}
	s.lines = append(s.lines, s.current)
}

func leadingWhitespace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

func commonPrefix(s, prefix string) string {
	n := 0
	for n < len(s) && n < len(prefix) && s[n] == prefix[n] {
		n++
	}
	return s[:n]
}
