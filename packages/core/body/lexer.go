package body

import (
	"errors"
	"strings"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/sentinel"
)

type lexState int

const (
	stateStructural lexState = iota
	stateString
	stateLineComment
	stateBlockComment
)

func (s lexState) String() string {
	switch s {
	case stateStructural:
		return "structural"
	case stateString:
		return "string"
	case stateLineComment:
		return "line-comment"
	case stateBlockComment:
		return "block-comment"
	default:
		return "unknown"
	}
}

type transition struct {
	trigger string
	next    lexState
	// consume appends the trigger to the current token. A line comment
	// leaves its newline to the structural state.
	consume bool
}

var transitions = map[lexState][]transition{
	stateStructural: {
		{trigger: `"`, next: stateString, consume: true},
		{trigger: "//", next: stateLineComment, consume: true},
		{trigger: "/*", next: stateBlockComment, consume: true},
	},
	stateString:       {{trigger: `"`, next: stateStructural, consume: true}},
	stateLineComment:  {{trigger: "\n", next: stateStructural}},
	stateBlockComment: {{trigger: "*/", next: stateStructural, consume: true}},
}

var (
	errUnterminatedString  = errors.New("unterminated string")
	errUnterminatedComment = errors.New("unterminated block comment")
)

type tokenKind int

const (
	tokPunct tokenKind = iota
	tokWhitespace
	tokComment
	tokString
	tokLiteral
	tokMasked
)

// token is a lexeme. String and comment tokens are fragments: a sentinel
// inside a string splits it, and opens/closes mark the fragments that hold
// the delimiters. state is only set on masked tokens.
type token struct {
	kind   tokenKind
	text   string
	index  int
	state  lexState
	opens  bool
	closes bool
}

type lexer struct {
	input  string
	pos    int
	state  lexState
	tokens []token

	run      strings.Builder
	runKind  tokenKind
	runOpens bool
	inRun    bool
}

func lex(input string) ([]token, error) {
	l := &lexer{input: input}
	for l.pos < len(l.input) {
		if l.masked() {
			continue
		}
		l.step()
	}
	switch l.state {
	case stateString:
		return nil, errUnterminatedString
	case stateBlockComment:
		return nil, errUnterminatedComment
	case stateLineComment:
		l.ensureRun(tokComment)
		l.flush(true)
	default:
		l.flush(false)
	}
	return l.tokens, nil
}

// masked emits a sentinel at the current position as one atomic token,
// whatever the state.
func (l *lexer) masked() bool {
	rest := l.input[l.pos:]
	if !strings.HasPrefix(rest, string(sentinel.Prefix)) {
		return false
	}
	start, end, index, ok := sentinel.Find(rest)
	if !ok || start != 0 {
		return false
	}
	l.flush(false)
	l.tokens = append(l.tokens, token{kind: tokMasked, text: rest[:end], index: index, state: l.state})
	l.pos += end
	return true
}

func (l *lexer) step() {
	for _, t := range transitions[l.state] {
		if !strings.HasPrefix(l.input[l.pos:], t.trigger) {
			continue
		}
		if l.state == stateString && !quoteCloses(l.input, l.pos) {
			continue
		}
		l.enter(t)
		return
	}
	l.consume()
}

func (l *lexer) enter(t transition) {
	if l.state == stateStructural {
		l.flush(false)
		l.begin(kindFor(t.next), true)
	} else {
		l.ensureRun(kindFor(l.state))
	}
	if t.consume {
		l.run.WriteString(t.trigger)
		l.pos += len(t.trigger)
	}
	if t.next == stateStructural {
		l.flush(true)
	}
	l.state = t.next
}

func (l *lexer) consume() {
	c := l.input[l.pos]
	l.pos++
	if l.state != stateStructural {
		l.ensureRun(kindFor(l.state))
		l.run.WriteByte(c)
		return
	}
	switch {
	case strings.IndexByte("{}[]:,", c) >= 0:
		l.flush(false)
		l.tokens = append(l.tokens, token{kind: tokPunct, text: string(c)})
	case c == ' ' || c == '\t' || c == '\n' || c == '\r':
		l.extend(tokWhitespace, c)
	default:
		l.extend(tokLiteral, c)
	}
}

func (l *lexer) extend(kind tokenKind, c byte) {
	if !l.inRun || l.runKind != kind {
		l.flush(false)
		l.begin(kind, false)
	}
	l.run.WriteByte(c)
}

func (l *lexer) begin(kind tokenKind, opens bool) {
	l.inRun = true
	l.runKind = kind
	l.runOpens = opens
	l.run.Reset()
}

func (l *lexer) ensureRun(kind tokenKind) {
	if !l.inRun {
		l.begin(kind, false)
	}
}

func (l *lexer) flush(closes bool) {
	if !l.inRun {
		return
	}
	if l.run.Len() > 0 || closes {
		l.tokens = append(l.tokens, token{
			kind:   l.runKind,
			text:   l.run.String(),
			opens:  l.runOpens,
			closes: closes,
		})
	}
	l.inRun = false
	l.runOpens = false
	l.run.Reset()
}

// quoteCloses reports whether the quote at input[i] terminates a string. An
// even number of backslashes directly before the quote escape each other,
// so the quote itself is not escaped.
func quoteCloses(input string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && input[j] == '\\'; j-- {
		n++
	}
	return n%2 == 0
}

func kindFor(s lexState) tokenKind {
	if s == stateString {
		return tokString
	}
	return tokComment
}
