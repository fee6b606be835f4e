package parser

import "fmt"

const (
	FixInsertLeadingNewline  = "insert_leading_newline"
	FixInsertTrailingNewline = "insert_trailing_newline"
	FixUppercaseMethod       = "uppercase_method"
)

// StructuralError is the only fatal parse failure: a template without slots
// whose text is blank.
type StructuralError struct {
	Message string
}

func (e *StructuralError) Error() string {
	return "parser: " + e.Message
}

// ErrorNode takes the place of a request line or header that failed to
// parse. Suggestions lists replacement candidates; Autofix names a fix id.
type ErrorNode struct {
	Reason      string
	Suggestions []string
	Autofix     string
	Line        int
	Column      int
}

func (e *ErrorNode) String() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Reason)
}

// GrammarError exposes an error node as an error value.
type GrammarError struct {
	Node *ErrorNode
	// Count is the number of error nodes in the document.
	Count int
}

func (e *GrammarError) Error() string {
	if e.Count > 1 {
		return fmt.Sprintf("line %d, column %d: %s (and %d more)", e.Node.Line, e.Node.Column, e.Node.Reason, e.Count-1)
	}
	return fmt.Sprintf("line %d, column %d: %s", e.Node.Line, e.Node.Column, e.Node.Reason)
}

// Warning is a non-fatal finding. Fix names the autofix that resolves it.
type Warning struct {
	Message string
	Fix     string
	Line    int
	Column  int
}

func (w Warning) String() string {
	return fmt.Sprintf("%d:%d: %s", w.Line, w.Column, w.Message)
}
