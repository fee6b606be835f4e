package output

import (
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/parser"
)

// RequestView is the display view of a request.
type RequestView struct {
	Method  string               `json:"method,omitempty"`
	URL     string               `json:"url,omitempty"`
	Headers []parser.HeaderField `json:"headers,omitempty"`
	Body    string               `json:"body,omitempty"`
}

// Finding is a warning or grammar error placed at a file position.
type Finding struct {
	Line        int      `json:"line"`
	Column      int      `json:"column"`
	Message     string   `json:"message"`
	Fix         string   `json:"fix,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func requestView(doc *parser.Document, meta *parser.Metadata) *RequestView {
	if doc == nil || meta == nil {
		return nil
	}
	return &RequestView{
		Method:  doc.Method(),
		URL:     doc.URL(meta, parser.DisplayView),
		Headers: doc.HeaderValues(meta, parser.DisplayView),
		Body:    doc.BodyText(meta, parser.DisplayView),
	}
}

// fileLine maps a template line to the file. Template line 1 is the
// separator line of the block.
func fileLine(blockLine, line int) int {
	return blockLine + line - 1
}

func warnings(blockLine int, meta *parser.Metadata) []Finding {
	if meta == nil {
		return nil
	}
	var findings []Finding
	for _, w := range meta.Warnings {
		findings = append(findings, Finding{
			Line:    fileLine(blockLine, w.Line),
			Column:  w.Column,
			Message: w.Message,
			Fix:     w.Fix,
		})
	}
	return findings
}

func grammarErrors(blockLine int, doc *parser.Document) []Finding {
	if doc == nil {
		return nil
	}
	var findings []Finding
	for _, e := range doc.Errors() {
		findings = append(findings, Finding{
			Line:        fileLine(blockLine, e.Line),
			Column:      e.Column,
			Message:     e.Reason,
			Fix:         e.Autofix,
			Suggestions: e.Suggestions,
		})
	}
	return findings
}
