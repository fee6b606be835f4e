package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/runner"
)

// TAPFormatter formats test results in TAP (Test Anything Protocol) format
type TAPFormatter struct {
	writer    io.Writer
	testCount int
	results   []tapResult
}

type tapResult struct {
	number     int
	name       string
	passed     bool
	skipped    bool
	skipReason string
	error      string
	status     string
	findings   []string
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer:  os.Stdout,
		results: make([]tapResult, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatResult(result *runner.RunResult) {
	for _, r := range result.Results {
		f.testCount++
		tr := tapResult{
			number:     f.testCount,
			name:       r.Name,
			passed:     r.Passed,
			skipped:    r.Skipped,
			skipReason: r.SkipReason,
		}

		if r.Error != nil {
			tr.error = r.Error.Error()
		}

		if !r.Passed && r.Response != nil {
			tr.status = statusLine(r.Response)
		}

		f.results = append(f.results, tr)
	}
}

// FormatPreview reports one test point per request. Grammar errors fail the
// point, warnings are listed without failing it.
func (f *TAPFormatter) FormatPreview(file string, previews []*runner.Preview) {
	for _, p := range previews {
		f.testCount++
		tr := tapResult{number: f.testCount, name: p.Name, passed: true}
		if p.Err != nil {
			tr.passed = false
			tr.error = p.Err.Error()
		}
		for _, e := range grammarErrors(p.Line, p.Document) {
			tr.passed = false
			tr.findings = append(tr.findings, fmt.Sprintf("%s:%d:%d: %s", file, e.Line, e.Column, e.Message))
		}
		for _, w := range warnings(p.Line, p.Metadata) {
			tr.findings = append(tr.findings, fmt.Sprintf("%s:%d:%d: warning: %s", file, w.Line, w.Column, w.Message))
		}
		f.results = append(f.results, tr)
	}
}

func (f *TAPFormatter) FormatError(err error) {
	// Errors are included in individual test results
}

func (f *TAPFormatter) FormatHeader(version string) {
	// Header is written in Flush
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush(totalDuration time.Duration) error {
	// TAP version header
	fmt.Fprintf(f.writer, "TAP version 13\n")

	// Test plan
	fmt.Fprintf(f.writer, "1..%d\n", f.testCount)

	// Individual test results
	for _, r := range f.results {
		if r.skipped {
			reason := r.skipReason
			if reason == "" || reason == "filtered out" {
				reason = "SKIP"
			}
			fmt.Fprintf(f.writer, "ok %d - %s # SKIP %s\n", r.number, r.name, reason)
			continue
		}

		if r.error != "" {
			fmt.Fprintf(f.writer, "not ok %d - %s\n", r.number, r.name)
			fmt.Fprintf(f.writer, "  ---\n")
			fmt.Fprintf(f.writer, "  message: %s\n", escapeYAML(r.error))
			fmt.Fprintf(f.writer, "  severity: error\n")
			fmt.Fprintf(f.writer, "  ...\n")
			continue
		}

		if r.passed {
			fmt.Fprintf(f.writer, "ok %d - %s\n", r.number, r.name)
		} else {
			fmt.Fprintf(f.writer, "not ok %d - %s\n", r.number, r.name)
		}
		if r.status != "" || len(r.findings) > 0 {
			fmt.Fprintf(f.writer, "  ---\n")
			if r.status != "" {
				fmt.Fprintf(f.writer, "  status: %s\n", escapeYAML(r.status))
			}
			if len(r.findings) > 0 {
				fmt.Fprintf(f.writer, "  findings:\n")
				for _, finding := range r.findings {
					fmt.Fprintf(f.writer, "    - %s\n", escapeYAML(finding))
				}
			}
			fmt.Fprintf(f.writer, "  ...\n")
		}
	}

	// Add final newline for proper TAP output
	fmt.Fprintln(f.writer)

	return nil
}

func escapeYAML(s string) string {
	// Simple YAML escaping - wrap in quotes if contains special chars
	if strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, "\"", "\\\"")
		return "\"" + s + "\""
	}
	return s
}
