package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/runner"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary  *JSONSummary  `json:"summary,omitempty"`
	Requests []JSONRequest `json:"requests,omitempty"`
	Previews []JSONPreview `json:"previews,omitempty"`
	Errors   []string      `json:"errors,omitempty"`
	Duration float64       `json:"duration"`
	Time     string        `json:"time"`
}

type JSONSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// JSONRequest is the result of one executed request.
type JSONRequest struct {
	Name       string        `json:"name"`
	File       string        `json:"file"`
	Line       int           `json:"line"`
	Passed     bool          `json:"passed"`
	Skipped    bool          `json:"skipped,omitempty"`
	SkipReason string        `json:"skipReason,omitempty"`
	Duration   float64       `json:"duration"`
	Error      string        `json:"error,omitempty"`
	Request    *RequestView  `json:"request,omitempty"`
	Response   *JSONResponse `json:"response,omitempty"`
}

type JSONResponse struct {
	StatusCode int               `json:"statusCode"`
	Status     string            `json:"status"`
	Headers    map[string]string `json:"headers,omitempty"`
	Duration   float64           `json:"duration"`
}

// JSONPreview is the display view of one request of a previewed file.
type JSONPreview struct {
	Name     string       `json:"name"`
	File     string       `json:"file"`
	Line     int          `json:"line"`
	Error    string       `json:"error,omitempty"`
	Request  *RequestView `json:"request,omitempty"`
	Warnings []Finding    `json:"warnings,omitempty"`
	Errors   []Finding    `json:"errors,omitempty"`
}

// JSONFormatter accumulates results and writes one JSON document on Flush.
type JSONFormatter struct {
	writer   io.Writer
	results  []JSONRequest
	previews []JSONPreview
	errors   []string
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(result *runner.RunResult) {
	for _, r := range result.Results {
		req := JSONRequest{
			Name:     r.Name,
			File:     result.File,
			Line:     r.Line,
			Passed:   r.Passed,
			Skipped:  r.Skipped,
			Duration: float64(r.Duration.Milliseconds()),
			Request:  requestView(r.Document, r.Metadata),
		}
		if r.SkipReason != "" && r.SkipReason != "filtered out" {
			req.SkipReason = r.SkipReason
		}
		if r.Error != nil {
			req.Error = r.Error.Error()
		}
		if r.Response != nil {
			req.Response = &JSONResponse{
				StatusCode: r.Response.StatusCode,
				Status:     r.Response.Status,
				Headers:    r.Response.Headers,
				Duration:   float64(r.Response.Duration.Milliseconds()),
			}
		}
		f.results = append(f.results, req)
	}
}

func (f *JSONFormatter) FormatPreview(file string, previews []*runner.Preview) {
	for _, p := range previews {
		jp := JSONPreview{
			Name:     p.Name,
			File:     file,
			Line:     p.Line,
			Request:  requestView(p.Document, p.Metadata),
			Warnings: warnings(p.Line, p.Metadata),
			Errors:   grammarErrors(p.Line, p.Document),
		}
		if p.Err != nil {
			jp.Error = p.Err.Error()
		}
		f.previews = append(f.previews, jp)
	}
}

func (f *JSONFormatter) FormatError(err error) {
	f.errors = append(f.errors, err.Error())
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	output := JSONOutput{
		Requests: f.results,
		Previews: f.previews,
		Errors:   f.errors,
		Duration: float64(totalDuration.Milliseconds()),
		Time:     time.Now().Format(time.RFC3339),
	}

	if len(f.results) > 0 {
		summary := &JSONSummary{Total: len(f.results)}
		for _, r := range f.results {
			switch {
			case r.Skipped:
				summary.Skipped++
			case r.Passed:
				summary.Passed++
			default:
				summary.Failed++
			}
		}
		output.Summary = summary
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(output)
}
