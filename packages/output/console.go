package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/runner"
	"github.com/Marvin-Brouwer/slng-sub000/packages/http"
)

// maxBodyPreview bounds response bodies printed in verbose mode.
const maxBodyPreview = 500

func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(result *runner.RunResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n\n", bold("Running: "+result.File))

	for _, r := range result.Results {
		if r.Skipped {
			fmt.Fprintf(f.writer, "  %s %s", yellow("-"), r.Name)
			if r.SkipReason != "" && r.SkipReason != "filtered out" {
				fmt.Fprintf(f.writer, " (%s)", r.SkipReason)
			}
			fmt.Fprintf(f.writer, "\n")
			continue
		}

		if r.Error != nil {
			fmt.Fprintf(f.writer, "  %s %s %s\n", red("x"), r.Name, red(fmt.Sprintf("(%v)", r.Error)))
			continue
		}

		symbol := green("✓")
		if !r.Passed {
			symbol = red("✗")
		}
		fmt.Fprintf(f.writer, "  %s %s %s\n", symbol, r.Name, cyan(fmt.Sprintf("(%dms)", r.Duration.Milliseconds())))

		if r.Response != nil && (f.verbose || !r.Passed) {
			fmt.Fprintf(f.writer, "    Status: %s\n", statusLine(r.Response))
		}
		if f.verbose {
			f.writeRequest("    ", requestView(r.Document, r.Metadata))
			if r.Response != nil && len(r.Response.Body) > 0 {
				fmt.Fprintf(f.writer, "    Response:\n")
				f.writeIndented("      ", truncate(r.Response.Text(), maxBodyPreview))
			}
		}
	}

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Requests: ")
	if result.Passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", result.Passed)))
	}
	if result.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", result.Failed)))
	}
	if result.Skipped > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d skipped", result.Skipped)))
	}
	total := result.Passed + result.Failed + result.Skipped
	fmt.Fprintf(f.writer, "%d total\n", total)
	fmt.Fprintf(f.writer, "Time:     %dms\n", result.Duration.Milliseconds())
	fmt.Fprintf(f.writer, "\n")
}

// FormatPreview prints the display view of every request together with
// its warnings and grammar errors.
func (f *ConsoleFormatter) FormatPreview(file string, previews []*runner.Preview) {
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold(file))
	for _, p := range previews {
		fmt.Fprintf(f.writer, "\n### %s\n", p.Name)
		if p.Err != nil {
			fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), p.Err)
			continue
		}
		f.writeRequest("", requestView(p.Document, p.Metadata))

		for _, w := range warnings(p.Line, p.Metadata) {
			fmt.Fprintf(f.writer, "%s %s:%d:%d: %s [%s]\n", yellow("warning"), file, w.Line, w.Column, w.Message, w.Fix)
		}
		for _, e := range grammarErrors(p.Line, p.Document) {
			fmt.Fprintf(f.writer, "%s %s:%d:%d: %s", red("error"), file, e.Line, e.Column, e.Message)
			if len(e.Suggestions) > 0 {
				fmt.Fprintf(f.writer, " (expected %s)", strings.Join(e.Suggestions, ", "))
			}
			fmt.Fprintf(f.writer, "\n")
		}
	}
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) writeRequest(indent string, view *RequestView) {
	if view == nil {
		return
	}
	cyan := color.New(color.FgCyan).SprintFunc()
	if view.Method != "" {
		fmt.Fprintf(f.writer, "%s%s %s\n", indent, cyan(view.Method), view.URL)
	}
	for _, h := range view.Headers {
		fmt.Fprintf(f.writer, "%s%s: %s\n", indent, h.Name, h.Value)
	}
	if view.Body != "" {
		fmt.Fprintf(f.writer, "\n")
		f.writeIndented(indent, view.Body)
	}
}

func (f *ConsoleFormatter) writeIndented(indent, text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(f.writer, "%s%s\n", indent, line)
	}
}

func statusLine(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d", resp.StatusCode)
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("slng"), version)
}
