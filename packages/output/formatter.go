package output

import (
	"fmt"
	"io"
	"time"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/runner"
)

// Formatter renders run and preview results. Formatters only ever see the
// display view of a request.
type Formatter interface {
	FormatResult(result *runner.RunResult)
	FormatPreview(file string, previews []*runner.Preview)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable is implemented by formatters that write once all results are in.
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// Formats lists the names accepted by New.
var Formats = []string{"console", "json", "junit", "tap"}

// New returns the formatter registered under name.
func New(name string, w io.Writer, verbose, noColor bool) (Formatter, error) {
	switch name {
	case "", "console":
		return NewConsoleFormatter(WithWriter(w), WithVerbose(verbose), WithNoColor(noColor)), nil
	case "json":
		return NewJSONFormatter(JSONWithWriter(w)), nil
	case "junit":
		return NewJUnitFormatter(JUnitWithWriter(w)), nil
	case "tap":
		return NewTAPFormatter(TAPWithWriter(w)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", name)
	}
}
