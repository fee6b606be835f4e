package capture

import (
	"fmt"
	"net/http"
)

// HTTPError reports a request that failed in transport or answered with a
// status outside the allow-list. Cause is set for transport failures,
// including cancellation.
type HTTPError struct {
	Status     int
	StatusText string
	Cause      error
}

func (e *HTTPError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("request failed: %v", e.Cause)
	}
	text := e.StatusText
	if text == "" {
		text = http.StatusText(e.Status)
	}
	return fmt.Sprintf("unexpected status %d %s", e.Status, text)
}

func (e *HTTPError) Unwrap() error {
	return e.Cause
}

// InvalidJSONPathError reports a malformed path or a path that does not
// match the response body. Segment is the step that failed.
type InvalidJSONPathError struct {
	Path    string
	Segment string
	Reason  string
}

func (e *InvalidJSONPathError) Error() string {
	if e.Segment == "" {
		return fmt.Sprintf("invalid json path %q: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("invalid json path %q at %q: %s", e.Path, e.Segment, e.Reason)
}
