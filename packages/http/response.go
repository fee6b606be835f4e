package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/body"
)

// Response is a fully read transport response. It is what a definition
// caches and what data accessors extract from.
type Response struct {
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       []byte
	Duration   time.Duration
}

func (r *Response) Text() string {
	return string(r.Body)
}

// Header looks a header up case-insensitively.
func (r *Response) Header(key string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// IsJSON routes on the content type the same way request bodies do.
func (r *Response) IsJSON() bool {
	return body.IsJSON(r.Header("Content-Type"))
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Reason is the status line without its code, "Not Found" for
// "404 Not Found".
func (r *Response) Reason() string {
	if code, text, ok := strings.Cut(r.Status, " "); ok {
		if _, err := strconv.Atoi(code); err == nil {
			return text
		}
	}
	return r.Status
}
