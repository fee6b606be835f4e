package http

import (
	"strings"
	"time"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/parser"
)

// Header is a request header. Requests keep headers in order and allow
// repeats.
type Header struct {
	Name  string
	Value string
}

// Request is an execution-view request. It holds real values and must never
// be logged.
type Request struct {
	Method  string
	URL     string
	Headers []Header
	Body    string
	Timeout time.Duration
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method: method,
		URL:    requestURL,
	}
}

func (r *Request) AddHeader(name, value string) *Request {
	r.Headers = append(r.Headers, Header{Name: name, Value: value})
	return r
}

func (r *Request) SetBody(body string) *Request {
	r.Body = body
	return r
}

func (r *Request) SetTimeout(d time.Duration) *Request {
	r.Timeout = d
	return r
}

// Header returns the first value of the named header.
func (r *Request) Header(name string) string {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// SendsBody reports whether the body goes on the wire. GET and HEAD never
// carry one.
func (r *Request) SendsBody() bool {
	switch strings.ToUpper(r.Method) {
	case "GET", "HEAD":
		return false
	default:
		return r.Body != ""
	}
}

// BuildRequest renders a parsed document in the execution view. Documents
// with error nodes are rejected.
func BuildRequest(doc *parser.Document, meta *parser.Metadata) (*Request, error) {
	if err := doc.Err(); err != nil {
		return nil, err
	}
	req := NewRequest(doc.Method(), doc.URL(meta, parser.ExecutionView))
	for _, h := range doc.HeaderValues(meta, parser.ExecutionView) {
		req.AddHeader(h.Name, h.Value)
	}
	if doc.Body != nil {
		req.SetBody(doc.BodyText(meta, parser.ExecutionView))
	}
	return req, nil
}
