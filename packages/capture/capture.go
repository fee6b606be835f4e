package capture

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Marvin-Brouwer/slng-sub000/packages/http"
)

// CheckStatus returns an *HTTPError unless the status is allowed. An empty
// allow-list accepts any 2xx status.
func CheckStatus(resp *http.Response, allowed []int) error {
	if len(allowed) == 0 {
		if resp.IsSuccess() {
			return nil
		}
	} else {
		for _, code := range allowed {
			if resp.StatusCode == code {
				return nil
			}
		}
	}
	return &HTTPError{Status: resp.StatusCode, StatusText: resp.Reason()}
}

type Extractor struct {
	response *http.Response
	bodyJSON gjson.Result
	isJSON   bool
}

func NewExtractor(resp *http.Response) *Extractor {
	e := &Extractor{
		response: resp,
	}
	if gjson.ValidBytes(resp.Body) {
		e.bodyJSON = gjson.ParseBytes(resp.Body)
		e.isJSON = true
	}
	return e
}

// Extract walks path through the JSON body. The empty path returns the
// whole body, as text when it is not JSON.
func (e *Extractor) Extract(path Path) (any, error) {
	if len(path.Segments) == 0 {
		if !e.isJSON {
			return e.response.Text(), nil
		}
		return e.bodyJSON.Value(), nil
	}
	if !e.isJSON {
		return nil, &InvalidJSONPathError{Path: path.Raw, Reason: "response body is not JSON"}
	}

	current := e.bodyJSON
	for _, seg := range path.Segments {
		next, reason := step(current, seg)
		if reason != "" {
			return nil, &InvalidJSONPathError{Path: path.Raw, Segment: seg.String(), Reason: reason}
		}
		current = next
	}
	return current.Value(), nil
}

func step(current gjson.Result, seg Segment) (gjson.Result, string) {
	if seg.IsIndex {
		if !current.IsArray() {
			return gjson.Result{}, "not an array"
		}
		items := current.Array()
		if seg.Index >= len(items) {
			return gjson.Result{}, "index out of range"
		}
		return items[seg.Index], ""
	}
	if !current.IsObject() {
		return gjson.Result{}, "not an object"
	}
	next := current.Get(escape(seg.Key))
	if !next.Exists() {
		return gjson.Result{}, "key not found"
	}
	return next, ""
}

// escape quotes gjson path syntax so keys match literally.
func escape(key string) string {
	var sb strings.Builder
	for _, r := range key {
		if strings.ContainsRune(`.*?|#@\!=<>%`, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
