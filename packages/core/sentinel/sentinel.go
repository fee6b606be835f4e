// Package sentinel encodes masked values as placeholder tokens so a template
// can be flattened into one string and parsed as HTTP or JSON text without
// the display text of a masked value corrupting the grammar.
//
// A sentinel is the registry index wrapped in two Unicode noncharacters.
// Noncharacters never appear in legitimate input, but any layer that
// normalizes Unicode between encoding and decoding would destroy them.
package sentinel

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Marvin-Brouwer/slng-sub000/packages/masking"
)

const (
	Prefix = '\uFDD0'
	Suffix = '\uFDD1'
)

var (
	prefixLen = utf8.RuneLen(Prefix)
	suffixLen = utf8.RuneLen(Suffix)
)

// Encode returns the sentinel for a registry index.
func Encode(index int) string {
	return string(Prefix) + strconv.Itoa(index) + string(Suffix)
}

// Decode reports the index when s is exactly one sentinel.
func Decode(s string) (int, bool) {
	start, end, index, ok := Find(s)
	if !ok || start != 0 || end != len(s) {
		return 0, false
	}
	return index, true
}

// Contains reports whether s holds at least one sentinel.
func Contains(s string) bool {
	_, _, _, ok := Find(s)
	return ok
}

// Find locates the first well formed sentinel in s and returns its byte
// range and index.
func Find(s string) (start, end, index int, ok bool) {
	offset := 0
	for offset < len(s) {
		i := strings.IndexRune(s[offset:], Prefix)
		if i < 0 {
			return 0, 0, 0, false
		}
		start = offset + i
		digits := start + prefixLen
		j := digits
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j > digits && strings.HasPrefix(s[j:], string(Suffix)) {
			n, err := strconv.Atoi(s[digits:j])
			if err == nil {
				return start, j + suffixLen, n, true
			}
		}
		offset = digits
	}
	return 0, 0, 0, false
}

// Segment is a piece of text produced by Split: either plain text or a
// sentinel index.
type Segment struct {
	Text   string
	Index  int
	Masked bool
}

// Split cuts s into alternating text and sentinel segments. Empty text
// segments are omitted.
func Split(s string) []Segment {
	var segments []Segment
	for {
		start, end, index, ok := Find(s)
		if !ok {
			if s != "" {
				segments = append(segments, Segment{Text: s})
			}
			return segments
		}
		if start > 0 {
			segments = append(segments, Segment{Text: s[:start]})
		}
		segments = append(segments, Segment{Index: index, Masked: true})
		s = s[end:]
	}
}

// Registry is the ordered list of masked values discovered during one parse.
// The position of a value is its sentinel index.
type Registry struct {
	values []*masking.Value
}

// Register appends v and returns its index.
func (r *Registry) Register(v *masking.Value) int {
	r.values = append(r.values, v)
	return len(r.values) - 1
}

// At returns the value registered under index.
func (r *Registry) At(index int) (*masking.Value, bool) {
	if r == nil || index < 0 || index >= len(r.values) {
		return nil, false
	}
	return r.values[index], true
}

// Display returns the display text registered under index, or the secret
// bullets for an unknown index.
func (r *Registry) Display(index int) string {
	if v, ok := r.At(index); ok {
		return v.Display()
	}
	return masking.SecretDisplay
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.values)
}

// Values returns a copy of the registered values in discovery order.
func (r *Registry) Values() []*masking.Value {
	if r == nil {
		return nil
	}
	return append([]*masking.Value(nil), r.values...)
}

// Substitute replaces every sentinel in s with the display text, or with the
// real value when reveal is set.
func (r *Registry) Substitute(s string, reveal bool) string {
	if !Contains(s) {
		return s
	}
	var b strings.Builder
	for _, seg := range Split(s) {
		if !seg.Masked {
			b.WriteString(seg.Text)
			continue
		}
		b.WriteString(r.Text(seg.Index, reveal))
	}
	return b.String()
}

// Text renders a single index for the requested view.
func (r *Registry) Text(index int, reveal bool) string {
	if !reveal {
		return r.Display(index)
	}
	if v, ok := r.At(index); ok {
		return v.Unmask()
	}
	return ""
}
