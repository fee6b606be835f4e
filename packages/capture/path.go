package capture

import (
	"strconv"
	"strings"
)

// Segment is one step of a path: an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Key
}

// Path is a parsed accessor path. The empty path selects the whole body.
type Path struct {
	Raw      string
	Segments []Segment
}

func (p Path) String() string {
	return p.Raw
}

const forbidden = "*?#@|\\(){}=!<>,:\"'"

// ParsePath validates and splits raw.
func ParsePath(raw string) (Path, error) {
	p := Path{Raw: raw}
	if raw == "" {
		return p, nil
	}
	fail := func(segment, reason string) (Path, error) {
		return Path{}, &InvalidJSONPathError{Path: raw, Segment: segment, Reason: reason}
	}

	for i, part := range strings.Split(raw, ".") {
		key := part
		brackets := ""
		if open := strings.IndexByte(part, '['); open >= 0 {
			key, brackets = part[:open], part[open:]
		}
		if key == "" && (brackets == "" || i > 0) {
			return fail(part, "empty segment")
		}
		if strings.ContainsAny(key, forbidden+"]") {
			return fail(part, "unsupported character in key")
		}
		if key != "" {
			p.Segments = append(p.Segments, Segment{Key: key})
		}

		for brackets != "" {
			end := strings.IndexByte(brackets, ']')
			if brackets[0] != '[' || end < 0 {
				return fail(part, "unbalanced brackets")
			}
			digits := brackets[1:end]
			n, err := strconv.Atoi(digits)
			if err != nil || n < 0 || digits == "" || strings.HasPrefix(digits, "+") {
				return fail(part, "index must be a non-negative integer")
			}
			p.Segments = append(p.Segments, Segment{Index: n, IsIndex: true})
			brackets = brackets[end+1:]
		}
	}
	return p, nil
}
