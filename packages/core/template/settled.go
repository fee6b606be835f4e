package template

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Marvin-Brouwer/slng-sub000/packages/masking"
)

// Settled is a slot after resolution: a primitive or a masked value.
type Settled struct {
	Primitive any
	Mask      *masking.Value
}

func (s Settled) Masked() bool {
	return s.Mask != nil
}

// Empty reports a nil or empty-string primitive. Empty values produce no
// text at all when a template is segmented.
func (s Settled) Empty() bool {
	if s.Mask != nil {
		return false
	}
	return Stringify(s.Primitive) == ""
}

// Text returns the display text of the value.
func (s Settled) Text() string {
	if s.Mask != nil {
		return s.Mask.Display()
	}
	return Stringify(s.Primitive)
}

// Stringify renders a primitive the way it is interpolated into text.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case json.Number:
		return val.String()
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	case map[string]any, []any:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	default:
		return fmt.Sprint(val)
	}
}

// Resolved is a template whose slots have all settled.
type Resolved struct {
	Literals []string
	Values   []Settled
}

// Plain returns a resolved template without slots.
func Plain(text string) *Resolved {
	return &Resolved{Literals: []string{text}}
}
