package env

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/Marvin-Brouwer/slng-sub000/packages/builtin"
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/template"
	"github.com/Marvin-Brouwer/slng-sub000/packages/masking"
)

var placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// RefFunc returns the deferred value of path in the response of another
// request.
type RefFunc func(request, path string) (template.Deferred, error)

// Scope is what placeholders can see.
type Scope struct {
	Params *Params
	Funcs  *builtin.Registry
	Refs   RefFunc
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// UnresolvedError lists every placeholder that did not resolve.
type UnresolvedError struct {
	Names []string
}

func (e *UnresolvedError) Error() string {
	return "unresolved placeholders: " + strings.Join(e.Names, ", ")
}

// Compile turns text with {{...}} placeholders into a template. Parameters
// and environment variables become value slots, references to other
// requests become deferred slots. Function calls are evaluated here.
func Compile(text string, scope Scope) (*template.Template, error) {
	if scope.LookupEnv == nil {
		scope.LookupEnv = os.LookupEnv
	}
	b := template.NewBuilder()
	var unresolved []string

	last := 0
	for _, loc := range placeholderPattern.FindAllStringSubmatchIndex(text, -1) {
		b.Text(text[last:loc[0]])
		last = loc[1]

		expr := strings.TrimSpace(text[loc[2]:loc[3]])
		slot, ok, err := scope.resolve(expr)
		if err != nil {
			return nil, fmt.Errorf("{{%s}}: %w", expr, err)
		}
		if !ok {
			unresolved = append(unresolved, expr)
			b.Text(text[loc[0]:loc[1]])
			continue
		}
		b.Slot(slot)
	}
	b.Text(text[last:])

	if len(unresolved) > 0 {
		return nil, &UnresolvedError{Names: unresolved}
	}
	return b.Build(), nil
}

func (s Scope) resolve(expr string) (template.Slot, bool, error) {
	mask, rest, err := modifier(expr)
	if err != nil {
		return template.Slot{}, false, err
	}

	switch {
	case strings.HasPrefix(rest, "@"):
		return s.ref(rest[1:], mask)
	case strings.HasPrefix(rest, "$"):
		v, ok := s.LookupEnv(rest[1:])
		if !ok {
			return template.Slot{}, false, nil
		}
		return plain(v, mask), true, nil
	case builtin.IsCall(rest):
		if s.Funcs == nil {
			return template.Slot{}, false, nil
		}
		v, err := s.Funcs.Call(rest)
		if err != nil {
			return template.Slot{}, false, err
		}
		if mask != nil {
			return template.Masked(mask(template.Stringify(v))), true, nil
		}
		return template.Value(v), true, nil
	default:
		p, ok := s.Params.Get(rest)
		if !ok {
			return template.Slot{}, false, nil
		}
		if mask == nil {
			return p.Slot(), true, nil
		}
		return plain(p.Value, mask), true, nil
	}
}

func (s Scope) ref(expr string, mask template.MaskFunc) (template.Slot, bool, error) {
	if s.Refs == nil {
		return template.Slot{}, false, nil
	}
	request, path, _ := strings.Cut(expr, ".")
	if request == "" {
		return template.Slot{}, false, fmt.Errorf("reference needs a request name")
	}
	d, err := s.Refs(request, path)
	if err != nil {
		return template.Slot{}, false, err
	}
	if d == nil {
		return template.Slot{}, false, nil
	}
	if mask != nil {
		return template.MaskedDefer(d, mask), true, nil
	}
	return template.Defer(d), true, nil
}

func plain(v string, mask template.MaskFunc) template.Slot {
	if mask != nil {
		return template.Masked(mask(v))
	}
	return template.Value(v)
}

// modifier splits a leading "secret" or "sensitive[:N]" off expr.
func modifier(expr string) (template.MaskFunc, string, error) {
	word, rest, found := strings.Cut(expr, " ")
	if !found {
		return nil, expr, nil
	}
	rest = strings.TrimSpace(rest)
	switch {
	case word == "secret":
		return masking.Secret, rest, nil
	case word == "sensitive":
		return func(v string) *masking.Value { return masking.Sensitive(v) }, rest, nil
	case strings.HasPrefix(word, "sensitive:"):
		n, err := strconv.Atoi(strings.TrimPrefix(word, "sensitive:"))
		if err != nil || n < 0 {
			return nil, "", fmt.Errorf("invalid visible character count in %q", word)
		}
		return func(v string) *masking.Value { return masking.Sensitive(v, n) }, rest, nil
	default:
		return nil, expr, nil
	}
}
