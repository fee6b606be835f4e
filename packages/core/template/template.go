package template

import (
	"fmt"
	"strings"
)

type Template struct {
	literals []string
	slots    []Slot
}

// New builds a template from literal fragments and the slots between them.
func New(literals []string, slots ...Slot) (*Template, error) {
	if len(literals) != len(slots)+1 {
		return nil, fmt.Errorf("template: %d literals cannot surround %d slots", len(literals), len(slots))
	}
	return &Template{
		literals: append([]string(nil), literals...),
		slots:    append([]Slot(nil), slots...),
	}, nil
}

// Must is like New but panics on a literal/slot count mismatch.
func Must(literals []string, slots ...Slot) *Template {
	t, err := New(literals, slots...)
	if err != nil {
		panic(err)
	}
	return t
}

// Text returns a template without slots.
func Text(s string) *Template {
	return &Template{literals: []string{s}}
}

func (t *Template) Literals() []string {
	return append([]string(nil), t.literals...)
}

func (t *Template) Slots() []Slot {
	return append([]Slot(nil), t.slots...)
}

func (t *Template) NumSlots() int {
	return len(t.slots)
}

// Builder assembles a Template piece by piece.
type Builder struct {
	literals []string
	slots    []Slot
	current  strings.Builder
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Text(s string) *Builder {
	b.current.WriteString(s)
	return b
}

func (b *Builder) Slot(s Slot) *Builder {
	b.literals = append(b.literals, b.current.String())
	b.current.Reset()
	b.slots = append(b.slots, s)
	return b
}

func (b *Builder) Value(v any) *Builder {
	return b.Slot(Value(v))
}

func (b *Builder) Build() *Template {
	return &Template{
		literals: append(append([]string(nil), b.literals...), b.current.String()),
		slots:    append([]Slot(nil), b.slots...),
	}
}
