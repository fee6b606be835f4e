// Package resolver settles the slots of a template.
//
// A single pipeline walks the slots in order and delegates each one to a
// Strategy. Preview never performs I/O and stands in Placeholder for values
// that are not known yet. Execute awaits every deferred slot and fails the
// whole pass on the first error.
package resolver

import (
	"context"
	"fmt"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/parser"
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/template"
	"github.com/Marvin-Brouwer/slng-sub000/packages/masking"
)

// Placeholder stands in for a deferred value in the preview.
const Placeholder = "<deferred>"

// Strategy settles one slot. index is the slot position in the template.
type Strategy func(ctx context.Context, index int, slot template.Slot) (template.Settled, error)

// SlotError reports a deferred slot that failed to resolve.
type SlotError struct {
	Index int
	Err   error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("resolve slot %d: %v", e.Index, e.Err)
}

func (e *SlotError) Unwrap() error {
	return e.Err
}

// Resolve settles every slot of tmpl in order. Each slot is handed to the
// strategy exactly once and the first failure aborts the pass.
func Resolve(ctx context.Context, tmpl *template.Template, strategy Strategy) (*template.Resolved, error) {
	slots := tmpl.Slots()
	values := make([]template.Settled, len(slots))
	for i, slot := range slots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := strategy(ctx, i, slot)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return &template.Resolved{Literals: tmpl.Literals(), Values: values}, nil
}

// Compile resolves tmpl and parses the result.
func Compile(ctx context.Context, tmpl *template.Template, strategy Strategy) (*parser.Document, *parser.Metadata, error) {
	r, err := Resolve(ctx, tmpl, strategy)
	if err != nil {
		return nil, nil, err
	}
	return parser.Parse(r)
}

// Preview settles slots without I/O. Deferred slots show their peeked value
// when one is available and Placeholder otherwise.
func Preview(_ context.Context, _ int, slot template.Slot) (template.Settled, error) {
	switch slot.Kind() {
	case template.SlotPrimitive:
		return settle(slot.Primitive(), nil), nil
	case template.SlotMasked:
		return template.Settled{Mask: slot.Mask()}, nil
	case template.SlotDeferred, template.SlotMaskedDeferred:
		p, ok := slot.Deferred().(template.Peeker)
		if !ok {
			return template.Settled{Primitive: Placeholder}, nil
		}
		v, ok := p.Peek()
		if !ok {
			return template.Settled{Primitive: Placeholder}, nil
		}
		if err, isErr := v.(error); isErr && err != nil {
			return template.Settled{Primitive: Placeholder}, nil
		}
		return settle(v, slot.MaskFunc()), nil
	default:
		return template.Settled{}, fmt.Errorf("unknown slot kind %v", slot.Kind())
	}
}

// Execute settles slots for a real call, awaiting deferred values in order.
// A deferred value that is an error fails the slot.
func Execute(ctx context.Context, index int, slot template.Slot) (template.Settled, error) {
	switch slot.Kind() {
	case template.SlotPrimitive:
		return settle(slot.Primitive(), nil), nil
	case template.SlotMasked:
		return template.Settled{Mask: slot.Mask()}, nil
	case template.SlotDeferred, template.SlotMaskedDeferred:
		v, err := slot.Deferred().Resolve(ctx)
		if err == nil {
			if e, isErr := v.(error); isErr {
				err = e
			}
		}
		if err != nil {
			return template.Settled{}, &SlotError{Index: index, Err: err}
		}
		return settle(v, slot.MaskFunc()), nil
	default:
		return template.Settled{}, fmt.Errorf("unknown slot kind %v", slot.Kind())
	}
}

// settle wraps a resolved value. Masked values pass through; a mask function
// masks the stringified value.
func settle(v any, mask template.MaskFunc) template.Settled {
	if m, ok := v.(*masking.Value); ok {
		return template.Settled{Mask: m}
	}
	if mask != nil {
		return template.Settled{Mask: mask(template.Stringify(v))}
	}
	return template.Settled{Primitive: v}
}
