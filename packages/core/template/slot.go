package template

import (
	"context"

	"github.com/Marvin-Brouwer/slng-sub000/packages/masking"
)

type SlotKind int

const (
	SlotPrimitive SlotKind = iota
	SlotMasked
	SlotDeferred
	SlotMaskedDeferred
)

func (k SlotKind) String() string {
	switch k {
	case SlotPrimitive:
		return "primitive"
	case SlotMasked:
		return "masked"
	case SlotDeferred:
		return "deferred"
	case SlotMaskedDeferred:
		return "masked-deferred"
	default:
		return "unknown"
	}
}

// Deferred produces a slot value on demand. Resolve may perform I/O and must
// honor ctx cancellation.
type Deferred interface {
	Resolve(ctx context.Context) (any, error)
}

// Peeker is implemented by deferred values that can report an already
// settled value without performing I/O.
type Peeker interface {
	Peek() (any, bool)
}

// MaskFunc masks the settled value of a SlotMaskedDeferred.
type MaskFunc func(value string) *masking.Value

type Slot struct {
	kind     SlotKind
	value    any
	mask     *masking.Value
	deferred Deferred
	maskFunc MaskFunc
}

// Value returns a primitive slot.
func Value(v any) Slot {
	return Slot{kind: SlotPrimitive, value: v}
}

// Masked returns a slot holding an already masked value.
func Masked(v *masking.Value) Slot {
	return Slot{kind: SlotMasked, mask: v}
}

// Defer returns a slot resolved through d during execution.
func Defer(d Deferred) Slot {
	return Slot{kind: SlotDeferred, deferred: d}
}

// MaskedDefer returns a deferred slot whose value is masked with fn once it
// resolves. A nil fn masks with masking.Secret.
func MaskedDefer(d Deferred, fn MaskFunc) Slot {
	if fn == nil {
		fn = masking.Secret
	}
	return Slot{kind: SlotMaskedDeferred, deferred: d, maskFunc: fn}
}

func (s Slot) Kind() SlotKind { return s.kind }
func (s Slot) Primitive() any { return s.value }
func (s Slot) Mask() *masking.Value { return s.mask }
func (s Slot) Deferred() Deferred { return s.deferred }
func (s Slot) MaskFunc() MaskFunc { return s.maskFunc }
