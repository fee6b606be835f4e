// Package template holds the immutable request template model.
//
// A Template is an ordered list of literal fragments interleaved with Slots,
// like a tagged template string: there is always one more literal than there
// are slots. A Slot is a tagged variant:
//   - SlotPrimitive: a plain string, number, bool or nil
//   - SlotMasked: a masked value shown by its display text
//   - SlotDeferred: a value produced later, usually by another request
//   - SlotMaskedDeferred: a deferred value masked once it settles
//
// Resolving every slot of a Template yields a Resolved template whose values
// are Settled, which is what the request parser consumes.
package template
