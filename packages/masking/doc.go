// Package masking wraps secret values so they can travel through templates,
// logs and serialized artifacts without ever being printed.
//
// A masked value pairs a safe display text with an obfuscated copy of the
// real value:
//   - Secret hides everything behind a constant bullet string
//   - Sensitive keeps a short visible prefix and fills the rest
//   - New accepts any caller supplied display text
//
// Every default inspection path (fmt verbs, JSON, YAML, zerolog) renders
// the display text. Unmask is the only way back to the real value.
//
// The persisted Envelope form carries the display text and the obfuscated
// bytes, so a masked value can be stored and rebuilt later without the real
// value appearing in plain form. The obfuscation is a reversible transform
// with a fixed key and is not a substitute for encryption.
package masking
