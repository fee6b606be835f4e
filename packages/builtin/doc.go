// Package builtin provides the functions callable from request files.
//
// Available functions:
//   - uuid(): random UUID v4
//   - timestamp(): current Unix timestamp in seconds
//   - timestampMs(): current Unix timestamp in milliseconds
//   - now(layout): current UTC time, RFC 3339 unless a Go layout is given
//   - date(layout): current UTC date, 2006-01-02 unless a layout is given
//   - randomInt(min, max): random integer in the closed range
//   - randomString(length): random alphanumeric string
//   - base64(value) and base64Decode(value)
//   - urlEncode(value)
//   - sha256(value): hex digest
//
// Functions are invoked as {{name(args)}} inside a request template.
package builtin
