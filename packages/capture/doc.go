// Package capture extracts values from responses so one request can feed
// another.
//
// Paths are deliberately small: dot separated keys, each optionally followed
// by [index] brackets, for example "data.items[0].id" or "[2]". Wildcards,
// filters, slices and recursive descent are rejected by ParsePath.
//
// Failures are typed:
//   - *HTTPError for transport failures and disallowed status codes
//   - *InvalidJSONPathError for malformed paths and paths that miss
package capture
