// Package runner executes request definitions and request files.
//
// A Definition owns one template and the cache slot of its last response.
// Execute reuses a live cached response and otherwise resolves the template,
// sends it and stores the answer. DataAccessor exposes a JSON path of that
// response as a lazy value, which other templates use as a deferred slot so
// dependent requests run on demand inside their execution pass.
//
// Runner loads request files, compiles each block with the env package and
// runs them in order.
package runner
