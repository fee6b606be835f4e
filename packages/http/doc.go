// Package http provides the transport that sends rendered requests.
//
// It wraps the standard library's http package with:
//   - a Transport interface so callers can swap the network for a stub
//   - configurable timeouts, redirects, TLS validation and proxying
//   - default headers applied to every request
//   - fully read responses with timing information
package http
