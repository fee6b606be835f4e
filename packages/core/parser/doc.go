// Package parser turns a settled request template into a request document.
//
// Parsing runs in three steps:
//   - Segment cuts the template into logical lines, tracking indentation,
//     line and column for every part
//   - the grammar reads the request line, the headers up to the first blank
//     line and the body
//   - the body text, with masked values replaced by sentinels, is handed to
//     package body
//
// Problems in the request line or a header become ErrorNodes inside the
// document; boundary layout problems become Warnings in the Metadata. Only a
// blank template without slots makes Parse return an error.
//
// Masked values are registered in reading order in Metadata.Registry and
// render as display text unless the ExecutionView is requested.
package parser
