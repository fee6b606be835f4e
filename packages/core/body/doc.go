// Package body builds the AST of a request body.
//
// Bodies sent with a JSON content type (application/json or any +json
// suffix) are lexed and parsed as JSON with comments (JSONC). Everything
// else, and any JSON body that fails to parse, falls back to a flat list of
// text and masked segments. A failed JSON parse is not an error: request
// bodies may legitimately disagree with their content type.
//
// Masked values arrive as sentinel tokens (see package sentinel) and are
// kept as Masked nodes, or inside Composite nodes when a single JSON atom is
// assembled from literal text and masked fragments. Whitespace, comments and
// punctuation are preserved so the body can be rendered back faithfully in
// either the display or the execution view.
package body
