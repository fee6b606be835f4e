package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/body"
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/template"
	"github.com/Marvin-Brouwer/slng-sub000/packages/masking"
)

func resolved(literals []string, values ...template.Settled) *template.Resolved {
	return &template.Resolved{Literals: literals, Values: values}
}

func primitive(v any) template.Settled {
	return template.Settled{Primitive: v}
}

func masked(v *masking.Value) template.Settled {
	return template.Settled{Mask: v}
}

func TestParse_SimpleGET(t *testing.T) {
	r := resolved([]string{"\n  GET https://example.com/users HTTP/1.1\n  Accept: application/json\n"})

	doc, meta, err := Parse(r)
	require.NoError(t, err)
	assert.Empty(t, meta.Warnings)
	assert.Empty(t, doc.Errors())
	assert.NoError(t, doc.Err())

	req, ok := doc.Request.(*RequestNode)
	require.True(t, ok)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "HTTP/1.1", req.Protocol)
	assert.Equal(t, 2, req.Line)
	assert.Equal(t, 3, req.Column)
	assert.Equal(t, "https://example.com/users", doc.URL(meta, DisplayView))

	assert.Equal(t, []HeaderField{{Name: "accept", Value: "application/json"}}, doc.HeaderValues(meta, DisplayView))
	assert.Nil(t, doc.Body)
}

func TestParse_MaskedURL(t *testing.T) {
	r := resolved(
		[]string{"\n  GET https://", ".example.com/path HTTP/1.1\n"},
		masked(masking.Sensitive("internal-host", 3)),
	)

	doc, meta, err := Parse(r)
	require.NoError(t, err)

	req := doc.Request.(*RequestNode)
	values, ok := req.URL.(*Values)
	require.True(t, ok)
	require.Len(t, values.Parts, 3)
	assert.Equal(t, &Text{Text: "https://"}, values.Parts[0])
	assert.Equal(t, 0, values.Parts[1].(*Masked).Index)

	assert.Equal(t, "https://int••••••••••.example.com/path", doc.URL(meta, DisplayView))
	assert.Equal(t, "https://internal-host.example.com/path", doc.URL(meta, ExecutionView))
}

func TestParse_PrimitiveSlotsMergeIntoText(t *testing.T) {
	r := resolved(
		[]string{"\n  GET https://", "/users/", " HTTP/1.1\n  X-Count: ", "\n"},
		primitive("api.test"), primitive(42), primitive(true),
	)

	doc, meta, err := Parse(r)
	require.NoError(t, err)

	req := doc.Request.(*RequestNode)
	assert.Equal(t, &Text{Text: "https://api.test/users/42"}, req.URL)

	h := doc.Headers[0].(*HeaderNode)
	assert.Equal(t, &Text{Text: "true"}, h.Value)
	assert.Equal(t, 0, meta.Registry.Len())
}

func TestParse_JSONBodyWithMaskedValue(t *testing.T) {
	r := resolved(
		[]string{
			"\n  POST https://api.test/login HTTP/1.1\n  Content-Type: application/json\n\n  {\"user\": \"admin\", \"password\": \"",
			"\"}\n",
		},
		masked(masking.Secret("hunter2")),
	)

	doc, meta, err := Parse(r)
	require.NoError(t, err)
	assert.Equal(t, "application/json", meta.ContentType)
	require.NotNil(t, doc.Body)
	require.True(t, doc.Body.JSON)

	obj, ok := doc.Body.Root().(*body.Object)
	require.True(t, ok)
	password, ok := obj.Get("password")
	require.True(t, ok)
	assert.Equal(t, body.KindMasked, password.Kind())

	assert.Equal(t, `{"user": "admin", "password": "••••••••"}`, doc.BodyText(meta, DisplayView))
	assert.Equal(t, `{"user": "admin", "password": "hunter2"}`, doc.BodyText(meta, ExecutionView))
}

func TestParse_MaskedContentTypeStillRoutes(t *testing.T) {
	r := resolved(
		[]string{"\n  POST https://api.test HTTP/1.1\n  Content-Type: ", "\n\n  {\"a\": 1}\n"},
		masked(masking.Secret("application/json")),
	)

	doc, meta, err := Parse(r)
	require.NoError(t, err)
	assert.Equal(t, "application/json", meta.ContentType)
	assert.True(t, doc.Body.JSON)
	assert.Equal(t, []HeaderField{{Name: "content-type", Value: masking.SecretDisplay}}, doc.HeaderValues(meta, DisplayView))
}

func TestParse_TextBodyFallback(t *testing.T) {
	r := resolved(
		[]string{"\n  POST https://api.test HTTP/1.1\n  Content-Type: text/plain\n\n  token=", "\n  second line\n"},
		masked(masking.Secret("abc")),
	)

	doc, meta, err := Parse(r)
	require.NoError(t, err)
	require.NotNil(t, doc.Body)
	assert.False(t, doc.Body.JSON)
	assert.Equal(t, "token=••••••••\nsecond line", doc.BodyText(meta, DisplayView))
	assert.Equal(t, "token=abc\nsecond line", doc.BodyText(meta, ExecutionView))
}

func TestParse_HeaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		header string
		reason string
	}{
		{name: "illegal characters", header: "Content Type: json", reason: "Illegal header name, invalid characters"},
		{name: "empty name", header: ": value", reason: "Empty header name"},
		{name: "missing colon", header: "NoColon", reason: "Expected ':' after header name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := resolved([]string{"\n  GET https://x HTTP/1.1\n  Accept: */*\n  " + tt.header + "\n"})

			doc, _, err := Parse(r)
			require.NoError(t, err)
			require.Len(t, doc.Headers, 2)
			assert.IsType(t, &HeaderNode{}, doc.Headers[0])

			node, ok := doc.Headers[1].(*ErrorNode)
			require.True(t, ok)
			assert.Equal(t, tt.reason, node.Reason)
			assert.Equal(t, 4, node.Line)
		})
	}
}

func TestParse_HeaderNameFromSlot(t *testing.T) {
	r := resolved([]string{"\n  GET https://x HTTP/1.1\n  ", ": bar\n"}, primitive("X-Foo"))

	doc, _, err := Parse(r)
	require.NoError(t, err)
	node, ok := doc.Headers[0].(*ErrorNode)
	require.True(t, ok)
	assert.Equal(t, "Header name must be literal text", node.Reason)
}

func TestParse_RequestLineErrors(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		reason      string
		suggestions []string
	}{
		{name: "too few tokens", line: "GET https://x", reason: "Request line must contain a method, a URL and a protocol"},
		{name: "lowercase method", line: "get https://x HTTP/1.1", reason: `Unknown method "get"`, suggestions: []string{"GET"}},
		{name: "unknown method", line: "FETCH https://x HTTP/1.1", reason: `Unknown method "FETCH"`, suggestions: Methods},
		{name: "unsupported protocol", line: "GET https://x HTTP/2", reason: "Unsupported protocol, expected HTTP/1.1", suggestions: []string{"HTTP/1.1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _, err := Parse(resolved([]string{"\n  " + tt.line + "\n"}))
			require.NoError(t, err)

			node, ok := doc.Request.(*ErrorNode)
			require.True(t, ok)
			assert.Equal(t, tt.reason, node.Reason)
			assert.Equal(t, tt.suggestions, node.Suggestions)

			var gerr *GrammarError
			require.True(t, errors.As(doc.Err(), &gerr))
			assert.Same(t, node, gerr.Node)
		})
	}
}

func TestParse_MethodFromSlot(t *testing.T) {
	doc, _, err := Parse(resolved([]string{"\n  ", " https://x HTTP/1.1\n"}, primitive("GET")))
	require.NoError(t, err)

	node, ok := doc.Request.(*ErrorNode)
	require.True(t, ok)
	assert.Equal(t, "Method must be literal text", node.Reason)
}

func TestParse_URLWithSpaces(t *testing.T) {
	doc, meta, err := Parse(resolved([]string{"\n  GET https://x/a   b HTTP/1.1\n"}))
	require.NoError(t, err)
	assert.Equal(t, "https://x/a b", doc.URL(meta, DisplayView))
}

func TestParse_StructuralError(t *testing.T) {
	_, _, err := Parse(template.Plain("  \n \t \n"))

	var serr *StructuralError
	require.True(t, errors.As(err, &serr))
}

func TestParse_BlankSlotsAreNotFatal(t *testing.T) {
	doc, _, err := Parse(resolved([]string{"\n", "\n"}, primitive("")))
	require.NoError(t, err)

	node, ok := doc.Request.(*ErrorNode)
	require.True(t, ok)
	assert.Equal(t, "Missing request line", node.Reason)
}

func TestParse_BoundaryWarnings(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		fixes []string
	}{
		{name: "both present", text: "\nGET https://x HTTP/1.1\n"},
		{name: "missing leading", text: "GET https://x HTTP/1.1\n", fixes: []string{FixInsertLeadingNewline}},
		{name: "missing trailing", text: "\nGET https://x HTTP/1.1", fixes: []string{FixInsertTrailingNewline}},
		{name: "missing both", text: "GET https://x HTTP/1.1", fixes: []string{FixInsertLeadingNewline, FixInsertTrailingNewline}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, meta, err := Parse(resolved([]string{tt.text}))
			require.NoError(t, err)

			req, ok := doc.Request.(*RequestNode)
			require.True(t, ok)
			assert.Equal(t, "GET", doc.Method())
			assert.Equal(t, &Text{Text: "https://x"}, req.URL)
			assert.Equal(t, "HTTP/1.1", req.Protocol)

			require.Len(t, meta.Warnings, len(tt.fixes))
			for i, fix := range tt.fixes {
				assert.Equal(t, fix, meta.Warnings[i].Fix)
			}
		})
	}
}

func TestParse_TrailingNewlineWarningPosition(t *testing.T) {
	_, meta, err := Parse(resolved([]string{"GET https://x HTTP/1.1"}))
	require.NoError(t, err)

	require.Len(t, meta.Warnings, 2)
	assert.Equal(t, 1, meta.Warnings[1].Line)
	assert.Equal(t, 23, meta.Warnings[1].Column)
}

func TestParse_MaskedHeaderValueShape(t *testing.T) {
	secret := masking.Secret("s3cr3t-token")
	r := resolved(
		[]string{"\n  GET https://someurl.com HTTP/1.1\n  Authorization: Bearer ", "\n"},
		masked(secret),
	)

	doc, meta, err := Parse(r)
	require.NoError(t, err)
	assert.Equal(t, []*masking.Value{secret}, meta.Registry.Values())

	require.Len(t, doc.Headers, 1)
	h := doc.Headers[0].(*HeaderNode)
	assert.Equal(t, "authorization", h.Name)
	assert.Equal(t, &Values{Parts: []Value{
		&Text{Text: "Bearer "},
		&Masked{Index: 0, Display: masking.SecretDisplay},
		&Text{Text: ""},
	}}, h.Value)
}

func TestParse_MaskedHeaderValueAlone(t *testing.T) {
	r := resolved([]string{"\n  GET https://x HTTP/1.1\n  X-Key: ", " \n"}, masked(masking.Secret("k")))

	doc, _, err := Parse(r)
	require.NoError(t, err)

	h := doc.Headers[0].(*HeaderNode)
	assert.Equal(t, &Masked{Index: 0, Display: masking.SecretDisplay}, h.Value)
}

func TestParse_RegistrationOrder(t *testing.T) {
	first := masking.Secret("one")
	second := masking.Secret("two")
	third := masking.Secret("three")
	r := resolved(
		[]string{
			"\n  POST https://x/", " HTTP/1.1\n  Authorization: Bearer ", "\n  Content-Type: application/json\n\n  {\"k\": ", "}\n",
		},
		masked(first), masked(second), masked(third),
	)

	doc, meta, err := Parse(r)
	require.NoError(t, err)
	assert.Equal(t, []*masking.Value{first, second, third}, meta.Registry.Values())

	h := doc.Headers[0].(*HeaderNode)
	values := h.Value.(*Values)
	assert.Equal(t, 1, values.Parts[1].(*Masked).Index)
	assert.Equal(t, `{"k": three}`, doc.BodyText(meta, ExecutionView))
}

func TestParse_Deterministic(t *testing.T) {
	mask := masking.Sensitive("0123456789")
	r := resolved([]string{"\n  PUT https://x HTTP/1.1\n  X-Key: ", "\n\n  [1, 2]\n"}, masked(mask))

	doc1, meta1, err := Parse(r)
	require.NoError(t, err)
	doc2, meta2, err := Parse(r)
	require.NoError(t, err)

	assert.Equal(t, doc1, doc2)
	assert.Equal(t, meta1, meta2)
}

func TestRender(t *testing.T) {
	r := resolved(
		[]string{"\n  POST https://api.test HTTP/1.1\n  Authorization: Bearer ", "\n  Content-Type: application/json\n\n  {\"a\": 1}\n"},
		masked(masking.Secret("tok")),
	)

	doc, meta, err := Parse(r)
	require.NoError(t, err)

	assert.Equal(t,
		"POST https://api.test HTTP/1.1\nauthorization: Bearer ••••••••\ncontent-type: application/json\n\n{\"a\": 1}",
		Render(doc, meta, DisplayView))
	assert.Equal(t,
		"POST https://api.test HTTP/1.1\nauthorization: Bearer tok\ncontent-type: application/json\n\n{\"a\": 1}",
		Render(doc, meta, ExecutionView))
}
