package body

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/sentinel"
	"github.com/Marvin-Brouwer/slng-sub000/packages/masking"
)

func registry(values ...*masking.Value) *sentinel.Registry {
	reg := &sentinel.Registry{}
	for _, v := range values {
		reg.Register(v)
	}
	return reg
}

func TestIsJSON(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"Application/JSON", true},
		{"application/problem+json", true},
		{"application/vnd.api+json; charset=utf-8", true},
		{"text/plain", false},
		{"application/xml", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, IsJSON(tt.contentType))
		})
	}
}

func TestBuild_RoundTripsSource(t *testing.T) {
	inputs := []string{
		`{"a": 1, "b": [true, false, null], "c": {"d": "e\"f"}}`,
		"{\n  // comment\n  \"a\": 1, /* block */\n  \"b\": -2.5e3,\n}\n",
		`[ 1 , 2 , 3 , ]`,
		`  "just a string"  `,
		`{"key": nope}`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			b := Build(input, "application/json", nil)
			require.True(t, b.JSON)
			assert.Equal(t, input, b.Text(nil, false))
			assert.Equal(t, input, b.Text(nil, true))
		})
	}
}

func TestBuild_Structure(t *testing.T) {
	b := Build(`{"name": "slng", "count": 3, "ok": true, "none": null, "tags": ["a", "b"]}`, "application/json", nil)
	require.True(t, b.JSON)

	obj, ok := b.Root().(*Object)
	require.True(t, ok)
	require.Len(t, obj.Properties(), 5)

	name, ok := obj.Get("name")
	require.True(t, ok)
	assert.Equal(t, "slng", name.(*String).Value)

	count, _ := obj.Get("count")
	assert.Equal(t, 3.0, count.(*Number).Value)

	flag, _ := obj.Get("ok")
	assert.True(t, flag.(*Boolean).Value)

	none, _ := obj.Get("none")
	assert.Equal(t, KindNull, none.Kind())

	tags, _ := obj.Get("tags")
	items := tags.(*Array).Items()
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[1].(*String).Value)

	_, ok = obj.Get("missing")
	assert.False(t, ok)
}

func TestBuild_MaskedNodes(t *testing.T) {
	reg := registry(
		masking.Secret("s3cr3t"),
		masking.Sensitive("abcdefghij", 3),
		masking.Secret("42"),
	)
	input := `{"password": "` + sentinel.Encode(0) + `", "auth": "Bearer ` + sentinel.Encode(1) + `", "pin": ` + sentinel.Encode(2) + `}`

	b := Build(input, "application/json", reg)
	require.True(t, b.JSON)
	obj := b.Root().(*Object)

	password, _ := obj.Get("password")
	m, ok := password.(*Masked)
	require.True(t, ok)
	assert.True(t, m.Quoted)
	assert.Equal(t, 0, m.Index)
	assert.Equal(t, masking.SecretDisplay, m.Display)

	auth, _ := obj.Get("auth")
	c, ok := auth.(*Composite)
	require.True(t, ok)
	assert.Equal(t, KindString, c.Of)
	require.Len(t, c.Parts, 3)
	assert.Equal(t, `"Bearer `, c.Parts[0].(*Text).Text)
	assert.Equal(t, 1, c.Parts[1].(*Masked).Index)

	pin, _ := obj.Get("pin")
	pm, ok := pin.(*Masked)
	require.True(t, ok)
	assert.False(t, pm.Quoted)

	assert.Equal(t,
		`{"password": "••••••••", "auth": "Bearer abc•••••••", "pin": ••••••••}`,
		b.Text(reg, false))
	assert.Equal(t,
		`{"password": "s3cr3t", "auth": "Bearer abcdefghij", "pin": 42}`,
		b.Text(reg, true))
}

func TestBuild_CompositeNumber(t *testing.T) {
	reg := registry(masking.Secret("7"))
	b := Build(`{"n": 1`+sentinel.Encode(0)+`0}`, "application/json", reg)
	require.True(t, b.JSON)

	n, _ := b.Root().(*Object).Get("n")
	c, ok := n.(*Composite)
	require.True(t, ok)
	assert.Equal(t, KindNumber, c.Of)
	assert.Equal(t, `{"n": 170}`, b.Text(reg, true))
}

func TestBuild_MaskedInsideComment(t *testing.T) {
	reg := registry(masking.Secret("hidden"))
	input := "{\n  // token " + sentinel.Encode(0) + "\n  \"a\": 1\n}"

	b := Build(input, "application/json", reg)
	require.True(t, b.JSON)

	obj := b.Root().(*Object)
	var comment *Comment
	for _, c := range obj.Children {
		if cm, ok := c.(*Comment); ok {
			comment = cm
		}
	}
	require.NotNil(t, comment)
	assert.Equal(t, "{\n  // token ••••••••\n  \"a\": 1\n}", b.Text(reg, false))
	assert.Equal(t, "{\n  // token hidden\n  \"a\": 1\n}", b.Text(reg, true))
}

func TestBuild_UnknownLiteralKeepsSentinel(t *testing.T) {
	reg := registry(masking.Secret("x"))
	b := Build(`[abc`+sentinel.Encode(0)+`]`, "application/json", reg)
	require.True(t, b.JSON)

	items := b.Root().(*Array).Items()
	require.Len(t, items, 1)
	assert.Equal(t, KindUnknown, items[0].Kind())
	assert.Equal(t, `[abc••••••••]`, b.Text(reg, false))
	assert.Equal(t, `[abcx]`, b.Text(reg, true))
}

func TestBuild_EscapedQuotes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		value string
	}{
		{name: "escaped quote", input: `"a\"b"`, value: `a"b`},
		{name: "escaped backslash before quote", input: `"a\\"`, value: `a\`},
		{name: "three backslashes", input: `"a\\\"b"`, value: `a\"b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Build(tt.input, "application/json", nil)
			require.True(t, b.JSON)
			s, ok := b.Root().(*String)
			require.True(t, ok)
			assert.Equal(t, tt.value, s.Value)
		})
	}
}

func TestBuild_FallsBackToText(t *testing.T) {
	reg := registry(masking.Secret("pw"))
	tests := []struct {
		name        string
		input       string
		contentType string
	}{
		{name: "not json content type", input: `{"a": 1}`, contentType: "text/plain"},
		{name: "unterminated string", input: `{"a": "b}`, contentType: "application/json"},
		{name: "unterminated comment", input: `{"a": 1 /* }`, contentType: "application/json"},
		{name: "missing colon", input: `{"a" 1}`, contentType: "application/json"},
		{name: "missing comma", input: `[1 2]`, contentType: "application/json"},
		{name: "trailing content", input: `{} {}`, contentType: "application/json"},
		{name: "empty", input: ``, contentType: "application/json"},
		{name: "whitespace only", input: "  \n", contentType: "application/json"},
		{name: "masked in text", input: "user=admin&pw=" + sentinel.Encode(0), contentType: "application/x-www-form-urlencoded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Build(tt.input, tt.contentType, reg)
			assert.False(t, b.JSON)
			assert.Nil(t, b.Root())
			assert.Equal(t, reg.Substitute(tt.input, true), b.Text(reg, true))
			assert.Equal(t, reg.Substitute(tt.input, false), b.Text(reg, false))
		})
	}
}

func TestBuild_FlatSegments(t *testing.T) {
	reg := registry(masking.Secret("pw"))
	b := Build("a="+sentinel.Encode(0)+"&b=2", "text/plain", reg)

	require.Len(t, b.Nodes, 3)
	assert.Equal(t, "a=", b.Nodes[0].(*Text).Text)
	assert.Equal(t, 0, b.Nodes[1].(*Masked).Index)
	assert.Equal(t, "&b=2", b.Nodes[2].(*Text).Text)
}

func TestLex_States(t *testing.T) {
	tokens, err := lex(`{"a":"x"} // done`)
	require.NoError(t, err)

	kinds := make([]tokenKind, 0, len(tokens))
	for _, tok := range tokens {
		kinds = append(kinds, tok.kind)
	}
	assert.Equal(t, []tokenKind{
		tokPunct, tokString, tokPunct, tokString, tokPunct, tokWhitespace, tokComment,
	}, kinds)
	assert.Equal(t, "// done", tokens[len(tokens)-1].text)
	assert.True(t, tokens[len(tokens)-1].closes)
}

func TestQuoteCloses(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{`"`, true},
		{`\"`, false},
		{`\\"`, true},
		{`\\\"`, false},
		{`a\\\\"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, quoteCloses(tt.input, len(tt.input)-1))
		})
	}
}
