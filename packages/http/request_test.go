package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/parser"
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/template"
	"github.com/Marvin-Brouwer/slng-sub000/packages/masking"
)

func TestBuildRequest_RevealsMaskedValues(t *testing.T) {
	r := &template.Resolved{
		Literals: []string{
			"\n  POST https://api.test/login HTTP/1.1\n  Authorization: Bearer ",
			"\n  Content-Type: application/json\n\n  {\"password\": \"",
			"\"}\n",
		},
		Values: []template.Settled{
			{Mask: masking.Secret("tok-1")},
			{Mask: masking.Secret("hunter2")},
		},
	}
	doc, meta, err := parser.Parse(r)
	require.NoError(t, err)

	req, err := BuildRequest(doc, meta)
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "https://api.test/login", req.URL)
	assert.Equal(t, []Header{
		{Name: "authorization", Value: "Bearer tok-1"},
		{Name: "content-type", Value: "application/json"},
	}, req.Headers)
	assert.Equal(t, `{"password": "hunter2"}`, req.Body)
	assert.True(t, req.SendsBody())
}

func TestBuildRequest_RejectsErrorNodes(t *testing.T) {
	doc, meta, err := parser.Parse(template.Plain("\n  FETCH https://api.test HTTP/1.1\n"))
	require.NoError(t, err)

	_, err = BuildRequest(doc, meta)
	var grammarErr *parser.GrammarError
	assert.ErrorAs(t, err, &grammarErr)
}
