package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/parser"
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/template"
	"github.com/Marvin-Brouwer/slng-sub000/packages/masking"
)

type fakeDeferred struct {
	value  any
	err    error
	calls  int
	peeked bool
}

func (d *fakeDeferred) Resolve(context.Context) (any, error) {
	d.calls++
	return d.value, d.err
}

type peekingDeferred struct {
	fakeDeferred
}

func (d *peekingDeferred) Peek() (any, bool) {
	return d.value, d.peeked
}

func requestTemplate(slot template.Slot) *template.Template {
	return template.NewBuilder().
		Text("\n  GET https://api.test/items/").
		Slot(slot).
		Text(" HTTP/1.1\n").
		Build()
}

func TestPreview_NeverResolves(t *testing.T) {
	d := &fakeDeferred{value: "42"}
	doc, meta, err := Compile(context.Background(), requestTemplate(template.Defer(d)), Preview)
	require.NoError(t, err)

	assert.Equal(t, 0, d.calls)
	assert.Equal(t, "https://api.test/items/"+Placeholder, doc.URL(meta, parser.DisplayView))
}

func TestPreview_UsesPeekedValue(t *testing.T) {
	tests := []struct {
		name string
		slot func(d *peekingDeferred) template.Slot
		want string
	}{
		{
			name: "plain",
			slot: func(d *peekingDeferred) template.Slot { return template.Defer(d) },
			want: "https://api.test/items/42",
		},
		{
			name: "masked",
			slot: func(d *peekingDeferred) template.Slot { return template.MaskedDefer(d, nil) },
			want: "https://api.test/items/" + masking.SecretDisplay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &peekingDeferred{fakeDeferred{value: 42, peeked: true}}
			doc, meta, err := Compile(context.Background(), requestTemplate(tt.slot(d)), Preview)
			require.NoError(t, err)

			assert.Equal(t, 0, d.calls)
			assert.Equal(t, tt.want, doc.URL(meta, parser.DisplayView))
		})
	}
}

func TestPreview_UnsettledPeek(t *testing.T) {
	d := &peekingDeferred{fakeDeferred{value: "x"}}
	r, err := Resolve(context.Background(), requestTemplate(template.Defer(d)), Preview)
	require.NoError(t, err)
	assert.Equal(t, Placeholder, r.Values[0].Primitive)
}

func TestPreview_MaskedShowsDisplay(t *testing.T) {
	doc, meta, err := Compile(context.Background(), requestTemplate(template.Masked(masking.Sensitive("abcdef", 2))), Preview)
	require.NoError(t, err)
	assert.Equal(t, "https://api.test/items/ab••••", doc.URL(meta, parser.DisplayView))
}

func TestExecute_ResolvesEverySlotOnce(t *testing.T) {
	first := &fakeDeferred{value: "a"}
	second := &fakeDeferred{value: "b"}
	tmpl := template.NewBuilder().
		Text("\n  GET https://api.test/").
		Slot(template.Defer(first)).
		Text("/").
		Slot(template.MaskedDefer(second, func(v string) *masking.Value { return masking.Sensitive(v, 0) })).
		Text(" HTTP/1.1\n").
		Build()

	doc, meta, err := Compile(context.Background(), tmpl, Execute)
	require.NoError(t, err)

	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, "https://api.test/a/•", doc.URL(meta, parser.DisplayView))
	assert.Equal(t, "https://api.test/a/b", doc.URL(meta, parser.ExecutionView))
}

func TestExecute_FailureAbortsPass(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name     string
		deferred *fakeDeferred
	}{
		{name: "returned error", deferred: &fakeDeferred{err: boom}},
		{name: "error as value", deferred: &fakeDeferred{value: boom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			after := &fakeDeferred{value: "never"}
			tmpl := template.NewBuilder().
				Text("\n  GET https://x/").
				Slot(template.Defer(tt.deferred)).
				Slot(template.Defer(after)).
				Text(" HTTP/1.1\n").
				Build()

			_, _, err := Compile(context.Background(), tmpl, Execute)
			require.Error(t, err)

			var slotErr *SlotError
			require.True(t, errors.As(err, &slotErr))
			assert.Equal(t, 0, slotErr.Index)
			assert.ErrorIs(t, err, boom)
			assert.Equal(t, 0, after.calls)
		})
	}
}

func TestExecute_MaskedResultPassesThrough(t *testing.T) {
	mask := masking.Secret("token")
	r, err := Resolve(context.Background(), requestTemplate(template.Defer(&fakeDeferred{value: mask})), Execute)
	require.NoError(t, err)
	assert.Same(t, mask, r.Values[0].Mask)
}

func TestResolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := &fakeDeferred{value: "x"}
	_, err := Resolve(ctx, requestTemplate(template.Defer(d)), Execute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, d.calls)
}
