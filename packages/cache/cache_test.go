package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Marvin-Brouwer/slng-sub000/packages/http"
)

var epoch = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestSlot_Forever(t *testing.T) {
	clock := NewFake(epoch)
	slot := NewSlot(Forever(), WithClock(clock))

	_, ok := slot.Get()
	assert.False(t, ok)

	resp := &http.Response{StatusCode: 200}
	stored, ok := slot.Put(resp)
	require.True(t, ok)
	assert.Equal(t, epoch, stored.Timestamp)

	clock.Advance(1000 * time.Hour)
	entry, ok := slot.Get()
	require.True(t, ok)
	assert.Same(t, resp, entry.Response)
}

func TestSlot_Expires(t *testing.T) {
	clock := NewFake(epoch)
	slot := NewSlot(Millis(500), WithClock(clock))
	slot.Put(&http.Response{StatusCode: 200})

	clock.Advance(499 * time.Millisecond)
	_, ok := slot.Get()
	assert.True(t, ok)

	clock.Advance(time.Millisecond)
	_, ok = slot.Get()
	assert.False(t, ok)

	clock.Set(epoch)
	_, ok = slot.Get()
	assert.False(t, ok, "expired entries are dropped")
}

func TestSlot_Disabled(t *testing.T) {
	for _, ttl := range []TTL{Disabled(), Millis(0), Duration(-time.Second)} {
		t.Run(ttl.String(), func(t *testing.T) {
			slot := NewSlot(ttl)
			_, stored := slot.Put(&http.Response{StatusCode: 200})
			assert.False(t, stored)

			_, ok := slot.Get()
			assert.False(t, ok)
		})
	}
}

func TestSlot_Clear(t *testing.T) {
	slot := NewSlot(Forever())
	slot.Put(&http.Response{StatusCode: 200})
	slot.Clear()

	_, ok := slot.Get()
	assert.False(t, ok)
}

func TestParseTTL(t *testing.T) {
	tests := []struct {
		input   string
		want    TTL
		wantErr bool
	}{
		{input: "", want: Forever()},
		{input: "true", want: Forever()},
		{input: "forever", want: Forever()},
		{input: "false", want: Disabled()},
		{input: "off", want: Disabled()},
		{input: "0", want: Disabled()},
		{input: "1500", want: Duration(1500 * time.Millisecond)},
		{input: "30s", want: Duration(30 * time.Second)},
		{input: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTTL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTTL_YAML(t *testing.T) {
	var cfg struct {
		TTL TTL `yaml:"ttl"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("ttl: 250"), &cfg))
	assert.Equal(t, 250*time.Millisecond, cfg.TTL.Lifetime())

	require.NoError(t, yaml.Unmarshal([]byte("ttl: false"), &cfg))
	assert.False(t, cfg.TTL.Enabled())

	assert.Error(t, yaml.Unmarshal([]byte("ttl: [1]"), &cfg))

	out, err := yaml.Marshal(struct {
		TTL TTL `yaml:"ttl"`
	}{TTL: Duration(time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, "ttl: 1m0s\n", string(out))
}

func TestTTL_Predicates(t *testing.T) {
	assert.True(t, Forever().IsForever())
	assert.True(t, Forever().Enabled())
	assert.False(t, Disabled().IsForever())
	assert.False(t, Millis(10).IsForever())
	assert.Equal(t, "forever", Forever().String())
	assert.Equal(t, "disabled", Disabled().String())
	assert.Equal(t, "10ms", Millis(10).String())
}
