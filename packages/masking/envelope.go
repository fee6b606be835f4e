package masking

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20"
)

// EnvelopeTag identifies a serialized masked value.
const EnvelopeTag = "slng/masked-value"

// ErrInvalidEnvelope is returned when an envelope cannot be turned back into
// a Value.
var ErrInvalidEnvelope = errors.New("invalid masked value envelope")

// Envelope is the persisted form of a Value. Sealed holds the base64 encoded
// nonce and obfuscated bytes, never the plain value.
type Envelope struct {
	Tag             string `json:"tag" yaml:"tag"`
	DisplayText     string `json:"displayText" yaml:"displayText"`
	Sealed          string `json:"sealed" yaml:"sealed"`
	FallbackDisplay string `json:"fallbackDisplay" yaml:"fallbackDisplay"`
}

// Envelope returns the persisted form of v.
func (v Value) Envelope() Envelope {
	raw := make([]byte, 0, len(v.nonce)+len(v.sealed))
	raw = append(raw, v.nonce...)
	raw = append(raw, v.sealed...)
	return Envelope{
		Tag:             EnvelopeTag,
		DisplayText:     v.Display(),
		Sealed:          base64.StdEncoding.EncodeToString(raw),
		FallbackDisplay: SecretDisplay,
	}
}

// FromEnvelope rebuilds a Value. On error callers should show
// env.FallbackDisplay instead.
func FromEnvelope(env Envelope) (*Value, error) {
	if env.Tag != EnvelopeTag {
		return nil, fmt.Errorf("%w: unexpected tag %q", ErrInvalidEnvelope, env.Tag)
	}
	raw, err := base64.StdEncoding.DecodeString(env.Sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if len(raw) < chacha20.NonceSize {
		return nil, fmt.Errorf("%w: sealed data too short", ErrInvalidEnvelope)
	}
	display := env.DisplayText
	if display == "" {
		display = env.FallbackDisplay
	}
	return &Value{
		display: display,
		nonce:   append([]byte(nil), raw[:chacha20.NonceSize]...),
		sealed:  append([]byte(nil), raw[chacha20.NonceSize:]...),
	}, nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Envelope())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	restored, err := FromEnvelope(env)
	if err != nil {
		return err
	}
	*v = *restored
	return nil
}

func (v Value) MarshalYAML() (any, error) {
	return v.Envelope(), nil
}
