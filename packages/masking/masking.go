package masking

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/chacha20"
)

const (
	// SecretDisplay is the display text of every Secret regardless of its length.
	SecretDisplay = "••••••••"
	// FillRune pads the hidden part of a Sensitive value.
	FillRune = '•'
	// DefaultVisibleChars is the prefix length Sensitive keeps readable.
	DefaultVisibleChars = 6
)

var obfuscationKey = []byte("slng/masking/obfuscation-key/v01")

// Value is a masked value. The zero value displays as SecretDisplay and
// unmasks to the empty string.
type Value struct {
	display string
	nonce   []byte
	sealed  []byte
}

// New masks value behind display. A display text that equals or embeds the
// real value is replaced by SecretDisplay.
func New(value, display string) *Value {
	if display == value || (value != "" && strings.Contains(display, value)) {
		display = SecretDisplay
	}
	nonce := make([]byte, chacha20.NonceSize)
	// A failing random source degrades to a zero nonce, masking stays total.
	_, _ = io.ReadFull(rand.Reader, nonce)
	return &Value{
		display: display,
		nonce:   nonce,
		sealed:  transform(nonce, []byte(value)),
	}
}

// Secret masks value behind SecretDisplay.
func Secret(value string) *Value {
	return New(value, SecretDisplay)
}

// Sensitive masks value keeping the first visibleChars runes readable
// (DefaultVisibleChars when omitted) and replacing every remaining rune with
// FillRune. The display text has the same length as the value. At least one
// rune is always hidden.
func Sensitive(value string, visibleChars ...int) *Value {
	visible := DefaultVisibleChars
	if len(visibleChars) > 0 {
		visible = visibleChars[0]
	}
	runes := []rune(value)
	if visible > len(runes)-1 {
		visible = len(runes) - 1
	}
	if visible < 0 {
		visible = 0
	}
	display := string(runes[:visible]) + strings.Repeat(string(FillRune), len(runes)-visible)
	return New(value, display)
}

// Display returns the safe display text.
func (v Value) Display() string {
	if v.nonce == nil {
		return SecretDisplay
	}
	return v.display
}

// Unmask restores the real value.
func (v Value) Unmask() string {
	if v.nonce == nil {
		return ""
	}
	return string(transform(v.nonce, v.sealed))
}

func (v Value) String() string {
	return v.Display()
}

func (v Value) GoString() string {
	return fmt.Sprintf("masking.Value(%q)", v.Display())
}

// Format renders the display text for every verb.
func (v Value) Format(f fmt.State, verb rune) {
	switch verb {
	case 'q':
		fmt.Fprintf(f, "%q", v.Display())
	case 'v':
		if f.Flag('#') {
			_, _ = io.WriteString(f, v.GoString())
			return
		}
		_, _ = io.WriteString(f, v.Display())
	default:
		_, _ = io.WriteString(f, v.Display())
	}
}

func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.Display()), nil
}

func (v Value) MarshalZerologObject(e *zerolog.Event) {
	e.Str("display", v.Display()).Bool("masked", true)
}

func transform(nonce, in []byte) []byte {
	c, err := chacha20.NewUnauthenticatedCipher(obfuscationKey, nonce)
	if err != nil {
		// Only reachable with a malformed nonce from a corrupted envelope.
		return nil
	}
	out := make([]byte, len(in))
	c.XORKeyStream(out, in)
	return out
}
