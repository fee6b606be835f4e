package cache

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// TTL is the lifetime policy of a cache slot. The zero value caches forever.
type TTL struct {
	disabled bool
	duration time.Duration
}

// Forever keeps an entry until the process ends or the slot is cleared.
func Forever() TTL {
	return TTL{}
}

// Disabled never stores responses.
func Disabled() TTL {
	return TTL{disabled: true}
}

// Millis expires entries after n milliseconds. n <= 0 disables caching.
func Millis(n int64) TTL {
	return Duration(time.Duration(n) * time.Millisecond)
}

// Duration expires entries after d. d <= 0 disables caching.
func Duration(d time.Duration) TTL {
	if d <= 0 {
		return Disabled()
	}
	return TTL{duration: d}
}

func (t TTL) Enabled() bool {
	return !t.disabled
}

func (t TTL) IsForever() bool {
	return !t.disabled && t.duration == 0
}

// Lifetime returns the expiry duration, zero for Forever and Disabled.
func (t TTL) Lifetime() time.Duration {
	return t.duration
}

func (t TTL) String() string {
	switch {
	case t.disabled:
		return "disabled"
	case t.duration == 0:
		return "forever"
	default:
		return t.duration.String()
	}
}

// Live reports whether an entry stored at stored is still valid at now.
func (t TTL) Live(stored, now time.Time) bool {
	if t.disabled {
		return false
	}
	if t.duration == 0 {
		return true
	}
	return now.Sub(stored) < t.duration
}

// ParseTTL reads a TTL from configuration text: "false", "off" or "0" disable
// the cache, "true", "forever" or "" cache forever, an integer is milliseconds and anything
// else must be a Go duration such as "30s".
func ParseTTL(s string) (TTL, error) {
	switch s {
	case "", "true", "forever":
		return Forever(), nil
	case "false", "off":
		return Disabled(), nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Millis(n), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return TTL{}, fmt.Errorf("invalid cache ttl %q: want false, milliseconds or a duration", s)
	}
	return Duration(d), nil
}

func (t *TTL) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: cache ttl must be a scalar", node.Line)
	}
	parsed, err := ParseTTL(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*t = parsed
	return nil
}

func (t TTL) MarshalYAML() (any, error) {
	switch {
	case t.disabled:
		return false, nil
	case t.duration == 0:
		return true, nil
	default:
		return t.duration.String(), nil
	}
}
