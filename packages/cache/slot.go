package cache

import (
	"sync"
	"time"

	"github.com/Marvin-Brouwer/slng-sub000/packages/http"
)

// Entry is a cached response and the time it was stored.
type Entry struct {
	Response  *http.Response
	Timestamp time.Time
}

// Slot holds the cached response of one definition. The mutex only guards
// memory; callers decide whether concurrent misses share a call.
type Slot struct {
	mu    sync.Mutex
	entry *Entry
	ttl   TTL
	clock Clock
}

type Option func(*Slot)

func WithClock(c Clock) Option {
	return func(s *Slot) {
		s.clock = c
	}
}

func NewSlot(ttl TTL, opts ...Option) *Slot {
	s := &Slot{ttl: ttl, clock: Real{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Slot) TTL() TTL {
	return s.ttl
}

// Get returns the entry while it is live. An expired entry is dropped.
func (s *Slot) Get() (*Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entry == nil {
		return nil, false
	}
	if !s.ttl.Live(s.entry.Timestamp, s.clock.Now()) {
		s.entry = nil
		return nil, false
	}
	return s.entry, true
}

// Put stores resp unless caching is disabled and returns the stored entry.
func (s *Slot) Put(resp *http.Response) (*Entry, bool) {
	if !s.ttl.Enabled() {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = &Entry{Response: resp, Timestamp: s.clock.Now()}
	return s.entry, true
}

func (s *Slot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = nil
}
