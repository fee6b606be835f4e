package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Marvin-Brouwer/slng-sub000/packages/cache"
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/parser"
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/resolver"
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/template"
	"github.com/Marvin-Brouwer/slng-sub000/packages/http"
)

// Execution outcomes reported to the Recorder.
const (
	OutcomeCacheHit  = "cache_hit"
	OutcomeNetwork   = "network"
	OutcomeError     = "error"
	OutcomeCancelled = "cancelled"
)

// Recorder receives execution and extraction events.
type Recorder interface {
	ObserveExecution(request, outcome string, d time.Duration)
	ObserveExtraction(request, result string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveExecution(string, string, time.Duration) {}
func (nopRecorder) ObserveExtraction(string, string)               {}

// Definition is one request template together with the cache of its last
// response. Definitions are built once and executed any number of times.
type Definition struct {
	id        string
	name      string
	tmpl      *template.Template
	transport http.Transport
	timeout   time.Duration
	ttl       cache.TTL
	clock     cache.Clock
	cache     *cache.Slot
	group     *singleflight.Group
	logger    zerolog.Logger
	metrics   Recorder
}

type Option func(*Definition)

func WithName(name string) Option {
	return func(d *Definition) {
		d.name = name
	}
}

// WithTransport replaces the default net/http client.
func WithTransport(t http.Transport) Option {
	return func(d *Definition) {
		d.transport = t
	}
}

// WithCacheTTL sets how long a response stays cached. The zero TTL caches
// for the lifetime of the definition.
func WithCacheTTL(ttl cache.TTL) Option {
	return func(d *Definition) {
		d.ttl = ttl
	}
}

func WithClock(c cache.Clock) Option {
	return func(d *Definition) {
		d.clock = c
	}
}

// WithSingleFlight makes concurrent executions that miss the cache share
// one transport call.
func WithSingleFlight() Option {
	return func(d *Definition) {
		d.group = &singleflight.Group{}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(d *Definition) {
		d.logger = l
	}
}

func WithMetrics(r Recorder) Option {
	return func(d *Definition) {
		if r != nil {
			d.metrics = r
		}
	}
}

// WithTimeout bounds each transport call.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Definition) {
		d.timeout = timeout
	}
}

func New(tmpl *template.Template, opts ...Option) *Definition {
	d := &Definition{
		id:      uuid.New().String(),
		tmpl:    tmpl,
		clock:   cache.Real{},
		logger:  zerolog.Nop(),
		metrics: nopRecorder{},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.transport == nil {
		d.transport = http.NewClient()
	}
	if d.name == "" {
		d.name = d.id
	}
	d.cache = cache.NewSlot(d.ttl, cache.WithClock(d.clock))
	return d
}

func (d *Definition) ID() string {
	return d.id
}

func (d *Definition) Name() string {
	return d.name
}

func (d *Definition) Template() *template.Template {
	return d.tmpl
}

// Cached returns the live cache entry without performing I/O.
func (d *Definition) Cached() (*cache.Entry, bool) {
	return d.cache.Get()
}

func (d *Definition) ClearCache() {
	d.cache.Clear()
}

type executeConfig struct {
	readCache bool
}

type ExecuteOption func(*executeConfig)

// WithoutCache skips reading the cache. The fresh response is still stored.
func WithoutCache() ExecuteOption {
	return func(c *executeConfig) {
		c.readCache = false
	}
}

// Execute returns the cached response while it is live and otherwise
// resolves the template, calls the transport and caches the response.
// Cancelled calls never touch the cache.
func (d *Definition) Execute(ctx context.Context, opts ...ExecuteOption) (*http.Response, error) {
	cfg := executeConfig{readCache: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.readCache {
		if entry, ok := d.cache.Get(); ok {
			d.logger.Debug().Str("request", d.name).Time("stored", entry.Timestamp).Msg("cache hit")
			d.metrics.ObserveExecution(d.name, OutcomeCacheHit, 0)
			return entry.Response, nil
		}
	}

	if d.group == nil {
		return d.fetch(ctx)
	}
	// The shared fetch outlives any single caller, each caller only stops
	// waiting when its own context is done.
	shared := context.WithoutCancel(ctx)
	ch := d.group.DoChan(d.id, func() (any, error) {
		return d.fetch(shared)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*http.Response), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", d.name, ctx.Err())
	}
}

// Preview resolves the template without I/O. Deferred values show their
// cached result when there is one and resolver.Placeholder otherwise.
func (d *Definition) Preview(ctx context.Context) (*parser.Document, *parser.Metadata, error) {
	return resolver.Compile(ctx, d.tmpl, resolver.Preview)
}

func (d *Definition) fetch(ctx context.Context) (*http.Response, error) {
	start := time.Now()

	doc, meta, err := resolver.Compile(ctx, d.tmpl, resolver.Execute)
	if err != nil {
		return nil, d.fail(start, err)
	}
	req, err := http.BuildRequest(doc, meta)
	if err != nil {
		return nil, d.fail(start, err)
	}
	if d.timeout > 0 {
		req.SetTimeout(d.timeout)
	}

	d.logger.Debug().
		Str("request", d.name).
		Str("method", req.Method).
		Str("url", doc.URL(meta, parser.DisplayView)).
		Msg("sending request")

	resp, err := d.transport.Do(ctx, req)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, d.fail(start, redact(err, meta))
	}

	d.cache.Put(resp)
	elapsed := time.Since(start)
	d.metrics.ObserveExecution(d.name, OutcomeNetwork, elapsed)
	d.logger.Debug().
		Str("request", d.name).
		Int("status", resp.StatusCode).
		Dur("duration", elapsed).
		Msg("received response")
	return resp, nil
}

func (d *Definition) fail(start time.Time, err error) error {
	outcome := OutcomeError
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		outcome = OutcomeCancelled
	}
	d.metrics.ObserveExecution(d.name, outcome, time.Since(start))
	d.logger.Debug().Str("request", d.name).Str("outcome", outcome).Err(err).Msg("request failed")
	return fmt.Errorf("%s: %w", d.name, err)
}

// redactedError hides the real values of masked slots that transport errors
// echo back, typically inside the URL.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redact(err error, meta *parser.Metadata) error {
	msg := err.Error()
	for _, v := range meta.Registry.Values() {
		if real := v.Unmask(); real != "" {
			msg = strings.ReplaceAll(msg, real, v.Display())
		}
	}
	if msg == err.Error() {
		return err
	}
	return &redactedError{msg: msg, err: err}
}
