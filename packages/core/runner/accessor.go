package runner

import (
	"context"
	"errors"

	"github.com/Marvin-Brouwer/slng-sub000/packages/capture"
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/template"
	"github.com/Marvin-Brouwer/slng-sub000/packages/http"
)

// Extraction results reported to the Recorder.
const (
	ExtractOK        = "ok"
	ExtractHTTPError = "http_error"
	ExtractPathMiss  = "path_miss"
)

// Accessor extracts a value from the response of a definition. Every call
// goes through Definition.Execute, so the response cache decides whether
// the request runs again.
type Accessor struct {
	def     *Definition
	raw     string
	path    capture.Path
	pathErr error
	valid   []int
}

type AccessorOption func(*Accessor)

// WithValidStatus replaces the default 2xx check with an allow-list.
func WithValidStatus(codes ...int) AccessorOption {
	return func(a *Accessor) {
		a.valid = append(a.valid, codes...)
	}
}

// DataAccessor returns a lazy accessor for path, for instance
// "users[0].email". Nothing runs until a value is asked for.
func (d *Definition) DataAccessor(path string, opts ...AccessorOption) *Accessor {
	a := &Accessor{def: d, raw: path}
	a.path, a.pathErr = capture.ParsePath(path)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Accessor) Path() string {
	return a.raw
}

func (a *Accessor) Definition() *Definition {
	return a.def
}

// Value executes the definition and extracts the path. Failures are a
// *capture.HTTPError for transport or status problems and a
// *capture.InvalidJSONPathError when the path does not match.
func (a *Accessor) Value(ctx context.Context) (any, error) {
	if a.pathErr != nil {
		a.observe(a.pathErr)
		return nil, a.pathErr
	}
	resp, err := a.def.Execute(ctx)
	if err != nil {
		err = asHTTPError(err)
		a.observe(err)
		return nil, err
	}
	v, err := a.extract(resp)
	a.observe(err)
	return v, err
}

// TryValue is Value with path misses reported as a nil value.
func (a *Accessor) TryValue(ctx context.Context) (any, error) {
	v, err := a.Value(ctx)
	var pathErr *capture.InvalidJSONPathError
	if errors.As(err, &pathErr) {
		return nil, nil
	}
	return v, err
}

// Validate reports whether Value would succeed.
func (a *Accessor) Validate(ctx context.Context) bool {
	_, err := a.Value(ctx)
	return err == nil
}

// Resolve makes the accessor usable as a deferred template slot.
func (a *Accessor) Resolve(ctx context.Context) (any, error) {
	return a.Value(ctx)
}

// Peek extracts from the cached response without performing I/O.
func (a *Accessor) Peek() (any, bool) {
	if a.pathErr != nil {
		return nil, false
	}
	entry, ok := a.def.Cached()
	if !ok {
		return nil, false
	}
	v, err := a.extract(entry.Response)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Slot returns a deferred slot reading this accessor.
func (a *Accessor) Slot() template.Slot {
	return template.Defer(a)
}

// Masked returns a deferred slot whose value is masked with fn, or
// masking.Secret when fn is nil.
func (a *Accessor) Masked(fn template.MaskFunc) template.Slot {
	return template.MaskedDefer(a, fn)
}

func (a *Accessor) extract(resp *http.Response) (any, error) {
	if err := capture.CheckStatus(resp, a.valid); err != nil {
		return nil, err
	}
	return capture.NewExtractor(resp).Extract(a.path)
}

func (a *Accessor) observe(err error) {
	result := ExtractOK
	var pathErr *capture.InvalidJSONPathError
	switch {
	case err == nil:
	case errors.As(err, &pathErr):
		result = ExtractPathMiss
	default:
		result = ExtractHTTPError
	}
	a.def.metrics.ObserveExtraction(a.def.name, result)
}

func asHTTPError(err error) error {
	var httpErr *capture.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	return &capture.HTTPError{Cause: err}
}
