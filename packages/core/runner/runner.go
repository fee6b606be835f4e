package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Marvin-Brouwer/slng-sub000/packages/builtin"
	"github.com/Marvin-Brouwer/slng-sub000/packages/cache"
	"github.com/Marvin-Brouwer/slng-sub000/packages/capture"
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/env"
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/parser"
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/template"
	"github.com/Marvin-Brouwer/slng-sub000/packages/http"
)

type Runner struct {
	config *Config
}

type Config struct {
	Params *env.Params
	Funcs  *builtin.Registry
	// LookupEnv resolves {{$NAME}} placeholders, os.LookupEnv when nil.
	LookupEnv    func(string) (string, bool)
	Transport    http.Transport
	CacheTTL     cache.TTL
	SingleFlight bool
	Timeout      time.Duration
	Bail         bool
	NameFilter   string
	Logger       *zerolog.Logger
	Metrics      Recorder
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Params == nil {
		cfg.Params = env.NewParams()
	}
	if cfg.Funcs == nil {
		cfg.Funcs = builtin.NewRegistry()
	}
	if cfg.Transport == nil {
		cfg.Transport = http.NewClient()
	}
	return &Runner{config: cfg}
}

// Entry is one compiled request of a file. Err holds the compile error of a
// request whose placeholders did not resolve.
type Entry struct {
	Name       string
	Line       int
	Definition *Definition
	Err        error
}

type File struct {
	Path    string
	Entries []*Entry
}

// Load reads a request file and compiles every request in it. A request may
// reference the response of any request above it with {{@name.path}}.
func (r *Runner) Load(path string) (*File, error) {
	blocks, err := env.ReadRequests(path)
	if err != nil {
		return nil, err
	}

	file := &File{Path: path}
	defined := make(map[string]*Definition, len(blocks))
	refs := func(request, p string) (template.Deferred, error) {
		def, ok := defined[request]
		if !ok {
			return nil, nil
		}
		if _, err := capture.ParsePath(p); err != nil {
			return nil, err
		}
		return def.DataAccessor(p), nil
	}

	for _, block := range blocks {
		entry := &Entry{Name: block.Name, Line: block.Line}
		file.Entries = append(file.Entries, entry)

		tmpl, err := env.Compile(block.Text, env.Scope{
			Params:    r.config.Params,
			Funcs:     r.config.Funcs,
			Refs:      refs,
			LookupEnv: r.config.LookupEnv,
		})
		if err != nil {
			entry.Err = fmt.Errorf("%s:%d: %w", path, block.Line, err)
			continue
		}
		entry.Definition = New(tmpl, r.definitionOptions(block.Name)...)
		defined[block.Name] = entry.Definition
	}
	return file, nil
}

func (r *Runner) definitionOptions(name string) []Option {
	opts := []Option{
		WithName(name),
		WithTransport(r.config.Transport),
		WithCacheTTL(r.config.CacheTTL),
		WithTimeout(r.config.Timeout),
		WithMetrics(r.config.Metrics),
	}
	if r.config.Logger != nil {
		opts = append(opts, WithLogger(*r.config.Logger))
	}
	if r.config.SingleFlight {
		opts = append(opts, WithSingleFlight())
	}
	return opts
}

type RunResult struct {
	File     string
	Results  []*RequestResult
	Duration time.Duration
	Passed   int
	Failed   int
	Skipped  int
}

// RequestResult holds the display view of an executed request. The
// Document is rendered after execution, so referenced values show what was
// actually sent, masked where the slot was masked.
type RequestResult struct {
	Name       string
	Line       int
	Passed     bool
	Skipped    bool
	SkipReason string
	Duration   time.Duration
	Document   *parser.Document
	Metadata   *parser.Metadata
	Response   *http.Response
	Error      error
}

// RunFile executes the requests of a file in order. Referenced requests
// run on demand and their responses are reused through the cache.
func (r *Runner) RunFile(ctx context.Context, path string) (*RunResult, error) {
	file, err := r.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading file: %w", err)
	}

	start := time.Now()
	result := &RunResult{File: path}
	for _, entry := range file.Entries {
		if r.config.NameFilter != "" && !matchesPattern(entry.Name, r.config.NameFilter) {
			result.Results = append(result.Results, &RequestResult{
				Name:       entry.Name,
				Line:       entry.Line,
				Skipped:    true,
				SkipReason: "filtered out",
			})
			result.Skipped++
			continue
		}

		reqResult := r.runEntry(ctx, entry)
		result.Results = append(result.Results, reqResult)
		if reqResult.Passed {
			result.Passed++
			continue
		}
		result.Failed++
		if r.config.Bail || ctx.Err() != nil {
			break
		}
	}
	result.Duration = time.Since(start)
	return result, nil
}

func (r *Runner) runEntry(ctx context.Context, entry *Entry) *RequestResult {
	result := &RequestResult{Name: entry.Name, Line: entry.Line}
	if entry.Err != nil {
		result.Error = entry.Err
		return result
	}

	start := time.Now()
	resp, err := entry.Definition.Execute(ctx)
	result.Duration = time.Since(start)
	result.Document, result.Metadata, _ = entry.Definition.Preview(ctx)
	if err != nil {
		result.Error = err
		return result
	}
	result.Response = resp
	result.Passed = resp.IsSuccess()
	return result
}

// Preview is the display view of one request of a file.
type Preview struct {
	Name     string
	Line     int
	Document *parser.Document
	Metadata *parser.Metadata
	Err      error
}

// PreviewFile parses every request of a file without performing I/O.
func (r *Runner) PreviewFile(ctx context.Context, path string) ([]*Preview, error) {
	file, err := r.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading file: %w", err)
	}

	previews := make([]*Preview, 0, len(file.Entries))
	for _, entry := range file.Entries {
		p := &Preview{Name: entry.Name, Line: entry.Line, Err: entry.Err}
		if entry.Definition != nil {
			p.Document, p.Metadata, p.Err = entry.Definition.Preview(ctx)
		}
		previews = append(previews, p)
	}
	return previews, nil
}

func matchesPattern(name, pattern string) bool {
	if pattern == "" {
		return true
	}

	if pattern[0] == '*' && pattern[len(pattern)-1] == '*' && len(pattern) > 1 {
		return strings.Contains(name, pattern[1:len(pattern)-1])
	}

	if pattern[0] == '*' {
		return strings.HasSuffix(name, pattern[1:])
	}

	if pattern[len(pattern)-1] == '*' {
		return strings.HasPrefix(name, pattern[:len(pattern)-1])
	}

	return name == pattern
}
