// Package render orchestrates the external toolchain that turns qpic source
// into TikZ, PDF, SVG and PNG artifacts.
package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wudi/qpickit/observability"
	"github.com/wudi/qpickit/tikz"
)

// Format selects an output artifact.
type Format string

const (
	FormatTikZ Format = "tikz"
	FormatPDF  Format = "pdf"
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
)

// Request describes one rendering job.
type Request struct {
	// Source is the qpic circuit description.
	Source string
	// Formats lists the artifacts to produce. Empty means TikZ and SVG,
	// mirroring the service's default response.
	Formats []Format
	// PNGWidth rescales the PNG artifact to the given pixel width when
	// positive. Ignored unless FormatPNG is requested.
	PNGWidth int
	// Layout controls circuit geometry.
	Layout tikz.Options
	// Timeout bounds the external toolchain. Zero uses the pipeline default.
	Timeout time.Duration
}

func (r Request) wants(f Format) bool {
	if len(r.Formats) == 0 {
		return f == FormatTikZ || f == FormatSVG
	}
	for _, have := range r.Formats {
		if have == f {
			return true
		}
	}
	return false
}

// Result carries the produced artifacts. Only requested fields are set.
type Result struct {
	TikZ string
	PDF  []byte
	SVG  string
	PNG  []byte
}

func (r *Result) clone() *Result {
	out := &Result{TikZ: r.TikZ, SVG: r.SVG}
	if r.PDF != nil {
		out.PDF = append([]byte(nil), r.PDF...)
	}
	if r.PNG != nil {
		out.PNG = append([]byte(nil), r.PNG...)
	}
	return out
}

// ErrToolMissing marks a required external tool that is not installed.
var ErrToolMissing = errors.New("tool not installed")

// ToolError reports a failed external tool invocation with its stderr.
type ToolError struct {
	Tool   string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("render: %s: %v: %s", e.Tool, e.Err, e.Stderr)
	}
	return fmt.Sprintf("render: %s: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Runner executes external commands. It exists so tests can substitute the
// real toolchain.
type Runner interface {
	// Run executes name with args in dir and returns captured stdout/stderr.
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)
	// LookPath resolves a tool name against PATH.
	LookPath(name string) (string, error)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRunner substitutes the command runner.
func WithRunner(r Runner) Option { return func(p *Pipeline) { p.runner = r } }

// WithLogger sets the pipeline logger.
func WithLogger(l observability.Logger) Option { return func(p *Pipeline) { p.log = l } }

// WithTracer sets the pipeline tracer.
func WithTracer(t observability.Tracer) Option { return func(p *Pipeline) { p.tracer = t } }

// WithCacheSize bounds the result cache. Zero disables caching.
func WithCacheSize(n int) Option { return func(p *Pipeline) { p.cache = newCache(n) } }

// WithDefaultTimeout sets the toolchain timeout used when a request does not
// carry its own.
func WithDefaultTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.defaultTimeout = d }
}

// Pipeline renders circuits through the external LaTeX toolchain.
type Pipeline struct {
	runner         Runner
	log            observability.Logger
	tracer         observability.Tracer
	cache          *cache
	defaultTimeout time.Duration
}

// New builds a Pipeline with the real command runner and a small cache.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		runner:         execRunner{},
		log:            observability.NopLogger{},
		tracer:         observability.NopTracer(),
		cache:          newCache(64),
		defaultTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
