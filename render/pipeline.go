package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wudi/qpickit/latex"
	"github.com/wudi/qpickit/observability"
	"github.com/wudi/qpickit/qpic"
	"github.com/wudi/qpickit/tikz"
)

const (
	toolLatex   = "pdflatex"
	toolPDF2SVG = "pdf2svg"
	toolPDF2PNG = "pdftoppm"
)

// CheckTools verifies that the toolchain needed for PDF and SVG output is
// installed. pdftoppm is only required for PNG output and is checked by
// Render when a request asks for it.
func (p *Pipeline) CheckTools(ctx context.Context) error {
	for _, tool := range []string{toolLatex, toolPDF2SVG} {
		if _, err := p.runner.LookPath(tool); err != nil {
			return &ToolError{Tool: tool, Err: fmt.Errorf("%w: %v", ErrToolMissing, err)}
		}
	}
	return nil
}

// ToolVersions reports which tools resolve on PATH, keyed by tool name.
func (p *Pipeline) ToolVersions() map[string]bool {
	out := make(map[string]bool, 3)
	for _, tool := range []string{toolLatex, toolPDF2SVG, toolPDF2PNG} {
		_, err := p.runner.LookPath(tool)
		out[tool] = err == nil
	}
	return out
}

// Render compiles qpic source into the requested artifacts. TikZ generation
// is pure Go; PDF, SVG and PNG go through the external toolchain inside a
// temporary directory that is always removed.
func (p *Pipeline) Render(ctx context.Context, req Request) (*Result, error) {
	ctx, span := p.tracer.StartSpan(ctx, observability.MetricRenderTime)
	defer span.Finish()

	key := p.cacheKey(req)
	if res, ok := p.cache.get(key); ok {
		p.log.Debug("render cache hit", observability.String("key", key))
		span.SetTag("cache", "hit")
		return res, nil
	}
	span.SetTag("cache", "miss")

	start := time.Now()
	circuit, err := qpic.Parse(req.Source)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	p.log.Debug("parsed circuit",
		observability.Int(observability.MetricWireCount, len(circuit.Wires)),
		observability.Int(observability.MetricOpCount, len(circuit.Ops)),
		observability.Int64(observability.MetricParseTime, time.Since(start).Milliseconds()))

	res := &Result{}
	if req.wants(FormatTikZ) {
		res.TikZ = tikz.Generate(circuit, req.Layout)
	}

	needTools := req.wants(FormatPDF) || req.wants(FormatSVG) || req.wants(FormatPNG)
	if !needTools {
		p.cache.put(key, res)
		return res.clone(), nil
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = p.defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	doc, err := latex.Document(tikz.Generate(circuit, req.Layout), latex.Options{})
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	dir, err := os.MkdirTemp("", "qpickit-render-")
	if err != nil {
		return nil, fmt.Errorf("render: temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	texPath := filepath.Join(dir, "output.tex")
	if err := os.WriteFile(texPath, []byte(doc), 0o600); err != nil {
		return nil, fmt.Errorf("render: write tex: %w", err)
	}

	if err := p.runTool(ctx, dir, toolLatex, "-interaction=nonstopmode", "output.tex"); err != nil {
		span.SetError(err)
		return nil, err
	}
	pdfPath := filepath.Join(dir, "output.pdf")

	if req.wants(FormatPDF) {
		data, err := os.ReadFile(pdfPath)
		if err != nil {
			return nil, fmt.Errorf("render: read pdf: %w", err)
		}
		res.PDF = data
	}

	if req.wants(FormatSVG) {
		if err := p.runTool(ctx, dir, toolPDF2SVG, "output.pdf", "output.svg"); err != nil {
			span.SetError(err)
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(dir, "output.svg"))
		if err != nil {
			return nil, fmt.Errorf("render: read svg: %w", err)
		}
		res.SVG = string(data)
	}

	if req.wants(FormatPNG) {
		png, err := p.renderPNG(ctx, dir, req.PNGWidth)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
		res.PNG = png
	}

	p.cache.put(key, res)
	p.log.Info("rendered circuit",
		observability.Int("wires", len(circuit.Wires)),
		observability.Int("depth", circuit.Depth()),
		observability.Int64(observability.MetricRenderTime, time.Since(start).Milliseconds()))
	return res.clone(), nil
}

// runTool executes one toolchain step, checking installation first so a
// missing tool is reported distinctly from a failed run.
func (p *Pipeline) runTool(ctx context.Context, dir, tool string, args ...string) error {
	if _, err := p.runner.LookPath(tool); err != nil {
		return &ToolError{Tool: tool, Err: fmt.Errorf("%w: %v", ErrToolMissing, err)}
	}
	start := time.Now()
	_, stderr, err := p.runner.Run(ctx, dir, tool, args...)
	if err != nil {
		return &ToolError{Tool: tool, Stderr: string(stderr), Err: err}
	}
	p.log.Debug("tool finished",
		observability.String("tool", tool),
		observability.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}
