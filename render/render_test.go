package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const bellSource = "a W \\ket{0}\nb W \\ket{0}\na H\nb N a\na b M\n"

type fakeRunner struct {
	missing map[string]bool
	fail    string
	stderr  string
	calls   []string
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.missing[name] {
		return "", errors.New("executable file not found in $PATH")
	}
	return "/usr/bin/" + name, nil
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, name)
	if name == f.fail {
		return nil, []byte(f.stderr), errors.New("exit status 1")
	}
	switch name {
	case toolLatex:
		return nil, nil, os.WriteFile(filepath.Join(dir, "output.pdf"), []byte("%PDF-1.5 fake"), 0o600)
	case toolPDF2SVG:
		return nil, nil, os.WriteFile(filepath.Join(dir, "output.svg"), []byte("<svg>circuit</svg>"), 0o600)
	case toolPDF2PNG:
		img := image.NewRGBA(image.Rect(0, 0, 16, 8))
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, nil, err
		}
		return nil, nil, os.WriteFile(filepath.Join(dir, "preview.png"), buf.Bytes(), 0o600)
	}
	return nil, nil, nil
}

func newTestPipeline(r Runner) *Pipeline {
	return New(WithRunner(r), WithCacheSize(8))
}

func TestRenderTikZOnlySkipsToolchain(t *testing.T) {
	runner := &fakeRunner{}
	p := newTestPipeline(runner)
	res, err := p.Render(context.Background(), Request{
		Source:  bellSource,
		Formats: []Format{FormatTikZ},
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(res.TikZ, `\begin{tikzpicture}`) {
		t.Fatalf("TikZ missing:\n%s", res.TikZ)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("toolchain should not run for TikZ-only requests, ran %v", runner.calls)
	}
}

func TestRenderDefaultFormats(t *testing.T) {
	runner := &fakeRunner{}
	p := newTestPipeline(runner)
	res, err := p.Render(context.Background(), Request{Source: bellSource})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if res.TikZ == "" || res.SVG != "<svg>circuit</svg>" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.PDF != nil || res.PNG != nil {
		t.Fatalf("unrequested artifacts present: %+v", res)
	}
	want := []string{toolLatex, toolPDF2SVG}
	if len(runner.calls) != 2 || runner.calls[0] != want[0] || runner.calls[1] != want[1] {
		t.Fatalf("tool order = %v, want %v", runner.calls, want)
	}
}

func TestRenderIncludesPDF(t *testing.T) {
	p := newTestPipeline(&fakeRunner{})
	res, err := p.Render(context.Background(), Request{
		Source:  bellSource,
		Formats: []Format{FormatTikZ, FormatSVG, FormatPDF},
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if string(res.PDF) != "%PDF-1.5 fake" {
		t.Fatalf("pdf not captured: %q", res.PDF)
	}
}

func TestRenderPNGRescaled(t *testing.T) {
	p := newTestPipeline(&fakeRunner{})
	res, err := p.Render(context.Background(), Request{
		Source:   bellSource,
		Formats:  []Format{FormatPNG},
		PNGWidth: 8,
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(res.PNG))
	if err != nil {
		t.Fatalf("png decode: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 4 {
		t.Fatalf("png dims = %v, want 8x4", img.Bounds())
	}
}

func TestRenderParseErrorPassesThrough(t *testing.T) {
	p := newTestPipeline(&fakeRunner{})
	_, err := p.Render(context.Background(), Request{Source: "a W\nb H\n"})
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "undeclared wire") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestRenderToolFailureCarriesStderr(t *testing.T) {
	runner := &fakeRunner{fail: toolLatex, stderr: "! Undefined control sequence."}
	p := newTestPipeline(runner)
	_, err := p.Render(context.Background(), Request{Source: bellSource})
	if err == nil {
		t.Fatalf("expected tool error")
	}
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected *ToolError, got %T", err)
	}
	if toolErr.Tool != toolLatex || !strings.Contains(toolErr.Stderr, "Undefined control sequence") {
		t.Fatalf("unexpected tool error %+v", toolErr)
	}
}

func TestRenderMissingTool(t *testing.T) {
	runner := &fakeRunner{missing: map[string]bool{toolPDF2SVG: true}}
	p := newTestPipeline(runner)
	_, err := p.Render(context.Background(), Request{Source: bellSource})
	if !errors.Is(err, ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing, got %v", err)
	}
}

func TestCheckTools(t *testing.T) {
	if err := newTestPipeline(&fakeRunner{}).CheckTools(context.Background()); err != nil {
		t.Fatalf("check tools: %v", err)
	}
	p := newTestPipeline(&fakeRunner{missing: map[string]bool{toolLatex: true}})
	if err := p.CheckTools(context.Background()); !errors.Is(err, ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing, got %v", err)
	}
}

func TestToolVersions(t *testing.T) {
	p := newTestPipeline(&fakeRunner{missing: map[string]bool{toolPDF2PNG: true}})
	got := p.ToolVersions()
	if !got[toolLatex] || !got[toolPDF2SVG] || got[toolPDF2PNG] {
		t.Fatalf("unexpected tool report %v", got)
	}
}

func TestRenderCacheHit(t *testing.T) {
	runner := &fakeRunner{}
	p := newTestPipeline(runner)
	req := Request{Source: bellSource}
	if _, err := p.Render(context.Background(), req); err != nil {
		t.Fatalf("first render: %v", err)
	}
	callsAfterFirst := len(runner.calls)
	res, err := p.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if len(runner.calls) != callsAfterFirst {
		t.Fatalf("cache miss: toolchain ran again (%v)", runner.calls)
	}
	// Mutating the returned result must not poison the cache.
	res.SVG = "tampered"
	res2, err := p.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("third render: %v", err)
	}
	if res2.SVG != "<svg>circuit</svg>" {
		t.Fatalf("cache entry was mutated: %q", res2.SVG)
	}
}

func TestRenderPurge(t *testing.T) {
	runner := &fakeRunner{}
	p := newTestPipeline(runner)
	req := Request{Source: bellSource}
	if _, err := p.Render(context.Background(), req); err != nil {
		t.Fatalf("render: %v", err)
	}
	p.Purge()
	if _, err := p.Render(context.Background(), req); err != nil {
		t.Fatalf("render after purge: %v", err)
	}
	if len(runner.calls) != 4 {
		t.Fatalf("expected toolchain to run twice after purge, calls=%v", runner.calls)
	}
}
