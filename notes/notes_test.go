package notes

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	html, err := Render("# Bell pair\n\nEntangles two qubits.\n")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "Bell pair") {
		t.Fatalf("heading missing:\n%s", html)
	}
	if !strings.Contains(html, "<p>Entangles two qubits.</p>") {
		t.Fatalf("paragraph missing:\n%s", html)
	}
}

func TestRenderMathBecomesMathML(t *testing.T) {
	html, err := Render("The state is $$\\frac{1}{\\sqrt{2}}(|00\\rangle + |11\\rangle)$$ after the CNOT.")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(html, "<math") {
		t.Fatalf("expected MathML output:\n%s", html)
	}
}

func TestRenderMathHelper(t *testing.T) {
	html, err := RenderMath("\\alpha|0\\rangle")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(html, "<math") {
		t.Fatalf("expected MathML output:\n%s", html)
	}
}
