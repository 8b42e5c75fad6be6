package latex

import (
	"errors"
	"strings"
	"testing"
)

func TestDocumentTemplate(t *testing.T) {
	doc, err := Document("\\begin{tikzpicture}\n\\end{tikzpicture}\n", Options{})
	if err != nil {
		t.Fatalf("document failed: %v", err)
	}
	wantOrder := []string{
		"\\documentclass{standalone}",
		"\\usepackage{tikz}",
		"\\begin{document}",
		"\\begin{tikzpicture}",
		"\\end{tikzpicture}",
		"\\end{document}",
	}
	pos := -1
	for _, want := range wantOrder {
		idx := strings.Index(doc, want)
		if idx < 0 {
			t.Fatalf("document missing %q:\n%s", want, doc)
		}
		if idx < pos {
			t.Fatalf("%q out of order:\n%s", want, doc)
		}
		pos = idx
	}
}

func TestDocumentExtraPackages(t *testing.T) {
	doc, err := Document("x", Options{ExtraPackages: []string{"amsmath", "braket"}})
	if err != nil {
		t.Fatalf("document failed: %v", err)
	}
	if !strings.Contains(doc, "\\usepackage{amsmath}") || !strings.Contains(doc, "\\usepackage{braket}") {
		t.Fatalf("extra packages missing:\n%s", doc)
	}
}

func TestDocumentRejectsBadPackageName(t *testing.T) {
	_, err := Document("x", Options{ExtraPackages: []string{"evil}\\input{/etc/passwd"}})
	if err == nil {
		t.Fatalf("expected package name rejection")
	}
	var bad *ErrBadPackageName
	if !errors.As(err, &bad) {
		t.Fatalf("expected *ErrBadPackageName, got %T", err)
	}
	if _, err := Document("x", Options{ExtraPackages: []string{""}}); err == nil {
		t.Fatalf("empty package name should be rejected")
	}
}
