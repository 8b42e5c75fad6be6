// Package latex assembles standalone TeX documents around generated TikZ.
package latex

import (
	"fmt"
	"strings"
)

// Options extend the document preamble.
type Options struct {
	// ExtraPackages are additional \usepackage names. Names are validated so
	// a request body cannot inject TeX outside the document body.
	ExtraPackages []string
}

// ErrBadPackageName rejects a package name with characters outside
// [A-Za-z0-9-].
type ErrBadPackageName struct {
	Name string
}

func (e *ErrBadPackageName) Error() string {
	return fmt.Sprintf("latex: invalid package name %q", e.Name)
}

func validPackageName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return true
}

// Document wraps TikZ source in a standalone document with the tikz package
// loaded, matching the template the rendering pipeline compiles.
func Document(tikz string, opts Options) (string, error) {
	var b strings.Builder
	b.WriteString("\\documentclass{standalone}\n")
	b.WriteString("\\usepackage{tikz}\n")
	for _, pkg := range opts.ExtraPackages {
		if !validPackageName(pkg) {
			return "", &ErrBadPackageName{Name: pkg}
		}
		fmt.Fprintf(&b, "\\usepackage{%s}\n", pkg)
	}
	b.WriteString("\\begin{document}\n")
	b.WriteString(strings.TrimRight(tikz, "\n"))
	b.WriteString("\n\\end{document}\n")
	return b.String(), nil
}
