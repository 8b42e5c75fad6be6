// Package notes renders circuit documentation written in markdown, with TeX
// math converted to MathML, for the editor's preview pane.
package notes

import (
	"bytes"

	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Render converts markdown with $…$ / $$…$$ math into HTML.
func Render(source string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			treeblood.MathML(),
		),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderMath renders a bare TeX math expression (no markdown framing) to
// HTML containing MathML, for gate-label tooltips.
func RenderMath(tex string) (string, error) {
	return Render("$$" + tex + "$$")
}
