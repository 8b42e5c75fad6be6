// Package tikz turns a scheduled qpic circuit into TikZ source. The output
// uses only plain TikZ so the surrounding document needs nothing beyond
// \usepackage{tikz}.
package tikz

import (
	"fmt"
	"strings"

	"github.com/wudi/qpickit/qpic"
)

// Options control circuit geometry.
type Options struct {
	// RowSep is the vertical distance between adjacent wires.
	RowSep float64
	// ColSep is the horizontal distance between adjacent columns.
	ColSep float64
	// Scale is applied to the whole picture.
	Scale float64
}

const (
	gateHalf   = 0.35 // half size of a gate box
	notRadius  = 0.18 // radius of the oplus circle
	dotRadius  = 0.06 // radius of a control dot
	swapHalf   = 0.15 // half size of a swap cross
	wireLead   = 0.5  // wire overhang before the first and after the last column
	meterHalfW = 0.35
	meterHalfH = 0.28
)

func (o Options) withDefaults() Options {
	if o.RowSep <= 0 {
		o.RowSep = 1.0
	}
	if o.ColSep <= 0 {
		o.ColSep = 1.0
	}
	if o.Scale <= 0 {
		o.Scale = 1.0
	}
	return o
}

// Generate emits a deterministic tikzpicture for the circuit.
func Generate(c *qpic.Circuit, opts Options) string {
	opts = opts.withDefaults()
	g := &generator{circuit: c, opts: opts}
	return g.run()
}

type generator struct {
	circuit *qpic.Circuit
	opts    Options
	buf     strings.Builder
}

func (g *generator) x(col int) float64 { return float64(col) * g.opts.ColSep }
func (g *generator) y(row int) float64 { return -float64(row) * g.opts.RowSep }
func (g *generator) line(format string, args ...interface{}) {
	fmt.Fprintf(&g.buf, format+"\n", args...)
}

func coord(x, y float64) string {
	// Avoid printing IEEE negative zero as "-0.000".
	if x == 0 {
		x = 0
	}
	if y == 0 {
		y = 0
	}
	return fmt.Sprintf("(%.3f,%.3f)", x, y)
}

func (g *generator) run() string {
	g.line(`\begin{tikzpicture}[scale=%.3f]`, g.opts.Scale)
	g.drawWires()
	for _, op := range g.circuit.Ops {
		g.drawOp(op)
	}
	g.line(`\end{tikzpicture}`)
	return g.buf.String()
}

// measureColumn returns the column of the first measurement touching the
// wire, or zero when the wire is never measured.
func (g *generator) measureColumn(name string) int {
	for _, op := range g.circuit.Ops {
		if op.Kind != qpic.OpMeasure {
			continue
		}
		for _, t := range op.Targets {
			if t == name {
				return op.Column
			}
		}
	}
	return 0
}

func (g *generator) drawWires() {
	depth := g.circuit.Depth()
	x0 := -wireLead
	x1 := g.x(depth) + wireLead
	for _, w := range g.circuit.Wires {
		y := g.y(w.Index)
		if w.Label != "" {
			g.line(`\node[left] at %s {%s};`, coord(x0, y), w.Label)
		}
		mc := g.measureColumn(w.Name)
		switch {
		case w.Classical:
			g.line(`\draw[double] %s -- %s;`, coord(x0, y), coord(x1, y))
		case mc > 0:
			// Quantum up to the meter, classical afterwards.
			xm := g.x(mc)
			g.line(`\draw %s -- %s;`, coord(x0, y), coord(xm, y))
			g.line(`\draw[double] %s -- %s;`, coord(xm, y), coord(x1, y))
		default:
			g.line(`\draw %s -- %s;`, coord(x0, y), coord(x1, y))
		}
	}
}

func (g *generator) drawOp(op *qpic.Op) {
	if op.Kind == qpic.OpBarrier {
		return
	}
	x := g.x(op.Column)

	// Connector between the outermost participating rows, drawn first so
	// gate bodies cover it.
	rows := g.participantRows(op)
	if len(rows) > 1 {
		top, bottom := rows[0], rows[len(rows)-1]
		g.line(`\draw %s -- %s;`, coord(x, g.y(top)), coord(x, g.y(bottom)))
	}

	switch op.Kind {
	case qpic.OpGate:
		g.drawGate(op, x)
	case qpic.OpNot:
		g.drawNot(x, g.wireRow(op.Targets[0]))
	case qpic.OpCZ:
		for _, t := range op.Targets {
			g.drawControlDot(x, g.wireRow(t), false)
		}
	case qpic.OpSwap:
		g.drawSwapCross(x, g.wireRow(op.Targets[0]))
		g.drawSwapCross(x, g.wireRow(op.Targets[1]))
	case qpic.OpMeasure:
		for _, t := range op.Targets {
			g.drawMeter(x, g.wireRow(t))
		}
	}

	for _, ctl := range op.Controls {
		g.drawControlDot(x, g.wireRow(ctl.Wire), ctl.Negated)
	}
}

func (g *generator) wireRow(name string) int {
	w, _ := g.circuit.Wire(name)
	return w.Index
}

// participantRows returns the sorted rows of targets and controls.
func (g *generator) participantRows(op *qpic.Op) []int {
	var rows []int
	for _, t := range op.Targets {
		rows = append(rows, g.wireRow(t))
	}
	for _, ctl := range op.Controls {
		rows = append(rows, g.wireRow(ctl.Wire))
	}
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && rows[j] < rows[j-1]; j-- {
			rows[j], rows[j-1] = rows[j-1], rows[j]
		}
	}
	return rows
}

func (g *generator) drawGate(op *qpic.Op, x float64) {
	top, bottom := g.wireRow(op.Targets[0]), g.wireRow(op.Targets[0])
	for _, t := range op.Targets[1:] {
		r := g.wireRow(t)
		if r < top {
			top = r
		}
		if r > bottom {
			bottom = r
		}
	}
	yTop := g.y(top) + gateHalf
	yBottom := g.y(bottom) - gateHalf
	g.line(`\draw[fill=white] %s rectangle %s;`,
		coord(x-gateHalf, yBottom), coord(x+gateHalf, yTop))
	g.line(`\node at %s {%s};`, coord(x, (yTop+yBottom)/2), op.Label)
}

func (g *generator) drawNot(x float64, row int) {
	y := g.y(row)
	g.line(`\draw[fill=white] %s circle (%.3f);`, coord(x, y), notRadius)
	g.line(`\draw %s -- %s;`, coord(x-notRadius, y), coord(x+notRadius, y))
	g.line(`\draw %s -- %s;`, coord(x, y-notRadius), coord(x, y+notRadius))
}

func (g *generator) drawControlDot(x float64, row int, negated bool) {
	y := g.y(row)
	if negated {
		g.line(`\draw[fill=white] %s circle (%.3f);`, coord(x, y), dotRadius)
		return
	}
	g.line(`\filldraw %s circle (%.3f);`, coord(x, y), dotRadius)
}

func (g *generator) drawSwapCross(x float64, row int) {
	y := g.y(row)
	g.line(`\draw %s -- %s;`,
		coord(x-swapHalf, y-swapHalf), coord(x+swapHalf, y+swapHalf))
	g.line(`\draw %s -- %s;`,
		coord(x-swapHalf, y+swapHalf), coord(x+swapHalf, y-swapHalf))
}

func (g *generator) drawMeter(x float64, row int) {
	y := g.y(row)
	g.line(`\draw[fill=white] %s rectangle %s;`,
		coord(x-meterHalfW, y-meterHalfH), coord(x+meterHalfW, y+meterHalfH))
	// Dial arc and needle.
	g.line(`\draw %s arc (180:0:%.3f);`,
		coord(x-meterHalfW*0.6, y-meterHalfH*0.5), meterHalfW*0.6)
	g.line(`\draw %s -- %s;`,
		coord(x, y-meterHalfH*0.5), coord(x+meterHalfW*0.55, y+meterHalfH*0.55))
}
