// Package qpic parses the qpic circuit description language into a wire and
// operation model with deterministic column layout.
package qpic

import "fmt"

// OpKind identifies the drawing primitive an operation maps to.
type OpKind int

const (
	OpGate    OpKind = iota // boxed gate with a TeX label
	OpNot                   // NOT / CNOT target drawn as an oplus
	OpCZ                    // controlled-Z, dots on every participant
	OpSwap                  // swap crosses on two wires
	OpMeasure               // meter box, wire is classical afterwards
	OpBarrier               // column synchronization, no geometry
)

// Wire is a horizontal circuit line in declaration order.
type Wire struct {
	// Name is the identifier used by statements to reference the wire.
	Name string
	// Label is the TeX typeset at the left end of the wire.
	Label string
	// Classical marks the wire as classical from the start.
	Classical bool
	// Index is the zero-based row, top to bottom.
	Index int
}

// Control references a control wire. Negated controls render as open dots.
type Control struct {
	Wire    string
	Negated bool
}

// Op is a single scheduled circuit operation.
type Op struct {
	Kind     OpKind
	Label    string
	Targets  []string
	Controls []Control
	// Column is the time step assigned by the scheduler, starting at 1.
	Column int
	// Line is the 1-based source line the op was parsed from.
	Line int
}

// Circuit is the parsed and scheduled circuit model.
type Circuit struct {
	Wires []*Wire
	Ops   []*Op

	byName map[string]*Wire
}

// Wire returns the named wire, if declared.
func (c *Circuit) Wire(name string) (*Wire, bool) {
	w, ok := c.byName[name]
	return w, ok
}

// Depth returns the highest assigned column, zero for an empty circuit.
func (c *Circuit) Depth() int {
	depth := 0
	for _, op := range c.Ops {
		if op.Kind == OpBarrier {
			continue
		}
		if op.Column > depth {
			depth = op.Column
		}
	}
	return depth
}

// rows returns the sorted row span an op occupies, including every row
// between the outermost participants when the op draws a vertical connector.
func (c *Circuit) rows(op *Op) []int {
	touched := make(map[int]bool)
	min, max := len(c.Wires), -1
	mark := func(name string) {
		w := c.byName[name]
		touched[w.Index] = true
		if w.Index < min {
			min = w.Index
		}
		if w.Index > max {
			max = w.Index
		}
	}
	for _, t := range op.Targets {
		mark(t)
	}
	for _, ctl := range op.Controls {
		mark(ctl.Wire)
	}
	if max < 0 {
		return nil
	}
	// Barriers and measurements never draw vertical connectors, so they only
	// occupy the rows they name.
	spanning := op.Kind != OpBarrier && op.Kind != OpMeasure
	connected := spanning && (len(op.Controls) > 0 || len(touched) > 1)
	var out []int
	for r := min; r <= max; r++ {
		if connected || touched[r] {
			out = append(out, r)
		}
	}
	return out
}

// ParseError reports a malformed statement with its source line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("qpic: line %d: %s", e.Line, e.Msg)
}

func errf(line int, format string, args ...interface{}) error {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
