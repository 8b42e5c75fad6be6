package qpic

import (
	"fmt"
	"strings"
)

// Format serializes the circuit back to qpic source. Parsing the output
// yields an equivalent circuit.
func Format(c *Circuit) string {
	var b strings.Builder
	for _, w := range c.Wires {
		b.WriteString(w.Name)
		b.WriteString(" W")
		if w.Label != "" {
			b.WriteByte(' ')
			b.WriteString(w.Label)
		}
		if w.Classical {
			b.WriteString(" type=c")
		}
		b.WriteByte('\n')
	}
	for _, op := range c.Ops {
		b.WriteString(formatOp(op))
		b.WriteByte('\n')
	}
	return b.String()
}

func formatOp(op *Op) string {
	targets := strings.Join(op.Targets, " ")
	var ctls []string
	for _, ctl := range op.Controls {
		prefix := "+"
		if ctl.Negated {
			prefix = "-"
		}
		ctls = append(ctls, prefix+ctl.Wire)
	}
	suffix := ""
	if len(ctls) > 0 {
		suffix = " " + strings.Join(ctls, " ")
	}
	switch op.Kind {
	case OpGate:
		return fmt.Sprintf("%s G %s%s", targets, op.Label, suffix)
	case OpNot:
		return fmt.Sprintf("%s N%s", targets, suffix)
	case OpCZ:
		return fmt.Sprintf("%s Z%s", targets, suffix)
	case OpSwap:
		return fmt.Sprintf("%s SWAP%s", targets, suffix)
	case OpMeasure:
		return fmt.Sprintf("%s M", targets)
	case OpBarrier:
		return fmt.Sprintf("%s TOUCH", targets)
	default:
		return ""
	}
}

// AddWire declares a new wire at the bottom of the circuit.
func (c *Circuit) AddWire(name, label string, classical bool) error {
	if name == "" || keywords[name] {
		return fmt.Errorf("qpic: invalid wire name %q", name)
	}
	if _, dup := c.byName[name]; dup {
		return fmt.Errorf("qpic: wire %q already declared", name)
	}
	w := &Wire{Name: name, Label: label, Classical: classical, Index: len(c.Wires)}
	c.Wires = append(c.Wires, w)
	c.byName[name] = w
	return nil
}

// AppendOp validates and appends an operation, then reassigns columns.
func (c *Circuit) AppendOp(kind OpKind, label string, targets []string, controls []Control) error {
	if kind == OpGate && label == "" {
		return fmt.Errorf("qpic: gate requires a label")
	}
	tokens := make([]string, 0, len(controls))
	for _, ctl := range controls {
		prefix := "+"
		if ctl.Negated {
			prefix = "-"
		}
		tokens = append(tokens, prefix+ctl.Wire)
	}
	if err := c.addOp(0, kind, label, targets, tokens); err != nil {
		return err
	}
	c.schedule()
	return nil
}

// RemoveOp deletes the i-th operation and reassigns columns.
func (c *Circuit) RemoveOp(i int) error {
	if i < 0 || i >= len(c.Ops) {
		return fmt.Errorf("qpic: op index %d out of range", i)
	}
	c.Ops = append(c.Ops[:i], c.Ops[i+1:]...)
	c.schedule()
	return nil
}
