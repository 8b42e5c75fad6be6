package qpic

import "strings"

// Statement keywords. Wire names may not collide with these.
var keywords = map[string]bool{
	"W": true, "G": true, "N": true, "X": true, "Z": true,
	"SWAP": true, "M": true, "TOUCH": true,
	"H": true, "Y": true, "S": true, "T": true,
}

// shorthand maps single-token gate keywords to their boxed TeX label.
var shorthand = map[string]string{
	"H": "$H$",
	"Y": "$Y$",
	"S": "$S$",
	"T": "$T$",
}

// Parse parses qpic source and assigns a column to every operation.
func Parse(src string) (*Circuit, error) {
	c := &Circuit{byName: make(map[string]*Wire)}
	for _, stmt := range scan(src) {
		if err := c.parseStatement(stmt); err != nil {
			return nil, err
		}
	}
	c.schedule()
	return c, nil
}

func (c *Circuit) parseStatement(stmt statement) error {
	kw := -1
	for i, tok := range stmt.tokens {
		if keywords[tok] {
			kw = i
			break
		}
	}
	if kw < 0 {
		return errf(stmt.line, "unknown statement %q", strings.Join(stmt.tokens, " "))
	}
	targets := stmt.tokens[:kw]
	args := stmt.tokens[kw+1:]

	switch keyword := stmt.tokens[kw]; keyword {
	case "W":
		return c.declareWire(stmt.line, targets, args)
	case "G":
		if len(args) == 0 {
			return errf(stmt.line, "G requires a label")
		}
		return c.addOp(stmt.line, OpGate, args[0], targets, args[1:])
	case "N", "X":
		if len(targets) != 1 {
			return errf(stmt.line, "%s requires exactly one target", keyword)
		}
		return c.addOp(stmt.line, OpNot, "", targets, args)
	case "Z":
		if len(targets) == 1 && len(args) == 0 {
			return c.addOp(stmt.line, OpGate, "$Z$", targets, nil)
		}
		return c.addOp(stmt.line, OpCZ, "", targets, args)
	case "SWAP":
		if len(targets) != 2 {
			return errf(stmt.line, "SWAP requires exactly two targets")
		}
		return c.addOp(stmt.line, OpSwap, "", targets, args)
	case "M":
		if len(args) != 0 {
			return errf(stmt.line, "M takes no arguments")
		}
		return c.addOp(stmt.line, OpMeasure, "", targets, nil)
	case "TOUCH":
		if len(args) != 0 {
			return errf(stmt.line, "TOUCH takes no arguments")
		}
		names := targets
		if len(names) == 0 {
			for _, w := range c.Wires {
				names = append(names, w.Name)
			}
		}
		if len(names) == 0 {
			return errf(stmt.line, "TOUCH before any wire declaration")
		}
		return c.addOp(stmt.line, OpBarrier, "", names, nil)
	default:
		label, ok := shorthand[keyword]
		if !ok {
			return errf(stmt.line, "unknown keyword %q", keyword)
		}
		if len(args) != 0 {
			return errf(stmt.line, "%s takes no arguments", keyword)
		}
		return c.addOp(stmt.line, OpGate, label, targets, nil)
	}
}

func (c *Circuit) declareWire(line int, targets, args []string) error {
	if len(targets) != 1 {
		return errf(line, "W requires exactly one wire name")
	}
	name := targets[0]
	if _, dup := c.byName[name]; dup {
		return errf(line, "wire %q already declared", name)
	}
	w := &Wire{Name: name, Index: len(c.Wires)}
	var label []string
	for _, a := range args {
		if a == "type=c" {
			w.Classical = true
			continue
		}
		label = append(label, a)
	}
	w.Label = strings.Join(label, " ")
	c.Wires = append(c.Wires, w)
	c.byName[name] = w
	return nil
}

func (c *Circuit) addOp(line int, kind OpKind, label string, targets, ctlTokens []string) error {
	if len(targets) == 0 {
		return errf(line, "operation requires at least one target")
	}
	op := &Op{Kind: kind, Label: label, Line: line}
	seen := make(map[string]bool)
	for _, t := range targets {
		if err := c.checkWireRef(line, t, seen); err != nil {
			return err
		}
		op.Targets = append(op.Targets, t)
	}
	for _, tok := range ctlTokens {
		ctl := Control{Wire: tok}
		switch {
		case strings.HasPrefix(tok, "+"):
			ctl.Wire = tok[1:]
		case strings.HasPrefix(tok, "-"):
			ctl.Wire = tok[1:]
			ctl.Negated = true
		}
		if err := c.checkWireRef(line, ctl.Wire, seen); err != nil {
			return err
		}
		op.Controls = append(op.Controls, ctl)
	}
	c.Ops = append(c.Ops, op)
	return nil
}

func (c *Circuit) checkWireRef(line int, name string, seen map[string]bool) error {
	if name == "" {
		return errf(line, "empty wire reference")
	}
	if _, ok := c.byName[name]; !ok {
		return errf(line, "undeclared wire %q", name)
	}
	if seen[name] {
		return errf(line, "wire %q referenced twice in one operation", name)
	}
	seen[name] = true
	return nil
}

// schedule assigns columns greedily in input order. Vertically connected ops
// reserve every row they cross so connector lines never overlap earlier
// geometry in the same column.
func (c *Circuit) schedule() {
	last := make([]int, len(c.Wires))
	for _, op := range c.Ops {
		rows := c.rows(op)
		if op.Kind == OpBarrier {
			sync := 0
			for _, r := range rows {
				if last[r] > sync {
					sync = last[r]
				}
			}
			for _, r := range rows {
				last[r] = sync
			}
			op.Column = sync
			continue
		}
		col := 0
		for _, r := range rows {
			if last[r] > col {
				col = last[r]
			}
		}
		col++
		for _, r := range rows {
			last[r] = col
		}
		op.Column = col
	}
}
