// Package stim converts stim circuit files into qpic source. The supported
// subset covers the deterministic Clifford instructions an editor round-trips
// through the rendering service.
package stim

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ConvertError reports an unsupported or malformed instruction.
type ConvertError struct {
	Line int
	Msg  string
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("stim: line %d: %s", e.Line, e.Msg)
}

func errf(line int, format string, args ...interface{}) error {
	return &ConvertError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

type instruction struct {
	line    int
	name    string
	targets []int
}

// singleQubit maps one-qubit stim gates to their qpic statement suffix.
var singleQubit = map[string]string{
	"H": "H",
	"X": "G $X$",
	"Y": "Y",
	"Z": "Z",
	"S": "S",
	"T": "T",
}

// Convert translates stim source into qpic source. Every referenced qubit
// index becomes a wire named q<index> initialized to \ket{0}.
func Convert(src string) (string, error) {
	instrs, maxQubit, err := parse(src)
	if err != nil {
		return "", err
	}
	if len(instrs) == 0 {
		return "", fmt.Errorf("stim: empty circuit")
	}

	var b strings.Builder
	for q := 0; q <= maxQubit; q++ {
		fmt.Fprintf(&b, "q%d W \\ket{0}\n", q)
	}
	for _, in := range instrs {
		if err := emit(&b, in); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func parse(src string) ([]instruction, int, error) {
	var instrs []instruction
	maxQubit := -1
	for i, raw := range strings.Split(src, "\n") {
		line := raw
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		name := strings.ToUpper(fields[0])
		in := instruction{line: i + 1, name: name}
		for _, f := range fields[1:] {
			q, err := strconv.Atoi(f)
			if err != nil || q < 0 {
				return nil, 0, errf(i+1, "invalid qubit target %q", f)
			}
			in.targets = append(in.targets, q)
			if q > maxQubit {
				maxQubit = q
			}
		}
		instrs = append(instrs, in)
	}
	return instrs, maxQubit, nil
}

func emit(b *strings.Builder, in instruction) error {
	if suffix, ok := singleQubit[in.name]; ok {
		if len(in.targets) == 0 {
			return errf(in.line, "%s requires at least one target", in.name)
		}
		for _, q := range in.targets {
			fmt.Fprintf(b, "q%d %s\n", q, suffix)
		}
		return nil
	}

	switch in.name {
	case "CX", "CNOT":
		return emitPairs(b, in, func(c, t int) string {
			return fmt.Sprintf("q%d N q%d", t, c)
		})
	case "CZ":
		return emitPairs(b, in, func(a, z int) string {
			return fmt.Sprintf("q%d Z q%d", a, z)
		})
	case "SWAP":
		return emitPairs(b, in, func(a, z int) string {
			return fmt.Sprintf("q%d q%d SWAP", a, z)
		})
	case "M", "MZ":
		if len(in.targets) == 0 {
			return errf(in.line, "%s requires at least one target", in.name)
		}
		names := make([]string, len(in.targets))
		for i, q := range in.targets {
			names[i] = fmt.Sprintf("q%d", q)
		}
		fmt.Fprintf(b, "%s M\n", strings.Join(names, " "))
		return nil
	case "R", "RZ":
		// Mid-circuit reset has no qpic drawing primitive; keep a marker so
		// the source stays reviewable.
		sorted := append([]int(nil), in.targets...)
		sort.Ints(sorted)
		fmt.Fprintf(b, "# reset %v\n", sorted)
		return nil
	case "TICK":
		if len(in.targets) != 0 {
			return errf(in.line, "TICK takes no targets")
		}
		fmt.Fprintf(b, "TOUCH\n")
		return nil
	default:
		return errf(in.line, "unsupported instruction %q", in.name)
	}
}

func emitPairs(b *strings.Builder, in instruction, f func(a, z int) string) error {
	if len(in.targets) == 0 || len(in.targets)%2 != 0 {
		return errf(in.line, "%s requires target pairs", in.name)
	}
	for i := 0; i < len(in.targets); i += 2 {
		a, z := in.targets[i], in.targets[i+1]
		if a == z {
			return errf(in.line, "%s targets must differ", in.name)
		}
		fmt.Fprintf(b, "%s\n", f(a, z))
	}
	return nil
}
