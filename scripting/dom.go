package scripting

import (
	"fmt"

	"github.com/wudi/qpickit/qpic"
)

// CircuitDocument adapts a parsed circuit to the CircuitDOM contract.
type CircuitDocument struct {
	circuit *qpic.Circuit
}

// NewCircuitDocument wraps a circuit for script access.
func NewCircuitDocument(c *qpic.Circuit) *CircuitDocument {
	return &CircuitDocument{circuit: c}
}

// Circuit returns the underlying, possibly rewritten, circuit.
func (d *CircuitDocument) Circuit() *qpic.Circuit { return d.circuit }

func (d *CircuitDocument) WireCount() int { return len(d.circuit.Wires) }

func (d *CircuitDocument) WireName(i int) (string, error) {
	if i < 0 || i >= len(d.circuit.Wires) {
		return "", fmt.Errorf("scripting: wire index %d out of range", i)
	}
	return d.circuit.Wires[i].Name, nil
}

func (d *CircuitDocument) AddWire(name, label string) error {
	return d.circuit.AddWire(name, label, false)
}

func (d *CircuitDocument) OpCount() int { return len(d.circuit.Ops) }

func (d *CircuitDocument) AppendGate(label string, targets ...string) error {
	if label == "" {
		return fmt.Errorf("scripting: gate label required")
	}
	return d.circuit.AppendOp(qpic.OpGate, label, targets, nil)
}

func (d *CircuitDocument) AppendNot(target string, controls ...string) error {
	ctls := make([]qpic.Control, len(controls))
	for i, c := range controls {
		ctls[i] = qpic.Control{Wire: c}
	}
	return d.circuit.AppendOp(qpic.OpNot, "", []string{target}, ctls)
}

func (d *CircuitDocument) AppendMeasure(targets ...string) error {
	return d.circuit.AppendOp(qpic.OpMeasure, "", targets, nil)
}

func (d *CircuitDocument) RemoveOp(i int) error {
	return d.circuit.RemoveOp(i)
}
