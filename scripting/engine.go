// Package scripting runs user-supplied transform scripts against a parsed
// circuit before rendering.
package scripting

import (
	"context"
)

// Engine represents a scripting engine (e.g., JavaScript).
type Engine interface {
	// Execute executes a script in the context of the registered circuit.
	Execute(ctx context.Context, script string) (interface{}, error)

	// RegisterCircuit registers the circuit document with the engine.
	RegisterCircuit(dom CircuitDOM) error
}

// CircuitDOM exposes the circuit structure to the scripting engine. It
// provides a safe, controlled API for scripts to rewrite the circuit.
type CircuitDOM interface {
	// WireCount returns the number of declared wires.
	WireCount() int

	// WireName returns the name of the i-th wire (0-based, top to bottom).
	WireName(i int) (string, error)

	// AddWire declares a new wire at the bottom of the circuit.
	AddWire(name, label string) error

	// OpCount returns the number of operations.
	OpCount() int

	// AppendGate appends a boxed gate with a TeX label on the targets.
	AppendGate(label string, targets ...string) error

	// AppendNot appends a NOT/CNOT with the given target and controls.
	AppendNot(target string, controls ...string) error

	// AppendMeasure appends a measurement on the targets.
	AppendMeasure(targets ...string) error

	// RemoveOp deletes the i-th operation.
	RemoveOp(i int) error
}
