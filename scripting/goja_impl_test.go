package scripting

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/wudi/qpickit/qpic"
)

func newBellDoc(t *testing.T) *CircuitDocument {
	t.Helper()
	c, err := qpic.Parse("a W \\ket{0}\nb W \\ket{0}\na H\nb N a\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return NewCircuitDocument(c)
}

func TestExecuteReturnsValue(t *testing.T) {
	e := NewEngine()
	val, err := e.Execute(context.Background(), "1 + 2")
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if val != int64(3) {
		t.Fatalf("expected 3, got %v (%T)", val, val)
	}
}

func TestExecuteCanceledContext(t *testing.T) {
	e := NewEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Execute(ctx, "1"); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}

func TestExecuteInterruptsLongScript(t *testing.T) {
	e := NewEngine()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := e.Execute(ctx, "while(true){}")
	if err == nil {
		t.Fatalf("expected interrupt error")
	}
}

func TestScriptReadsCircuit(t *testing.T) {
	doc := newBellDoc(t)
	e := NewEngine()
	if err := e.RegisterCircuit(doc); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	val, err := e.Execute(context.Background(), "circuit.wireName(0) + ':' + circuit.wireCount() + ':' + circuit.opCount()")
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if val != "a:2:2" {
		t.Fatalf("unexpected value %v", val)
	}
}

func TestScriptRewritesCircuit(t *testing.T) {
	doc := newBellDoc(t)
	e := NewEngine()
	if err := e.RegisterCircuit(doc); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	script := `
circuit.addWire('c', '\\ket{0}');
circuit.cnot('c', 'b');
circuit.gate('$U$', 'a', 'b');
circuit.measure('a', 'b', 'c');
`
	if _, err := e.Execute(context.Background(), script); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	c := doc.Circuit()
	if len(c.Wires) != 3 {
		t.Fatalf("expected 3 wires, got %d", len(c.Wires))
	}
	if len(c.Ops) != 5 {
		t.Fatalf("expected 5 ops, got %d", len(c.Ops))
	}
	out := qpic.Format(c)
	for _, want := range []string{"c W \\ket{0}", "c N +b", "a b G $U$", "a b c M"} {
		if !strings.Contains(out, want) {
			t.Fatalf("formatted circuit missing %q:\n%s", want, out)
		}
	}
}

func TestScriptErrorsSurfaceAsExceptions(t *testing.T) {
	doc := newBellDoc(t)
	e := NewEngine()
	if err := e.RegisterCircuit(doc); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, err := e.Execute(context.Background(), "circuit.cnot('nope')")
	if err == nil {
		t.Fatalf("expected error for undeclared wire")
	}
	if !strings.Contains(err.Error(), "nope") {
		t.Fatalf("error should name the wire: %v", err)
	}
}

func TestScriptRemoveOp(t *testing.T) {
	doc := newBellDoc(t)
	e := NewEngine()
	if err := e.RegisterCircuit(doc); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := e.Execute(context.Background(), "circuit.removeOp(0)"); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if got := doc.OpCount(); got != 1 {
		t.Fatalf("expected 1 op after removal, got %d", got)
	}
}
