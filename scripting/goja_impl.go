package scripting

import (
	"context"

	"github.com/dop251/goja"
)

type GojaEngine struct {
	vm *goja.Runtime
}

func NewEngine() *GojaEngine {
	vm := goja.New()
	return &GojaEngine{vm: vm}
}

func (e *GojaEngine) Execute(ctx context.Context, script string) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	defer e.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := e.vm.RunString(script)
	if err != nil {
		if interruptedErr, ok := err.(*goja.InterruptedError); ok {
			if cause := interruptedErr.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	return val.Export(), nil
}

// RegisterCircuit exposes a 'circuit' object to scripts. Mutation errors
// surface as JS exceptions so a bad wire reference aborts the script.
func (e *GojaEngine) RegisterCircuit(dom CircuitDOM) error {
	obj := e.vm.NewObject()

	throw := func(err error) {
		if err != nil {
			panic(e.vm.ToValue(err.Error()))
		}
	}
	strArgs := func(call goja.FunctionCall, from int) []string {
		out := make([]string, 0, len(call.Arguments))
		for _, a := range call.Arguments[from:] {
			out = append(out, a.String())
		}
		return out
	}

	if err := obj.Set("wireCount", func(goja.FunctionCall) goja.Value {
		return e.vm.ToValue(dom.WireCount())
	}); err != nil {
		return err
	}
	if err := obj.Set("wireName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		name, err := dom.WireName(int(call.Arguments[0].ToInteger()))
		throw(err)
		return e.vm.ToValue(name)
	}); err != nil {
		return err
	}
	if err := obj.Set("addWire", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		label := ""
		if len(call.Arguments) > 1 {
			label = call.Arguments[1].String()
		}
		throw(dom.AddWire(call.Arguments[0].String(), label))
		return goja.Undefined()
	}); err != nil {
		return err
	}
	if err := obj.Set("opCount", func(goja.FunctionCall) goja.Value {
		return e.vm.ToValue(dom.OpCount())
	}); err != nil {
		return err
	}
	if err := obj.Set("gate", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			throw(errMissingArgs("gate"))
		}
		throw(dom.AppendGate(call.Arguments[0].String(), strArgs(call, 1)...))
		return goja.Undefined()
	}); err != nil {
		return err
	}
	if err := obj.Set("cnot", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			throw(errMissingArgs("cnot"))
		}
		throw(dom.AppendNot(call.Arguments[0].String(), strArgs(call, 1)...))
		return goja.Undefined()
	}); err != nil {
		return err
	}
	if err := obj.Set("measure", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			throw(errMissingArgs("measure"))
		}
		throw(dom.AppendMeasure(strArgs(call, 0)...))
		return goja.Undefined()
	}); err != nil {
		return err
	}
	if err := obj.Set("removeOp", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			throw(errMissingArgs("removeOp"))
		}
		throw(dom.RemoveOp(int(call.Arguments[0].ToInteger())))
		return goja.Undefined()
	}); err != nil {
		return err
	}

	return e.vm.Set("circuit", obj)
}

type missingArgsError string

func (m missingArgsError) Error() string { return "scripting: " + string(m) + ": missing arguments" }

func errMissingArgs(fn string) error { return missingArgsError(fn) }
