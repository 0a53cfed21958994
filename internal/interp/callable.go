package interp

import (
	"github.com/sdecook/loxi/internal/ast"
	"github.com/sdecook/loxi/internal/environment"
	"github.com/sdecook/loxi/internal/value"
)

func (in *Interpreter) evalCall(n *ast.Call) (value.Value, error) {
	callee, err := in.eval(n.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := in.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch c := callee.(type) {
	case *value.Function:
		if len(args) != c.Arity() {
			return nil, newRuntimeError(n.Paren, "Expected %d arguments but got %d.", c.Arity(), len(args))
		}
		return in.callFunction(c, args)

	case *value.Class:
		if len(args) != c.Arity() {
			return nil, newRuntimeError(n.Paren, "Expected %d arguments but got %d.", c.Arity(), len(args))
		}
		return in.instantiate(c, args)

	case *value.Native:
		if len(args) != c.NumArgs {
			return nil, newRuntimeError(n.Paren, "Expected %d arguments but got %d.", c.NumArgs, len(args))
		}
		return c.Fn(args)

	default:
		return nil, newRuntimeError(n.Paren, "Can only call functions and classes.")
	}
}

// callFunction runs fn's body in a fresh environment enclosed by its
// closure, per spec.md §4.5's call protocol, using Go's own call stack
// for recursion depth rather than a managed frame stack.
func (in *Interpreter) callFunction(fn *value.Function, args []value.Value) (value.Value, error) {
	callEnv := environment.New(fn.Closure)
	for i, param := range fn.Declaration.Params {
		callEnv.Define(param.Lexeme, args[i])
	}

	err := in.executeBlock(fn.Declaration.Body.Statements, callEnv)
	if cr, ok := asControlReturn(err); ok {
		if fn.IsInit {
			this, _ := fn.Closure.GetAt(0, "this")
			return this, nil
		}
		return cr.value, nil
	}
	if err != nil {
		return nil, err
	}

	if fn.IsInit {
		this, _ := fn.Closure.GetAt(0, "this")
		return this, nil
	}
	return nil, nil
}

// instantiate allocates a new instance and, if the class declares an
// initializer, runs it bound to the instance before returning it
// (spec.md §4.5 "Class construction"), grounded on
// sam-decook-lox/codecrafters/cmd/callable.go's LoxClass.Call.
func (in *Interpreter) instantiate(class *value.Class, args []value.Value) (value.Value, error) {
	instance := value.NewInstance(class)
	if init := class.FindMethod("init"); init != nil {
		if _, err := in.callFunction(init.Bind(instance), args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}
