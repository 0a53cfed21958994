package value

import (
	"fmt"

	"github.com/sdecook/loxi/internal/ast"
	"github.com/sdecook/loxi/internal/environment"
)

// Function is a user-defined, closure-capturing callable: either a plain
// function or a method (IsInit marks the class initializer, `init`,
// whose call protocol differs per spec.md §4.5).
type Function struct {
	Declaration *ast.Function
	Closure     *environment.Environment
	IsInit      bool
}

func (f *Function) String() string { return fmt.Sprintf("<function %s>", f.Declaration.Name.Lexeme) }

// Arity is the number of declared parameters.
func (f *Function) Arity() int { return len(f.Declaration.Params) }

// Bind produces a method specialized to instance: a new closure
// enclosing f's own, with `this` defined. The initializer flag
// propagates unchanged (spec.md §4.5 "Method binding").
func (f *Function) Bind(instance *Instance) *Function {
	env := environment.New(f.Closure)
	env.Define("this", instance)
	return &Function{Declaration: f.Declaration, Closure: env, IsInit: f.IsInit}
}

// Native is a built-in, zero-closure callable such as clock(). Defining
// it as a real Value (rather than special-casing the callee name at the
// call site, as the teacher's dead evaluate.go did) means native
// functions can be passed around, shadowed, or reassigned like any other
// Lox value — confirmed against original_source/lox/interpreter.py, which
// registers clock the same way.
type Native struct {
	Name    string
	NumArgs int
	Fn      func(args []Value) (Value, error)
}

func (n *Native) String() string { return "<native_fn>" }
func (n *Native) Arity() int     { return n.NumArgs }
