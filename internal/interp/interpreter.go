// Package interp implements the tree-walking evaluator: it executes a
// resolved statement list against an environment chain, producing side
// effects (print, field mutation) and, for the REPL, auto-printed
// expression results.
package interp

import (
	"fmt"
	"io"
	"time"

	"github.com/sdecook/loxi/internal/ast"
	"github.com/sdecook/loxi/internal/environment"
	"github.com/sdecook/loxi/internal/resolver"
	"github.com/sdecook/loxi/internal/token"
	"github.com/sdecook/loxi/internal/value"
)

// Interpreter holds the two environments every evaluation needs: the
// unchanging global scope, and whichever scope is currently active.
type Interpreter struct {
	globals *environment.Environment
	env     *environment.Environment
	locals  resolver.Locals
	out     io.Writer
	isREPL  bool
}

// New creates an Interpreter that writes `print` output to out.
// isREPL enables auto-printing the value of a bare expression
// statement, matching the behavior of original_source/lox/repl.py.
func New(out io.Writer, isREPL bool) *Interpreter {
	globals := environment.New(nil)
	globals.Define("clock", &value.Native{
		Name:    "clock",
		NumArgs: 0,
		Fn: func(args []value.Value) (value.Value, error) {
			return float64(time.Now().Unix()), nil
		},
	})
	return &Interpreter{globals: globals, env: globals, out: out, isREPL: isREPL}
}

// Interpret runs stmts against locals, the resolver's side-table, and
// returns the first runtime error encountered (nil on a clean run).
func (in *Interpreter) Interpret(stmts []ast.Stmt, locals resolver.Locals) error {
	in.locals = locals
	for _, s := range stmts {
		if err := in.exec(s); err != nil {
			if _, isReturn := asControlReturn(err); isReturn {
				// A `return` that escaped every function call is a
				// resolver bug, not a user error; the resolver already
				// rejects this statically, so this should be
				// unreachable in practice.
				continue
			}
			return err
		}
	}
	return nil
}

// EvalExpression evaluates a single expression outside of any
// statement, for the REPL's "evaluate one line" shortcut.
func (in *Interpreter) EvalExpression(e ast.Expr, locals resolver.Locals) (value.Value, error) {
	in.locals = locals
	return in.eval(e)
}

func (in *Interpreter) exec(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.ExpressionStmt:
		v, err := in.eval(n.Expr)
		if err != nil {
			return err
		}
		if in.isREPL {
			switch n.Expr.(type) {
			case *ast.Assign, *ast.Call:
				// Assignments and bare calls print nothing in the REPL,
				// matching original_source/lox/repl.py's behavior.
			default:
				fmt.Fprintln(in.out, value.Stringify(v))
			}
		}
		return nil

	case *ast.PrintStmt:
		v, err := in.eval(n.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(in.out, value.Stringify(v))
		return nil

	case *ast.VarStmt:
		var v value.Value
		if n.Initializer != nil {
			var err error
			v, err = in.eval(n.Initializer)
			if err != nil {
				return err
			}
		}
		in.env.Define(n.Name.Lexeme, v)
		return nil

	case *ast.Block:
		return in.executeBlock(n.Statements, environment.New(in.env))

	case *ast.Function:
		fn := &value.Function{Declaration: n, Closure: in.env}
		in.env.Define(n.Name.Lexeme, fn)
		return nil

	case *ast.IfStmt:
		cond, err := in.eval(n.Condition)
		if err != nil {
			return err
		}
		if value.IsTruthy(cond) {
			return in.exec(n.Then)
		} else if n.Else != nil {
			return in.exec(n.Else)
		}
		return nil

	case *ast.WhileStmt:
		for {
			cond, err := in.eval(n.Condition)
			if err != nil {
				return err
			}
			if !value.IsTruthy(cond) {
				return nil
			}
			if err := in.exec(n.Body); err != nil {
				return err
			}
		}

	case *ast.ReturnStmt:
		var v value.Value
		if n.Value != nil {
			var err error
			v, err = in.eval(n.Value)
			if err != nil {
				return err
			}
		}
		return &controlReturn{value: v}

	case *ast.ClassDecl:
		return in.execClassDecl(n)
	}
	panic(fmt.Sprintf("interp: unhandled statement type %T", s))
}

func (in *Interpreter) execClassDecl(n *ast.ClassDecl) error {
	var superclass *value.Class
	if n.Superclass != nil {
		sc, err := in.eval(n.Superclass)
		if err != nil {
			return err
		}
		c, ok := sc.(*value.Class)
		if !ok {
			return newRuntimeError(n.Superclass.Name, "Superclass must be a class.")
		}
		superclass = c
	}

	in.env.Define(n.Name.Lexeme, nil)

	classEnv := in.env
	if superclass != nil {
		classEnv = environment.New(in.env)
		classEnv.Define("super", superclass)
	}

	methods := make(map[string]*value.Function, len(n.Methods))
	for _, m := range n.Methods {
		methods[m.Name.Lexeme] = &value.Function{
			Declaration: m,
			Closure:     classEnv,
			IsInit:      m.Name.Lexeme == "init",
		}
	}

	class := &value.Class{Name: n.Name.Lexeme, Superclass: superclass, Methods: methods}
	in.env.Assign(n.Name.Lexeme, class)
	return nil
}

// executeBlock runs stmts in env, restoring the interpreter's previous
// environment on the way out even when a statement returns an error
// (matching the teacher's env-save/restore in callable.go's Call, but
// generalized to every block rather than only function bodies).
func (in *Interpreter) executeBlock(stmts []ast.Stmt, env *environment.Environment) error {
	prev := in.env
	in.env = env
	defer func() { in.env = prev }()

	for _, s := range stmts {
		if err := in.exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) eval(e ast.Expr) (value.Value, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return n.Value, nil

	case *ast.Grouping:
		return in.eval(n.Inner)

	case *ast.Unary:
		return in.evalUnary(n)

	case *ast.Binary:
		return in.evalBinary(n)

	case *ast.Logical:
		return in.evalLogical(n)

	case *ast.Variable:
		return in.lookUpVariable(n.Name, n)

	case *ast.Assign:
		v, err := in.eval(n.Value)
		if err != nil {
			return nil, err
		}
		if depth, ok := in.locals[n.ID()]; ok {
			in.env.AssignAt(depth, n.Name.Lexeme, v)
		} else if !in.globals.Assign(n.Name.Lexeme, v) {
			return nil, newRuntimeError(n.Name, "Undefined variable '%s'.", n.Name.Lexeme)
		}
		return v, nil

	case *ast.Call:
		return in.evalCall(n)

	case *ast.Get:
		obj, err := in.eval(n.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*value.Instance)
		if !ok {
			return nil, newRuntimeError(n.Name, "Only instances have properties.")
		}
		v, ok := inst.Get(n.Name.Lexeme)
		if !ok {
			return nil, newRuntimeError(n.Name, "Undefined property '%s'.", n.Name.Lexeme)
		}
		return v, nil

	case *ast.Set:
		obj, err := in.eval(n.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*value.Instance)
		if !ok {
			return nil, newRuntimeError(n.Name, "Only instances have fields.")
		}
		v, err := in.eval(n.Value)
		if err != nil {
			return nil, err
		}
		inst.Set(n.Name.Lexeme, v)
		return v, nil

	case *ast.This:
		return in.lookUpVariable(n.Keyword, n)

	case *ast.Super:
		return in.evalSuper(n)
	}
	panic(fmt.Sprintf("interp: unhandled expression type %T", e))
}

func (in *Interpreter) evalUnary(n *ast.Unary) (value.Value, error) {
	right, err := in.eval(n.Right)
	if err != nil {
		return nil, err
	}
	switch n.Op.Type {
	case token.Bang:
		return !value.IsTruthy(right), nil
	case token.Minus:
		f, ok := right.(float64)
		if !ok {
			return nil, newRuntimeError(n.Op, "Operand must be a number.")
		}
		return -f, nil
	}
	panic("interp: unreachable unary operator")
}

func (in *Interpreter) evalBinary(n *ast.Binary) (value.Value, error) {
	left, err := in.eval(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.eval(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op.Type {
	case token.Plus:
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
		if lf, ok := left.(float64); ok {
			if rf, ok := right.(float64); ok {
				return lf + rf, nil
			}
		}
		return nil, newRuntimeError(n.Op, "Expected either only number or string operands")

	case token.Minus:
		a, b, err := numberOperands(n.Op, left, right)
		if err != nil {
			return nil, err
		}
		return a - b, nil

	case token.Star:
		a, b, err := numberOperands(n.Op, left, right)
		if err != nil {
			return nil, err
		}
		return a * b, nil

	case token.Slash:
		a, b, err := numberOperands(n.Op, left, right)
		if err != nil {
			return nil, err
		}
		return a / b, nil

	case token.Greater:
		a, b, err := numberOperands(n.Op, left, right)
		if err != nil {
			return nil, err
		}
		return a > b, nil

	case token.GreaterEqual:
		a, b, err := numberOperands(n.Op, left, right)
		if err != nil {
			return nil, err
		}
		return a >= b, nil

	case token.Less:
		a, b, err := numberOperands(n.Op, left, right)
		if err != nil {
			return nil, err
		}
		return a < b, nil

	case token.LessEqual:
		a, b, err := numberOperands(n.Op, left, right)
		if err != nil {
			return nil, err
		}
		return a <= b, nil

	case token.EqualEqual:
		return value.Equal(left, right), nil

	case token.BangEqual:
		return !value.Equal(left, right), nil
	}
	panic("interp: unreachable binary operator")
}

func numberOperands(op token.Token, left, right value.Value) (float64, float64, error) {
	lf, lok := left.(float64)
	rf, rok := right.(float64)
	if !lok || !rok {
		return 0, 0, newRuntimeError(op, "Operands must be numbers.")
	}
	return lf, rf, nil
}

func (in *Interpreter) evalLogical(n *ast.Logical) (value.Value, error) {
	left, err := in.eval(n.Left)
	if err != nil {
		return nil, err
	}
	if n.Op.Type == token.Or {
		if value.IsTruthy(left) {
			return left, nil
		}
	} else {
		if !value.IsTruthy(left) {
			return left, nil
		}
	}
	return in.eval(n.Right)
}

func (in *Interpreter) evalSuper(n *ast.Super) (value.Value, error) {
	depth := in.locals[n.ID()]
	raw, _ := in.env.GetAt(depth, "super")
	superclass := raw.(*value.Class)

	rawThis, _ := in.env.GetAt(depth-1, "this")
	instance := rawThis.(*value.Instance)

	method := superclass.FindMethod(n.Method.Lexeme)
	if method == nil {
		return nil, newRuntimeError(n.Method, "Undefined property '%s'.", n.Method.Lexeme)
	}
	return method.Bind(instance), nil
}

func (in *Interpreter) lookUpVariable(name token.Token, node ast.Node) (value.Value, error) {
	if depth, ok := in.locals[node.ID()]; ok {
		v, _ := in.env.GetAt(depth, name.Lexeme)
		return v, nil
	}
	v, ok := in.globals.Get(name.Lexeme)
	if !ok {
		return nil, newRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
	}
	return v, nil
}
