// Package resolver performs the static lexical-resolution pass: for every
// variable-carrying expression it computes how many enclosing scopes to
// walk to find the binding, and enforces the language's static rules
// (invalid return, invalid this/super, self-inheritance, redeclaration).
package resolver

import (
	"github.com/sdecook/loxi/internal/ast"
	"github.com/sdecook/loxi/internal/token"
)

// ErrorFunc reports a static resolution error at a token.
type ErrorFunc func(tok token.Token, message string)

type functionType int

const (
	funcNone functionType = iota
	funcFunction
	funcInitializer
	funcMethod
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// Locals is the resolver's output: a map from each variable-carrying
// node's stable ID (ast.Node.ID) to the number of enclosing scopes to
// walk to reach its binding. A missing entry means "resolve against
// globals" (spec.md §3).
type Locals map[int]int

// Resolver walks a statement list once, populating Locals and reporting
// static errors via onErr.
type Resolver struct {
	locals    Locals
	scopes    []map[string]bool
	fnType    functionType
	classType classType
	onErr     ErrorFunc
	hadErr    bool
}

// New creates a Resolver. onErr may be nil.
func New(onErr ErrorFunc) *Resolver {
	return &Resolver{locals: make(Locals), onErr: onErr}
}

// HadError reports whether any static error was found.
func (r *Resolver) HadError() bool { return r.hadErr }

// Resolve walks every statement and returns the populated side-table.
func (r *Resolver) Resolve(stmts []ast.Stmt) Locals {
	r.resolveStmts(stmts)
	return r.locals
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, map[string]bool{}) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.reportErr(name, "Variable with this name has already been declared in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

func (r *Resolver) resolveLocal(node ast.Node, name string) {
	for depth := len(r.scopes) - 1; depth >= 0; depth-- {
		if _, ok := r.scopes[depth][name]; ok {
			r.locals[node.ID()] = len(r.scopes) - 1 - depth
			return
		}
	}
	// Unresolved: a global reference, left out of the side-table.
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(n.Statements)
		r.endScope()

	case *ast.VarStmt:
		r.declare(n.Name)
		if n.Initializer != nil {
			r.resolveExpr(n.Initializer)
		}
		r.define(n.Name.Lexeme)

	case *ast.Function:
		r.declare(n.Name)
		r.define(n.Name.Lexeme)
		r.resolveFunction(n, funcFunction)

	case *ast.ExpressionStmt:
		r.resolveExpr(n.Expr)

	case *ast.IfStmt:
		r.resolveExpr(n.Condition)
		r.resolveStmt(n.Then)
		if n.Else != nil {
			r.resolveStmt(n.Else)
		}

	case *ast.PrintStmt:
		r.resolveExpr(n.Expr)

	case *ast.ReturnStmt:
		if r.fnType == funcNone {
			r.reportErr(n.Keyword, "Can't return from top-level code.")
		}
		if n.Value != nil {
			if r.fnType == funcInitializer {
				r.reportErr(n.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(n.Value)
		}

	case *ast.WhileStmt:
		r.resolveExpr(n.Condition)
		r.resolveStmt(n.Body)

	case *ast.ClassDecl:
		r.resolveClass(n)
	}
}

func (r *Resolver) resolveClass(c *ast.ClassDecl) {
	enclosingClass := r.classType
	r.classType = classClass

	r.declare(c.Name)
	r.define(c.Name.Lexeme)

	if c.Superclass != nil {
		if c.Superclass.Name.Lexeme == c.Name.Lexeme {
			r.reportErr(c.Superclass.Name, "A class can't inherit from itself.")
		}
		r.classType = classSubclass
		r.resolveExpr(c.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range c.Methods {
		fnType := funcMethod
		if method.Name.Lexeme == "init" {
			fnType = funcInitializer
		}
		r.resolveFunction(method, fnType)
	}

	r.endScope()
	if c.Superclass != nil {
		r.endScope()
	}

	r.classType = enclosingClass
}

func (r *Resolver) resolveFunction(fn *ast.Function, fnType functionType) {
	enclosingFn := r.fnType
	r.fnType = fnType

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param.Lexeme)
	}
	r.resolveStmts(fn.Body.Statements)
	r.endScope()

	r.fnType = enclosingFn
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][n.Name.Lexeme]; declared && !defined {
				r.reportErr(n.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(n, n.Name.Lexeme)

	case *ast.Assign:
		r.resolveExpr(n.Value)
		r.resolveLocal(n, n.Name.Lexeme)

	case *ast.Binary:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)

	case *ast.Call:
		r.resolveExpr(n.Callee)
		for _, a := range n.Args {
			r.resolveExpr(a)
		}

	case *ast.Get:
		r.resolveExpr(n.Object)

	case *ast.Grouping:
		r.resolveExpr(n.Inner)

	case *ast.Literal:
		// nothing to resolve

	case *ast.Logical:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)

	case *ast.Set:
		r.resolveExpr(n.Value)
		r.resolveExpr(n.Object)

	case *ast.Super:
		if r.classType == classNone {
			r.reportErr(n.Keyword, "Can't use 'super' outside of a class.")
		} else if r.classType != classSubclass {
			r.reportErr(n.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(n, "super")

	case *ast.This:
		if r.classType == classNone {
			r.reportErr(n.Keyword, "Can't use 'this' outside of a class.")
		}
		r.resolveLocal(n, "this")

	case *ast.Unary:
		r.resolveExpr(n.Right)
	}
}

func (r *Resolver) reportErr(tok token.Token, msg string) {
	r.hadErr = true
	if r.onErr != nil {
		r.onErr(tok, msg)
	}
}
