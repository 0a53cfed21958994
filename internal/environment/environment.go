// Package environment implements the scope chain: a linked list of
// variable maps, each pointing at its enclosing scope. Lookups, in
// REDESIGN FLAG 1's terms, are O(1) dictionary accesses at a known
// depth rather than a walk guided by identity, once the resolver has
// annotated a reference with how many links to follow.
package environment

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// Environment holds one scope's bindings and a pointer to its
// enclosing scope (nil at the global scope). It stores values as `any`
// rather than importing internal/value, so that internal/value can in
// turn hold a *Environment (a function's closure) without an import
// cycle; internal/interp, which depends on both, does the narrowing.
type Environment struct {
	enclosing *Environment
	values    *swiss.Map[string, any]
}

// New creates a scope enclosed by parent. Pass nil for the global
// scope.
func New(parent *Environment) *Environment {
	return &Environment{enclosing: parent, values: swiss.NewMap[string, any](8)}
}

// Define binds name in this scope, shadowing any binding of the same
// name in an enclosing scope. Re-defining an existing name in the same
// scope is allowed (spec.md §4.4), unlike the resolver's stricter
// compile-time check on `var`.
func (e *Environment) Define(name string, v any) {
	e.values.Put(name, v)
}

// Get looks up name starting in this scope and walking outward,
// returning ok=false if no enclosing scope defines it.
func (e *Environment) Get(name string) (any, bool) {
	if v, ok := e.values.Get(name); ok {
		return v, true
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}
	return nil, false
}

// Assign updates an existing binding of name, walking outward to find
// it, and reports ok=false if no scope defines it (assignment, unlike
// Define, never creates a new binding).
func (e *Environment) Assign(name string, v any) bool {
	if _, ok := e.values.Get(name); ok {
		e.values.Put(name, v)
		return true
	}
	if e.enclosing != nil {
		return e.enclosing.Assign(name, v)
	}
	return false
}

// Ancestor walks exactly depth links outward. It panics on a
// depth the resolver could not have produced, since that indicates a
// bug in resolution rather than a user error.
func (e *Environment) Ancestor(depth int) *Environment {
	env := e
	for i := 0; i < depth; i++ {
		if env.enclosing == nil {
			panic(fmt.Sprintf("environment: ancestor depth %d exceeds scope chain", depth))
		}
		env = env.enclosing
	}
	return env
}

// GetAt reads name from the scope exactly depth links outward, per the
// resolver's side-table (REDESIGN FLAG 1): no identity-based walk, just
// an indexed hop followed by a direct map access.
func (e *Environment) GetAt(depth int, name string) (any, bool) {
	return e.Ancestor(depth).values.Get(name)
}

// AssignAt writes name in the scope exactly depth links outward.
func (e *Environment) AssignAt(depth int, name string, v any) {
	e.Ancestor(depth).values.Put(name, v)
}
