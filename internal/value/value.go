// Package value defines the runtime value model shared by the
// environment and the interpreter: nil, booleans, numbers, strings, and
// the three flavors of callable (user function, native function, class)
// plus instances.
package value

import (
	"fmt"
	"strconv"
)

// Value is any runtime value the interpreter can produce or consume.
// There is no closed interface here (unlike ast.Expr/ast.Stmt) because
// Go's `any` already gives every caller exhaustive, cheap type-switches,
// matching the teacher's object.go's reliance on type assertions
// (IsNumber, IsString, ...) rather than a tag method.
type Value any

// Number, String, and Bool are Go's own float64/string/bool used
// directly as Values — there is no wrapper type, unlike the teacher's
// LoxNumber/LoxString/LoxBool structs, since Go's native types already
// carry the right identity/equality semantics spec.md §4.5 wants
// (numbers compared as doubles, strings by content, booleans by bit).

// IsTruthy implements spec.md §4.5: nil and false are falsy, everything
// else - including 0 and "" - is truthy.
func IsTruthy(v Value) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// Equal implements spec.md's `==`: nil equals nil, otherwise value
// equality within a type and false across types.
func Equal(a, b Value) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		// Callables and instances compare by identity (pointer equality).
		return a == b
	}
}

// Stringify renders v the way `print` and error messages display values
// (spec.md §4.5).
func Stringify(v Value) string {
	switch tv := v.(type) {
	case nil:
		return "nil"
	case bool:
		if tv {
			return "true"
		}
		return "false"
	case float64:
		// Shortest round-trip representation, per spec.md §9(b).
		return strconv.FormatFloat(tv, 'g', -1, 64)
	case string:
		return tv
	case fmt.Stringer:
		return tv.String()
	default:
		return fmt.Sprintf("%v", tv)
	}
}
