package interp

import (
	"fmt"

	"github.com/sdecook/loxi/internal/token"
	"github.com/sdecook/loxi/internal/value"
)

// RuntimeError is a Lox-level runtime error: a type mismatch, an
// undefined property, a call to a non-callable, an arity mismatch.
// Per REDESIGN FLAG 2, this is an ordinary Go error returned up the
// call stack - interpretation never panics or calls os.Exit internally,
// grounded on other_examples/.../letung3105-lox's newRuntimeError +
// (interface{}, error) convention.
type RuntimeError struct {
	Token token.Token
	Msg   string
}

func (e *RuntimeError) Error() string { return e.Msg }

func newRuntimeError(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Msg: fmt.Sprintf(format, args...)}
}

// controlReturn carries a `return` statement's value up through exec,
// using Go's error-return channel rather than a panic/recover unwind
// (REDESIGN FLAG 2) or the teacher's `(retVal Object, ret bool)`
// sentinel pair. executeBlock passes it up unchanged; callFunction
// unwraps it once the function body has finished.
type controlReturn struct {
	value value.Value
}

func (c *controlReturn) Error() string { return "return outside of a function" }

// asControlReturn unwraps err if it is a controlReturn, distinguishing
// "the function returned a value" from "a genuine runtime error
// occurred" without an unrelated panic/recover dance.
func asControlReturn(err error) (*controlReturn, bool) {
	cr, ok := err.(*controlReturn)
	return cr, ok
}
