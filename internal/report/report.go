// Package report formats and writes the diagnostics produced by the
// lexer, parser, resolver, and interpreter: lexical errors carry a line
// number; parse, static and runtime errors carry the offending token.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/sdecook/loxi/internal/token"
)

// Reporter is how every stage of the pipeline surfaces a diagnostic to
// the user, in place of the teacher's free-standing `report()`
// function and direct os.Stderr writes.
type Reporter interface {
	Line(line int, message string)
	Token(tok token.Token, message string)
	Runtime(tok token.Token, message string)
}

// Console writes colorized diagnostics to w, in the "[line: N] Error:
// message" shape original_source/lox/lox.py's `report` produces.
// Colorization can be disabled for non-TTY output (redirected files,
// test harnesses).
type Console struct {
	w        io.Writer
	colorize bool
}

// NewConsole creates a Console reporter. Pass colorize=false when w is
// not a terminal (github.com/fatih/color already auto-detects this for
// its own global functions, but an explicit flag keeps Console
// testable without depending on that detection).
func NewConsole(w io.Writer, colorize bool) *Console {
	return &Console{w: w, colorize: colorize}
}

func (c *Console) label(s string) string {
	if !c.colorize {
		return s
	}
	return color.RedString(s)
}

// Line reports a lexer error, which has no associated token.
func (c *Console) Line(line int, message string) {
	fmt.Fprintf(c.w, "[line: %d] %s: %s\n", line, c.label("Error"), message)
}

// Token reports a parser or resolver error at tok.
func (c *Console) Token(tok token.Token, message string) {
	where := " at end"
	if tok.Type != token.EOF {
		where = fmt.Sprintf(" at '%s'", tok.Lexeme)
	}
	fmt.Fprintf(c.w, "[line: %d] %s%s: %s\n", tok.Line, c.label("Error"), where, message)
}

// Runtime reports an interpreter RuntimeError, in the "message\n[line:
// N]" shape original_source/lox/interpreter.py uses for uncaught
// runtime errors.
func (c *Console) Runtime(tok token.Token, message string) {
	fmt.Fprintf(c.w, "%s\n[line: %d]\n", message, tok.Line)
}
