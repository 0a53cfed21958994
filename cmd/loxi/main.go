// Command loxi is the loxi language's interpreter: run it with no
// arguments for an interactive prompt, or with a single file argument
// to execute a script.
package main

import (
	"fmt"
	"os"

	"github.com/sdecook/loxi/internal/interp"
	"github.com/sdecook/loxi/internal/lexer"
	"github.com/sdecook/loxi/internal/parser"
	"github.com/sdecook/loxi/internal/report"
	"github.com/sdecook/loxi/internal/resolver"
	"github.com/sdecook/loxi/internal/token"
)

func main() {
	switch len(os.Args) {
	case 1:
		runPrompt()
	case 2:
		runFile(os.Args[1])
	default:
		fmt.Fprintln(os.Stderr, "Usage: loxi [script]")
		os.Exit(64)
	}
}

func runFile(path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	reporter := report.NewConsole(os.Stderr, colorSupported())
	hadError, hadRuntimeError := execute(string(src), reporter, false, os.Stdout)
	if hadError {
		os.Exit(65)
	}
	if hadRuntimeError {
		os.Exit(70)
	}
}

// execute runs one chunk of source through the full pipeline -
// lexer, parser, resolver, interpreter - reporting every diagnostic it
// finds along the way (spec.md §7's "report, then continue to find
// more" policy for lexical/parse/resolution errors).
func execute(src string, reporter *report.Console, isREPL bool, out *os.File) (hadError, hadRuntimeError bool) {
	lx := lexer.New([]byte(src), func(line int, msg string) {
		reporter.Line(line, msg)
	})
	tokens := lx.Scan()
	if lx.HadError() {
		hadError = true
	}

	p := parser.New(tokens, func(tok token.Token, msg string) {
		reporter.Token(tok, msg)
	})

	parsed := p.Parse()
	if p.HadError() {
		hadError = true
	}
	if hadError {
		return true, false
	}

	r := resolver.New(func(tok token.Token, msg string) {
		reporter.Token(tok, msg)
	})
	locals := r.Resolve(parsed)
	if r.HadError() {
		return true, false
	}

	in := interp.New(out, isREPL)
	if err := in.Interpret(parsed, locals); err != nil {
		if rte, ok := err.(*interp.RuntimeError); ok {
			reporter.Runtime(rte.Token, rte.Msg)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return false, true
	}
	return false, false
}
