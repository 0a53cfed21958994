package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/sdecook/loxi/internal/report"
)

const historyFile = ".loxi_history"

// runPrompt is the interactive read-eval-print loop: it reads one line
// at a time, runs it through the full pipeline, and clears the error
// flag before the next line (spec.md §6), so a typo in one line never
// poisons the rest of the session. Grounded on
// original_source/lox/repl.py's run_prompt, adapted to Go's
// chzyer/readline for line editing and persistent history.
func runPrompt() {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		HistoryLimit:    1000,
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer rl.Close()

	reporter := report.NewConsole(os.Stderr, colorSupported())
	fmt.Println(color.CyanString("loxi"))

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		execute(line, reporter, true, os.Stdout)
	}
}

func colorSupported() bool {
	return os.Getenv("NO_COLOR") == "" && color.NoColor == false
}
