package remk

import (
	"fmt"
	"os"

	"mvdan.cc/sh/v3/shell"
)

// Split turns a shell-style command line into an argument vector suitable
// for [Scope.Start] and [Scope.Run]. Quoting follows POSIX shell word
// splitting and $VAR references expand from the process environment.
func Split(cmdline string) ([]string, error) {
	return shell.Fields(cmdline, os.Getenv)
}

// Splitf is [Split] of a Sprintf-formatted command line.
func Splitf(format string, a ...any) ([]string, error) {
	return Split(fmt.Sprintf(format, a...))
}

// Sh runs cmdline synchronously in sc and returns its exit status. A command
// line that does not split, or does not spawn, yields -1 with an error trace.
func Sh(sc *Scope, cmdline string) int {
	argv, err := Split(cmdline)
	if err != nil || len(argv) == 0 {
		sc.Tracer().Error(ctxNameOf(sc), "cannot split `cmdline` with `error`",
			"cmdline", cmdline,
			"error", err,
		)
		return -1
	}
	return sc.Run(argv...)
}

// Shb spawns cmdline in the background, joined when the current context or
// sync block is left.
func Shb(sc *Scope, cmdline string) {
	argv, err := Split(cmdline)
	if err != nil || len(argv) == 0 {
		sc.Tracer().Error(ctxNameOf(sc), "cannot split `cmdline` with `error`",
			"cmdline", cmdline,
			"error", err,
		)
		return
	}
	sc.Start(argv...)
}

func ctxNameOf(sc *Scope) string {
	if c := sc.Active(); c != nil {
		return c.Name
	}
	return ""
}
