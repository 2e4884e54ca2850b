// Command pcpsolve searches for solutions to Post Correspondence Problem
// instances.
//
//	pcpsolve --max-depth 10 "a/baa ab/aa bba/bb"
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the root command and returns the process exit code. Signal
// handling is released before the caller exits.
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
