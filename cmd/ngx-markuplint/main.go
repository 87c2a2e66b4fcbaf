package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
)

// Build information, set by goreleaser at build time.
var (
	version = "dev"
	commit  = ""
	date    = ""
)

// errFindings makes the process exit with status 1 without printing an
// error; the report already said everything.
var errFindings = errors.New("findings reported")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, errFindings) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
