// relmap resolves the relation graph of schema files and prints it.
//
// Usage:
//
//	relmap [flags] <schema file or dir>...
//
// Run "relmap -h" for the flag list. Every flag may also be set in the
// file given by -config or through RELMAP_* environment variables.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "relmap: %v\n", err)
		stop()
		os.Exit(1)
	}
}
