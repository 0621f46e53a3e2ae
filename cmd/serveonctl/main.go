/*
Package main is the entry point for serveonctl.

Usage:

	serveonctl migrate
	serveonctl seed
	serveonctl export customers --q maria --filter cidade:equals:Curitiba
	serveonctl nav client
	serveonctl nav -i
	serveonctl browse countries
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"serveon_backend/internal/cli"
)

// Set via ldflags during build.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(cli.DefaultEnv(), version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
