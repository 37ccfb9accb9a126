// Command fluxactions resolves controller-actions fields declared in CUE specs.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fluidtypo3/fluxactions/internal/cli"
)

func main() {
	// A missing .env is fine; it only supplies defaults such as FLUXACTIONS_DB.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		// Subcommands report errors through their formatter; cobra prints the rest.
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
