package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "wordpredict",
		Usage: "Next-word candidate prediction backed by a hosted LLM",
		// A Lambda bootstrap is started without arguments.
		Action: runLambda,
		Commands: []*cli.Command{
			lambdaCmd(),
			serveCmd(),
			predictCmd(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
