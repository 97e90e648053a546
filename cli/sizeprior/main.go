// Package main is the sizeprior command itself.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"go.viam.com/sizeprior/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.RunContext(ctx, os.Args); err != nil {
		//nolint:gocritic
		log.Fatal(err)
	}
}
