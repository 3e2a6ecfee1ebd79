package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"

	"github.com/KimNorgaard/go-toon/cmd/toon/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := commands.NewApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(ctx, os.Args); err != nil {
		code := 2
		if errors.Is(err, commands.ErrInvalid) {
			code = 1
		}
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(code)
	}
}
