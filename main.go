// termchat - a terminal TCP chat client/listener.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"termchat/cmd"
	ncerr "termchat/internal/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := cmd.Execute(ctx, os.Args[1:])
	switch {
	case err == nil:
	case errors.Is(err, ncerr.ErrInterrupted), errors.Is(err, context.Canceled):
		fmt.Fprintf(os.Stderr, "termchat: interrupted: %v\n", err)
		cancel()
		os.Exit(130)
	default:
		fmt.Fprintf(os.Stderr, "termchat: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
