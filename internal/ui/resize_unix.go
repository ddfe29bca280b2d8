//go:build !windows

package ui

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WatchResize sends the current size, then a new ResizeEvent after
// every SIGWINCH, until ctx is done.
func (in *Input) WatchResize(ctx context.Context, size func() (int, int, error)) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGWINCH)

	in.sendSize(size)
	go func() {
		defer signal.Stop(sig)
		for {
			select {
			case <-ctx.Done():
				return
			case <-in.stop:
				return
			case <-sig:
				in.sendSize(size)
			}
		}
	}()
}
