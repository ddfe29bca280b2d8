//go:build windows

package ui

import (
	"context"
	"time"
)

const resizePollInterval = 250 * time.Millisecond

// WatchResize sends the current size, then polls for changes, until ctx
// is done.
func (in *Input) WatchResize(ctx context.Context, size func() (int, int, error)) {
	w, h := in.sendSize(size)
	go func() {
		ticker := time.NewTicker(resizePollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-in.stop:
				return
			case <-ticker.C:
				nw, nh, err := size()
				if err != nil || (nw == w && nh == h) {
					continue
				}
				w, h = nw, nh
				in.Send(ResizeEvent{Width: w, Height: h})
			}
		}
	}()
}
