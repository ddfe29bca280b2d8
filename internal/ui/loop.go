package ui

import (
	"context"
	"fmt"
	"time"

	"termchat/internal/session"
	"termchat/util"
)

// Loop is the foreground render loop.  Each tick it picks up a finished
// dial, paints, waits briefly for one input event and dispatches it.
type Loop struct {
	Session      *session.Session
	Router       *Router
	Source       EventSource
	Painter      *Painter
	PollInterval time.Duration
	TickDelay    time.Duration
	Logger       *util.Logger
}

// Run drives the UI until the router asks to quit, input fails, or ctx
// is done.  It always returns a non-nil error; the caller restores the
// terminal.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if l.Session.PollConnect() {
			l.Logger.Debug("session state changed: %s", StatusOf(l.Session).Label)
		}

		if err := l.draw(); err != nil {
			return fmt.Errorf("draw: %w", err)
		}

		ev, err := l.Source.Poll(ctx, l.PollInterval)
		if err != nil {
			return fmt.Errorf("input: %w", err)
		}
		if ev != nil {
			if err := l.Router.Handle(ev); err != nil {
				return err
			}
		}

		if err := sleep(ctx, l.TickDelay); err != nil {
			return err
		}
	}
}

func (l *Loop) draw() error {
	if l.Router.TakeRedraw() {
		l.Painter.Clear()
	}
	w, h := l.Router.Viewport()
	return l.Painter.Draw(View{
		Status: StatusOf(l.Session),
		Mode:   l.Router.Mode(),
		Buffer: l.Router.Buffer(),
		Width:  w,
		Height: h,
	})
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
