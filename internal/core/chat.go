package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"termchat/internal/metrics"
	"termchat/internal/retry"
	"termchat/internal/session"
	"termchat/internal/transport"
	"termchat/internal/ui"
	"termchat/util"
)

// connector is a dialer with an explicit setup step, such as an SSH
// tunnel that may prompt for credentials.
type connector interface {
	Connect(ctx context.Context) error
}

// ChatMode runs the interactive status-bar UI.
type ChatMode struct {
	Dialer       transport.Dialer
	Retry        *retry.Policy
	DialTimeout  time.Duration
	BindAddress  string
	Resolve      bool
	PollInterval time.Duration
	TickDelay    time.Duration
	NoColor      bool
	Stdin        *os.File
	Stdout       *os.File
	Logger       *util.Logger
	Metrics      *metrics.Collector
}

// Run sets up the dialer, takes over the terminal and runs the render
// loop until the user quits or ctx is cancelled.  The terminal is
// restored before Run returns.
func (m *ChatMode) Run(ctx context.Context) error {
	defer m.Dialer.Close()

	// Prompts for SSH credentials need a cooked terminal.
	if c, ok := m.Dialer.(connector); ok {
		if err := c.Connect(ctx); err != nil {
			return fmt.Errorf("tunnel: %w", err)
		}
	}

	term, err := ui.OpenTerminal(m.Stdin, m.Stdout)
	if err != nil {
		return err
	}
	defer term.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess := session.New(ctx, &session.Dialer{
		Transport: m.Dialer,
		Timeout:   m.DialTimeout,
		Retry:     m.Retry,
		Logger:    m.Logger,
		Metrics:   m.Metrics,
	}, m.Logger, m.Metrics)
	defer sess.Close()

	// The background query reads its reply from stdin; finish it before
	// the input reader starts.
	painter := ui.NewPainter(m.Stdout, m.NoColor, m.NoColor || term.HasDarkBackground())

	in := ui.NewInput(m.Stdin)
	defer in.Close()
	in.WatchResize(ctx, term.Size)

	loop := &ui.Loop{
		Session: sess,
		Router: ui.NewRouter(sess, ui.RouterOptions{
			BindAddress:    m.BindAddress,
			AllowHostnames: m.Resolve,
			Logger:         m.Logger,
		}),
		Source:       in,
		Painter:      painter,
		PollInterval: m.PollInterval,
		TickDelay:    m.TickDelay,
		Logger:       m.Logger,
	}

	m.Logger.Verbose("ui started (bind %s)", m.BindAddress)
	err = loop.Run(ctx)
	m.Logger.Verbose("session metrics: %s", m.Metrics.JSON())
	return err
}
