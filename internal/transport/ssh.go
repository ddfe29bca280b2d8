package transport

import (
	"context"
	"net"
	"sync"

	"termchat/tunnel"
	"termchat/util"
)

// SSHDialer routes connections through an SSH tunnel.  Call Connect
// before the terminal enters raw mode so credential prompts still work;
// Dial connects lazily if that was skipped.
type SSHDialer struct {
	tunnel    tunnel.Tunnel
	config    *tunnel.SSHConfig
	logger    *util.Logger
	mu        sync.Mutex
	connected bool
}

// NewSSHDialer creates a dialer that forwards connections through an
// SSH tunnel described by cfg.
func NewSSHDialer(cfg *tunnel.SSHConfig, logger *util.Logger) *SSHDialer {
	return &SSHDialer{
		tunnel: tunnel.NewSSHTunnel(cfg, logger),
		config: cfg,
		logger: logger,
	}
}

// Connect establishes the SSH tunnel if it is not already up.  A tunnel
// that dropped since the last call is reconnected.
func (d *SSHDialer) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected && d.tunnel.IsAlive() {
		return nil
	}

	d.logger.Verbose("establishing SSH tunnel to %s@%s",
		d.config.User, util.FormatAddr(d.config.Host, d.config.Port))

	if err := d.tunnel.Connect(ctx); err != nil {
		return err
	}
	d.connected = true
	return nil
}

// Dial connects to address through the SSH tunnel.
func (d *SSHDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	if err := d.Connect(ctx); err != nil {
		return nil, err
	}
	return d.tunnel.Dial(ctx, network, address)
}

// Close tears down the underlying SSH tunnel.
func (d *SSHDialer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		d.connected = false
		return d.tunnel.Close()
	}
	return nil
}
