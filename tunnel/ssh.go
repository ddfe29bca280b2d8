package tunnel

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	ncerr "termchat/internal/errors"
	"termchat/util"
)

// SSHConfig holds everything needed to reach the jump host.
type SSHConfig struct {
	User          string
	Host          string
	Port          int
	KeyPath       string
	PromptPass    bool
	UseAgent      bool
	StrictHostKey bool
	KnownHosts    string
	ConnTimeout   time.Duration

	// Prompt reads a secret (password or key passphrase) after showing
	// label.  Nil means read from the controlling terminal.
	Prompt func(label string) ([]byte, error)
}

// SSHTunnel implements [Tunnel] by opening an SSH client connection and
// forwarding dials with ssh.Client.DialContext.
type SSHTunnel struct {
	config *SSHConfig
	client *ssh.Client
	logger *util.Logger
	mu     sync.RWMutex
	alive  bool
}

// NewSSHTunnel creates a tunnel that is ready to [Connect].
func NewSSHTunnel(cfg *SSHConfig, logger *util.Logger) *SSHTunnel {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.ConnTimeout == 0 {
		cfg.ConnTimeout = 30 * time.Second
	}
	return &SSHTunnel{config: cfg, logger: logger}
}

// Addr returns the jump host as host:port.
func (t *SSHTunnel) Addr() string {
	return util.FormatAddr(t.config.Host, t.config.Port)
}

// Connect dials the jump host and completes the handshake.  Any
// interactive prompts happen here, so call it before the terminal is
// switched to raw mode.  Cancelling ctx aborts a handshake in progress.
func (t *SSHTunnel) Connect(ctx context.Context) error {
	clientCfg, err := t.clientConfig()
	if err != nil {
		return err
	}

	addr := t.Addr()
	t.logger.Debug("ssh: dialing %s as %s", addr, t.config.User)

	client, err := t.handshake(ctx, addr, clientCfg)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.client = client
	t.alive = true
	t.mu.Unlock()

	go t.monitor(client)

	t.logger.Verbose("ssh: tunnel to %s established", addr)
	return nil
}

func (t *SSHTunnel) clientConfig() (*ssh.ClientConfig, error) {
	authMethods, err := BuildAuthMethods(t.config)
	if err != nil {
		return nil, ncerr.WrapSSH("auth", t.config.Host, t.config.Port, err)
	}
	hkCallback, err := hostKeyCallback(t.config)
	if err != nil {
		return nil, ncerr.WrapSSH("hostkey", t.config.Host, t.config.Port, err)
	}
	return &ssh.ClientConfig{
		User:            t.config.User,
		Auth:            authMethods,
		HostKeyCallback: hkCallback,
		Timeout:         t.config.ConnTimeout,
	}, nil
}

// handshake opens the TCP connection and runs the SSH handshake, both
// bounded by ConnTimeout and ctx.
func (t *SSHTunnel) handshake(ctx context.Context, addr string, cfg *ssh.ClientConfig) (*ssh.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, t.config.ConnTimeout)
	defer cancel()

	var dialer net.Dialer
	tcpConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, ncerr.WrapSSH("dial", t.config.Host, t.config.Port, err)
	}

	// ssh.NewClientConn has no context; unblock it by closing the socket.
	stop := context.AfterFunc(ctx, func() { tcpConn.Close() })
	sshConn, chans, reqs, err := ssh.NewClientConn(tcpConn, addr, cfg)
	if !stop() {
		if err == nil {
			sshConn.Close()
		}
		return nil, ncerr.WrapSSH("handshake", t.config.Host, t.config.Port, ctx.Err())
	}
	if err != nil {
		tcpConn.Close()
		return nil, ncerr.WrapSSH("handshake", t.config.Host, t.config.Port, err)
	}
	return ssh.NewClient(sshConn, chans, reqs), nil
}

// Dial forwards a connection through the tunnel.  Cancelling ctx aborts
// a forward that is still being set up.
func (t *SSHTunnel) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	t.mu.RLock()
	client := t.client
	alive := t.alive
	t.mu.RUnlock()

	if !alive || client == nil {
		return nil, ncerr.ErrTunnelClosed
	}

	t.logger.Debug("ssh: forwarding %s %s", network, address)
	conn, err := client.DialContext(ctx, network, address)
	if err != nil {
		return nil, fmt.Errorf("tunnel dial %s: %w", address, err)
	}
	return conn, nil
}

// Close shuts down the SSH connection.
func (t *SSHTunnel) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.alive = false
	if t.client != nil {
		err := t.client.Close()
		t.client = nil
		return err
	}
	return nil
}

// IsAlive reports whether the tunnel is still connected.
func (t *SSHTunnel) IsAlive() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.alive
}

// monitor blocks until the SSH connection closes and flips the alive flag.
func (t *SSHTunnel) monitor(client *ssh.Client) {
	err := client.Wait()

	t.mu.Lock()
	if t.client == client {
		t.alive = false
	}
	t.mu.Unlock()

	if err != nil {
		t.logger.Warn("ssh: tunnel to %s closed: %v", t.Addr(), err)
	} else {
		t.logger.Verbose("ssh: tunnel to %s closed", t.Addr())
	}
}
