package core

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"termchat/config"
	ncerr "termchat/internal/errors"
	"termchat/internal/transport"
	"termchat/util"
)

// TestBuild_Chat verifies that Build produces a ChatMode with a direct
// TCP dialer by default.
func TestBuild_Chat(t *testing.T) {
	cfg := config.Default()
	logger := util.NewLogger(0)

	mode, err := Build(cfg, logger)
	if err != nil {
		t.Fatal(err)
	}
	chat, ok := mode.(*ChatMode)
	if !ok {
		t.Fatalf("expected *ChatMode, got %T", mode)
	}
	tcp, ok := chat.Dialer.(*transport.TCPDialer)
	if !ok {
		t.Fatalf("expected *transport.TCPDialer, got %T", chat.Dialer)
	}
	if tcp.Timeout != config.DefaultDialTimeout {
		t.Errorf("dial timeout = %v", tcp.Timeout)
	}
	if chat.Retry.MaxAttempts() != 1 {
		t.Errorf("default policy should not retry, got %d attempts", chat.Retry.MaxAttempts())
	}
	if chat.BindAddress != config.DefaultBindAddress {
		t.Errorf("BindAddress = %q", chat.BindAddress)
	}
}

// TestBuild_Tunnel verifies that -T selects the SSH dialer.
func TestBuild_Tunnel(t *testing.T) {
	cfg := config.Default()
	cfg.TunnelSpec = "admin@bastion:2222"
	if err := cfg.ApplyTunnelSpec(); err != nil {
		t.Fatal(err)
	}

	mode, err := Build(cfg, util.NewLogger(0))
	if err != nil {
		t.Fatal(err)
	}
	chat := mode.(*ChatMode)
	if _, ok := chat.Dialer.(*transport.SSHDialer); !ok {
		t.Errorf("expected *transport.SSHDialer, got %T", chat.Dialer)
	}

	sc := sshConfig(cfg)
	if sc.User != "admin" || sc.Host != "bastion" || sc.Port != 2222 {
		t.Errorf("ssh config = %+v", sc)
	}
}

func TestBuild_Retry(t *testing.T) {
	cfg := config.Default()
	cfg.RetryAttempts = 4
	cfg.RetryDelay = 250 * time.Millisecond

	p := buildRetry(cfg)
	if p.MaxAttempts() != 4 {
		t.Errorf("attempts = %d, want 4", p.MaxAttempts())
	}
	if p.Delay != 250*time.Millisecond {
		t.Errorf("delay = %v", p.Delay)
	}
}

// TestBuild_DryRun verifies Build produces a PlanMode.
func TestBuild_DryRun(t *testing.T) {
	cfg := config.Default()
	cfg.DryRun = true

	mode, err := Build(cfg, util.NewLogger(0))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := mode.(*PlanMode); !ok {
		t.Errorf("expected *PlanMode, got %T", mode)
	}
}

func TestPlanMode_Run(t *testing.T) {
	cfg := config.Default()
	cfg.TunnelSpec = "ops@jump"
	if err := cfg.ApplyTunnelSpec(); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := (&PlanMode{Config: cfg, Out: &out}).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"0.0.0.0:8080", "2m0s", "ssh ops@jump:22", "discarded"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("plan output missing %q:\n%s", want, out.String())
		}
	}
}

// TestChatMode_NotTerminal verifies Run refuses a non-tty stdin.
func TestChatMode_NotTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	mode := buildChat(config.Default(), util.NewLogger(0))
	mode.Stdin = r
	mode.Stdout = w

	err = mode.Run(context.Background())
	if !errors.Is(err, ncerr.ErrNotTerminal) {
		t.Fatalf("err = %v, want ErrNotTerminal", err)
	}
}

// failingConnector fails its setup step.
type failingConnector struct {
	err    error
	closed bool
}

func (f *failingConnector) Connect(context.Context) error { return f.err }

func (f *failingConnector) Dial(context.Context, string, string) (net.Conn, error) {
	return nil, f.err
}

func (f *failingConnector) Close() error {
	f.closed = true
	return nil
}

// TestChatMode_TunnelFailure verifies the tunnel is set up before the
// terminal is touched, and the dialer is closed afterwards.
func TestChatMode_TunnelFailure(t *testing.T) {
	boom := errors.New("handshake failed")
	fc := &failingConnector{err: boom}

	mode := buildChat(config.Default(), util.NewLogger(0))
	mode.Dialer = fc

	err := mode.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if !fc.closed {
		t.Error("dialer was not closed")
	}
}
