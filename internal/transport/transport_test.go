package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ncerr "termchat/internal/errors"
	"termchat/tunnel"
	"termchat/util"
)

// TestTCPDialer_Connect verifies that TCPDialer can reach a local
// TCP server and exchange data.
func TestTCPDialer_Connect(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write([]byte("hello from server\n")) //nolint:errcheck
	}()

	d := &TCPDialer{Timeout: 2 * time.Second}
	conn, err := d.Dial(context.Background(), "tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	buf := make([]byte, 256)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		t.Fatalf("read: %v", err)
	}
	assert.Equal(t, "hello from server\n", string(buf[:n]))
}

// TestTCPDialer_ContextCancel verifies that a cancelled context stops the dial.
func TestTCPDialer_ContextCancel(t *testing.T) {
	d := &TCPDialer{Timeout: 5 * time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Dial(ctx, "tcp", "127.0.0.1:1")
	require.Error(t, err)
	assert.Equal(t, ncerr.KindCancelled, ncerr.ClassifyConnect(err))
}

func TestTCPDialer_Refused(t *testing.T) {
	port, err := util.FindFreePort()
	require.NoError(t, err)

	d := &TCPDialer{Timeout: 2 * time.Second}
	_, err = d.Dial(context.Background(), "tcp", util.FormatAddr("127.0.0.1", port))
	require.Error(t, err)
	assert.Equal(t, ncerr.KindRefused, ncerr.ClassifyConnect(err))
}

// TestTCPDialer_Close verifies Close is a no-op and returns nil.
func TestTCPDialer_Close(t *testing.T) {
	d := &TCPDialer{}
	assert.NoError(t, d.Close())
}

func TestListen_EphemeralPort(t *testing.T) {
	ln, err := Listen(context.Background(), "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	addr, ok := ln.Addr().(*net.TCPAddr)
	require.True(t, ok)
	assert.NotZero(t, addr.Port)
}

func TestListen_AddrInUse(t *testing.T) {
	first, err := Listen(context.Background(), "127.0.0.1:0")
	require.NoError(t, err)
	defer first.Close()

	_, err = Listen(context.Background(), first.Addr().String())
	require.Error(t, err)
	assert.Equal(t, ncerr.KindAddrInUse, ncerr.ClassifyBind(err))
}

// fakeTunnel records calls so SSHDialer can be tested without a server.
type fakeTunnel struct {
	connects int
	alive    bool
	connErr  error
	closed   bool
}

func (f *fakeTunnel) Connect(context.Context) error {
	f.connects++
	if f.connErr != nil {
		return f.connErr
	}
	f.alive = true
	return nil
}

func (f *fakeTunnel) Dial(_ context.Context, _, address string) (net.Conn, error) {
	c1, c2 := net.Pipe()
	c2.Close()
	return c1, nil
}

func (f *fakeTunnel) Close() error {
	f.closed = true
	f.alive = false
	return nil
}

func (f *fakeTunnel) IsAlive() bool { return f.alive }

func newTestSSHDialer(ft *fakeTunnel) *SSHDialer {
	logger := util.NewLogger(0)
	logger.SetOutput(io.Discard)
	return &SSHDialer{
		tunnel: ft,
		config: &tunnel.SSHConfig{User: "u", Host: "bastion", Port: 22},
		logger: logger,
	}
}

func TestSSHDialer_ConnectOnce(t *testing.T) {
	ft := &fakeTunnel{}
	d := newTestSSHDialer(ft)

	require.NoError(t, d.Connect(context.Background()))
	require.NoError(t, d.Connect(context.Background()))
	assert.Equal(t, 1, ft.connects)

	conn, err := d.Dial(context.Background(), "tcp", "10.0.0.1:80")
	require.NoError(t, err)
	conn.Close()
	assert.Equal(t, 1, ft.connects)

	require.NoError(t, d.Close())
	assert.True(t, ft.closed)
}

func TestSSHDialer_ReconnectsDeadTunnel(t *testing.T) {
	ft := &fakeTunnel{}
	d := newTestSSHDialer(ft)

	require.NoError(t, d.Connect(context.Background()))
	ft.alive = false
	require.NoError(t, d.Connect(context.Background()))
	assert.Equal(t, 2, ft.connects)
}

func TestSSHDialer_ConnectError(t *testing.T) {
	boom := errors.New("handshake failed")
	d := newTestSSHDialer(&fakeTunnel{connErr: boom})

	_, err := d.Dial(context.Background(), "tcp", "10.0.0.1:80")
	assert.ErrorIs(t, err, boom)
}
