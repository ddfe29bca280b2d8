// Package transport opens the sockets a chat session uses: outbound
// dials, either direct or through an SSH jump host, and the local
// listening socket.
package transport

import (
	"context"
	"net"
)

// Dialer opens outbound network connections.  Implementations are a
// plain TCP dialer and an SSH-tunnelled dialer that routes traffic
// through an encrypted gateway.
type Dialer interface {
	// Dial establishes a connection to the given network address.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases any long-lived resources held by the dialer
	// (e.g. an SSH session).  Stateless dialers return nil.
	Close() error
}

// Listen binds a TCP listening socket on address.  An address with
// port 0 gets an ephemeral port; read it back from Addr().
func Listen(ctx context.Context, address string) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(ctx, "tcp", address)
}
