// Package session owns the one network resource a chat session may hold
// at a time (a listening socket or an established connection) and the
// background dial that may produce it.
package session

import (
	"net"
)

// Connection is the session's current network resource.  It is exactly
// one of [None], [Listening] or [Connected]; switch on the concrete type.
type Connection interface {
	connection()
}

// None means the session holds no socket.
type None struct{}

// Listening holds a bound listening socket.
type Listening struct {
	Listener net.Listener
}

// Connected holds an established stream to a peer.
type Connected struct {
	Conn net.Conn
}

func (None) connection()      {}
func (Listening) connection() {}
func (Connected) connection() {}

// Addr returns the bound address, including an assigned ephemeral port.
func (l Listening) Addr() net.Addr { return l.Listener.Addr() }

// PeerAddr returns the remote end of the stream.
func (c Connected) PeerAddr() net.Addr { return c.Conn.RemoteAddr() }

// LocalAddr returns the local end of the stream.
func (c Connected) LocalAddr() net.Addr { return c.Conn.LocalAddr() }

// IsNone reports whether conn holds no socket.  A nil Connection counts
// as None.
func IsNone(conn Connection) bool {
	switch conn.(type) {
	case nil, None:
		return true
	default:
		return false
	}
}

// release closes the socket held by conn, if any.
func release(conn Connection) error {
	switch c := conn.(type) {
	case Listening:
		return c.Listener.Close()
	case Connected:
		return c.Conn.Close()
	case None, nil:
		return nil
	default:
		panic("session: unknown connection variant")
	}
}
