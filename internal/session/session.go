package session

import (
	"context"
	"errors"
	"net"
	"time"

	ncerr "termchat/internal/errors"
	"termchat/internal/metrics"
	"termchat/internal/transport"
	"termchat/util"
)

// Session is the connection state of one chat client.  It holds at most
// one of: a pending dial, a listening socket, an established connection.
//
// A Session is not safe for concurrent use; the render loop owns it.
type Session struct {
	ctx     context.Context
	dialer  *Dialer
	logger  *util.Logger
	metrics *metrics.Collector

	conn    Connection
	pending *PendingDial

	lastBindErr *ncerr.BindError
	lastDialErr *ncerr.ConnectError
}

// New creates a session with no connection.  ctx bounds every dial the
// session starts.
func New(ctx context.Context, dialer *Dialer, logger *util.Logger, m *metrics.Collector) *Session {
	return &Session{
		ctx:     ctx,
		dialer:  dialer,
		logger:  logger,
		metrics: m,
		conn:    None{},
	}
}

// Connection returns the current network resource.
func (s *Session) Connection() Connection { return s.conn }

// Pending returns the in-flight dial, or nil.
func (s *Session) Pending() *PendingDial { return s.pending }

// LastBindError returns the failure of the most recent Listen, if it
// failed and nothing has happened since.
func (s *Session) LastBindError() *ncerr.BindError { return s.lastBindErr }

// LastDialError returns the failure of the most recent dial, if it
// failed and nothing has happened since.
func (s *Session) LastDialError() *ncerr.ConnectError { return s.lastDialErr }

// busy returns the state error for starting something new, or nil.
func (s *Session) busy() error {
	if s.pending != nil {
		return ncerr.ErrDialPending
	}
	if !IsNone(s.conn) {
		return ncerr.ErrAlreadyConnected
	}
	return nil
}

// Listen binds a listening socket on bindAddr.  A bind failure is
// remembered for display and returned as *errors.BindError; the session
// keeps its previous state.
func (s *Session) Listen(bindAddr string) error {
	if err := s.busy(); err != nil {
		return err
	}

	ln, err := transport.Listen(s.ctx, bindAddr)
	if err != nil {
		be := ncerr.WrapBind(bindAddr, err)
		s.lastBindErr = be
		s.lastDialErr = nil
		s.metrics.BindFailed(be.Error())
		s.logger.Warn("listen %s: %v", bindAddr, err)
		return be
	}

	s.conn = Listening{Listener: ln}
	s.lastBindErr = nil
	s.lastDialErr = nil
	s.metrics.ListenerOpened()
	s.logger.Verbose("listening on %s", ln.Addr())
	return nil
}

// BeginConnect starts a background dial to target.  The result is picked
// up by a later PollConnect.
func (s *Session) BeginConnect(target string) error {
	if err := s.busy(); err != nil {
		return err
	}
	s.pending = s.dialer.Begin(s.ctx, target)
	s.lastBindErr = nil
	s.lastDialErr = nil
	return nil
}

// PollConnect checks the pending dial without blocking.  It reports
// whether the session state changed.
func (s *Session) PollConnect() bool {
	if s.pending == nil {
		return false
	}
	res, ok := s.pending.Poll()
	if !ok {
		return false
	}
	p := s.pending
	s.pending = nil

	if res.Err != nil {
		var ce *ncerr.ConnectError
		if !errors.As(res.Err, &ce) {
			ce = ncerr.WrapConnect(p.Target, res.Err)
		}
		s.lastDialErr = ce
		s.metrics.DialFailed(ce.Error())
		s.logger.Warn("dial %s: %v", p.ID, ce)
		return true
	}

	s.conn = Connected{Conn: res.Value}
	elapsed := time.Since(p.Started)
	s.metrics.DialSucceeded(elapsed)
	s.logger.Verbose("dial %s: connected to %s in %s", p.ID, res.Value.RemoteAddr(), elapsed.Round(time.Millisecond))
	return true
}

// Disconnect cancels a pending dial, or closes the listening socket or
// connection.  With nothing to tear down it returns errors.ErrNotConnected.
func (s *Session) Disconnect() error {
	if p := s.pending; p != nil {
		s.pending = nil
		p.Abandon()
		s.metrics.DialCancelled()
		s.logger.Verbose("dial %s: cancelled", p.ID)
		return nil
	}
	if IsNone(s.conn) {
		return ncerr.ErrNotConnected
	}

	err := release(s.conn)
	s.conn = None{}
	s.metrics.Disconnected()
	s.logger.Verbose("disconnected")
	return err
}

// Redial starts a new dial to the target of the last failed dial.
func (s *Session) Redial() error {
	if s.lastDialErr == nil {
		return ncerr.ErrNothingToRetry
	}
	return s.BeginConnect(s.lastDialErr.Addr)
}

// Close releases everything the session holds.  A pending dial is
// cancelled and its late connection, if any, is closed.
func (s *Session) Close() error {
	err := s.Disconnect()
	if errors.Is(err, ncerr.ErrNotConnected) {
		return nil
	}
	return err
}

// Describe returns the address to show for the current state: the bound
// address, the peer, or the dial target.
func (s *Session) Describe() string {
	if s.pending != nil {
		return s.pending.Target
	}
	switch c := s.conn.(type) {
	case Listening:
		return addrString(c.Addr())
	case Connected:
		return addrString(c.PeerAddr())
	default:
		return ""
	}
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
