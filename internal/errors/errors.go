// Package errors provides domain-specific error types for termchat.
//
// These types carry structured context (operation, address, failure kind)
// so the UI can render a short status label and callers can decide whether
// a failure is worth retrying.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	ErrInterrupted      = errors.New("signal SIGINT (interrupt) hit (caused by CTRL-C)")
	ErrDialPending      = errors.New("a dial is already in progress")
	ErrAlreadyConnected = errors.New("session already has a connection")
	ErrNotConnected     = errors.New("not connected")
	ErrInvalidAddress   = errors.New("invalid address")
	ErrNotTerminal      = errors.New("stdin is not a terminal")
	ErrTunnelClosed     = errors.New("tunnel is closed")
	ErrNothingToRetry   = errors.New("no failed dial to retry")
)

// ── Failure kinds ────────────────────────────────────────────────────

// Kind classifies a network failure into something short enough to show
// in a status bar.
type Kind int

const (
	KindOther Kind = iota
	KindRefused
	KindTimeout
	KindUnreachable
	KindResolve
	KindCancelled
	KindAddrInUse
	KindPermission
	KindInvalidAddress
)

func (k Kind) String() string {
	switch k {
	case KindRefused:
		return "refused"
	case KindTimeout:
		return "timed out"
	case KindUnreachable:
		return "unreachable"
	case KindResolve:
		return "lookup failed"
	case KindCancelled:
		return "cancelled"
	case KindAddrInUse:
		return "address in use"
	case KindPermission:
		return "permission denied"
	case KindInvalidAddress:
		return "invalid address"
	default:
		return "failed"
	}
}

// ── Structured error types ───────────────────────────────────────────

// ConnectError is the terminal failure of an outbound dial.
type ConnectError struct {
	Addr     string // dial target
	Kind     Kind
	Attempts int   // number of attempts made, 0 when unknown
	Err      error // underlying error
}

func (e *ConnectError) Error() string {
	s := fmt.Sprintf("connect %s: %s", e.Addr, e.Kind)
	if e.Attempts > 1 {
		s += fmt.Sprintf(" after %d attempts", e.Attempts)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *ConnectError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt at the same target could
// plausibly succeed.
func (e *ConnectError) Retryable() bool {
	switch e.Kind {
	case KindRefused, KindTimeout, KindUnreachable:
		return true
	default:
		return false
	}
}

// BindError is a failure to open a listening socket.
type BindError struct {
	Addr string
	Kind Kind
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("listen %s: %s: %v", e.Addr, e.Kind, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// SSHError represents an SSH-specific failure with host context.
type SSHError struct {
	Op   string // "handshake", "auth", "hostkey", "dial"
	Host string
	Port int
	Err  error
}

func (e *SSHError) Error() string {
	return fmt.Sprintf("ssh %s %s:%d: %v", e.Op, e.Host, e.Port, e.Err)
}

func (e *SSHError) Unwrap() error { return e.Err }

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string      // flag name without dashes
	Value   interface{} // the invalid value (nil if missing)
	Message string
	Hint    string // optional suggestion
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: --%s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// ── Constructors ─────────────────────────────────────────────────────

// WrapConnect builds a ConnectError for addr, classifying err.  An err
// that already is (or wraps) a ConnectError is returned unchanged.
func WrapConnect(addr string, err error) *ConnectError {
	var ce *ConnectError
	if errors.As(err, &ce) {
		return ce
	}
	return &ConnectError{Addr: addr, Kind: ClassifyConnect(err), Err: err}
}

// WrapBind builds a BindError for addr, classifying err.
func WrapBind(addr string, err error) *BindError {
	return &BindError{Addr: addr, Kind: ClassifyBind(err), Err: err}
}

// WrapSSH creates an SSHError.
func WrapSSH(op, host string, port int, err error) *SSHError {
	return &SSHError{Op: op, Host: host, Port: port, Err: err}
}

// ── Classification helpers ───────────────────────────────────────────

// ClassifyConnect maps a dial error onto a Kind.
func ClassifyConnect(err error) Kind {
	switch {
	case err == nil:
		return KindOther
	case errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrInvalidAddress):
		return KindInvalidAddress
	case errors.Is(err, syscall.ECONNREFUSED):
		return KindRefused
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		return KindUnreachable
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindResolve
	}
	var addrErr *net.AddrError
	if errors.As(err, &addrErr) {
		return KindInvalidAddress
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	return KindOther
}

// ClassifyBind maps a listen error onto a Kind.
func ClassifyBind(err error) Kind {
	switch {
	case err == nil:
		return KindOther
	case errors.Is(err, syscall.EADDRINUSE):
		return KindAddrInUse
	case errors.Is(err, syscall.EACCES), errors.Is(err, os.ErrPermission):
		return KindPermission
	case errors.Is(err, syscall.EADDRNOTAVAIL):
		return KindInvalidAddress
	}
	var addrErr *net.AddrError
	if errors.As(err, &addrErr) {
		return KindInvalidAddress
	}
	return KindOther
}

// IsRetryable reports whether err is a dial failure worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var ce *ConnectError
	if errors.As(err, &ce) {
		return ce.Retryable()
	}
	return (&ConnectError{Kind: ClassifyConnect(err)}).Retryable()
}

// ── Re-exports for convenience ───────────────────────────────────────

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
