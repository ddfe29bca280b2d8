package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags and environment variable loading.

const (
	// DefaultBindAddress is where "l" binds the listening socket.
	DefaultBindAddress = "0.0.0.0:8080"

	// DefaultDialTimeout bounds a single outbound connect attempt.
	DefaultDialTimeout = 120 * time.Second

	// DefaultPollInterval is the longest the render loop waits for an
	// input event before redrawing.
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultTickDelay is the pause after every loop iteration, capping
	// CPU use when input arrives continuously.
	DefaultTickDelay = 10 * time.Millisecond

	// DefaultRetryAttempts is the number of connect attempts per dial.
	// One means failed dials are not retried automatically.
	DefaultRetryAttempts = 1

	// DefaultRetryDelay is the wait before the second attempt; later
	// waits double up to DefaultMaxRetryDelay.
	DefaultRetryDelay = time.Second

	// DefaultMaxRetryDelay caps the backoff between attempts.
	DefaultMaxRetryDelay = 30 * time.Second

	// DefaultSSHPort is the standard SSH port.
	DefaultSSHPort = 22

	// DefaultSSHConnTimeout bounds the SSH handshake with the jump host.
	DefaultSSHConnTimeout = 30 * time.Second
)
