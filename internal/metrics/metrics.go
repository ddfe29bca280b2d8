// Package metrics provides lightweight, lock-free counters for tracking
// what a termchat session did: dials, listeners, disconnects, failures.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks runtime metrics for a termchat session.
// A nil Collector is safe to use; all methods become no-ops.
type Collector struct {
	dialsStarted   atomic.Int64
	dialsSucceeded atomic.Int64
	dialsFailed    atomic.Int64
	dialsCancelled atomic.Int64
	dialAttempts   atomic.Int64
	listenersOpen  atomic.Int64
	bindErrors     atomic.Int64
	disconnects    atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastDial     time.Duration
	lastError    time.Time
	lastErrorMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Dial metrics ─────────────────────────────────────────────────────

// DialStarted records a new PendingDial.
func (c *Collector) DialStarted() {
	if c == nil {
		return
	}
	c.dialsStarted.Add(1)
}

// DialAttempt records one connect attempt inside a dial.
func (c *Collector) DialAttempt() {
	if c == nil {
		return
	}
	c.dialAttempts.Add(1)
}

// DialSucceeded records a dial that produced a connection after d.
func (c *Collector) DialSucceeded(d time.Duration) {
	if c == nil {
		return
	}
	c.dialsSucceeded.Add(1)
	c.mu.Lock()
	c.lastDial = d
	c.mu.Unlock()
}

// DialFailed records a dial that ended in an error.
func (c *Collector) DialFailed(msg string) {
	if c == nil {
		return
	}
	c.dialsFailed.Add(1)
	c.recordError(msg)
}

// DialCancelled records a dial abandoned by the user.
func (c *Collector) DialCancelled() {
	if c == nil {
		return
	}
	c.dialsCancelled.Add(1)
}

// DialsStarted returns the number of dials begun.
func (c *Collector) DialsStarted() int64 {
	if c == nil {
		return 0
	}
	return c.dialsStarted.Load()
}

// DialsFailed returns the number of dials that ended in an error.
func (c *Collector) DialsFailed() int64 {
	if c == nil {
		return 0
	}
	return c.dialsFailed.Load()
}

// DialsSucceeded returns the number of dials that connected.
func (c *Collector) DialsSucceeded() int64 {
	if c == nil {
		return 0
	}
	return c.dialsSucceeded.Load()
}

// ── Listener metrics ─────────────────────────────────────────────────

// ListenerOpened records a successful bind.
func (c *Collector) ListenerOpened() {
	if c == nil {
		return
	}
	c.listenersOpen.Add(1)
}

// BindFailed records a failed bind.
func (c *Collector) BindFailed(msg string) {
	if c == nil {
		return
	}
	c.bindErrors.Add(1)
	c.recordError(msg)
}

// Disconnected records an explicit user disconnect.
func (c *Collector) Disconnected() {
	if c == nil {
		return
	}
	c.disconnects.Add(1)
}

// ErrorCount returns the total number of failures recorded.
func (c *Collector) ErrorCount() int64 {
	if c == nil {
		return 0
	}
	return c.dialsFailed.Load() + c.bindErrors.Load()
}

func (c *Collector) recordError(msg string) {
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime           string `json:"uptime"`
	DialsStarted     int64  `json:"dials_started"`
	DialsSucceeded   int64  `json:"dials_succeeded"`
	DialsFailed      int64  `json:"dials_failed"`
	DialsCancelled   int64  `json:"dials_cancelled"`
	DialAttempts     int64  `json:"dial_attempts"`
	ListenersOpened  int64  `json:"listeners_opened"`
	BindErrors       int64  `json:"bind_errors"`
	Disconnects      int64  `json:"disconnects"`
	LastDialLatency  string `json:"last_dial_latency,omitempty"`
	LastError        string `json:"last_error,omitempty"`
	LastErrorMessage string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:          time.Since(c.startTime).Truncate(time.Second).String(),
		DialsStarted:    c.dialsStarted.Load(),
		DialsSucceeded:  c.dialsSucceeded.Load(),
		DialsFailed:     c.dialsFailed.Load(),
		DialsCancelled:  c.dialsCancelled.Load(),
		DialAttempts:    c.dialAttempts.Load(),
		ListenersOpened: c.listenersOpen.Load(),
		BindErrors:      c.bindErrors.Load(),
		Disconnects:     c.disconnects.Load(),
	}
	if c.lastDial > 0 {
		s.LastDialLatency = c.lastDial.String()
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as a compact JSON string.
func (c *Collector) JSON() string {
	data, _ := json.Marshal(c.Snapshot())
	return string(data)
}
