package session

import (
	"context"
	"net"
	"time"

	"github.com/google/uuid"

	ncerr "termchat/internal/errors"
	"termchat/internal/metrics"
	"termchat/internal/retry"
	"termchat/internal/task"
	"termchat/internal/transport"
	"termchat/util"
)

// Dialer starts outbound connects in the background.  Each Begin spawns
// one worker that reports exactly one result.
type Dialer struct {
	Transport transport.Dialer
	Timeout   time.Duration // per attempt; 0 leaves it to Transport
	Retry     *retry.Policy // nil means a single attempt
	Logger    *util.Logger
	Metrics   *metrics.Collector
}

// PendingDial is an in-flight dial.  Poll it from the goroutine that
// started it; the worker never touches session state.
type PendingDial struct {
	ID      uuid.UUID
	Target  string
	Started time.Time

	handle *task.Handle[net.Conn]
}

// Begin starts dialing target and returns immediately.
func (d *Dialer) Begin(ctx context.Context, target string) *PendingDial {
	p := &PendingDial{
		ID:      uuid.New(),
		Target:  target,
		Started: time.Now(),
	}
	d.Metrics.DialStarted()
	d.Logger.Verbose("dial %s: connecting to %s", p.ID, target)

	p.handle = task.Spawn(ctx, func(ctx context.Context) (net.Conn, error) {
		return d.dial(ctx, p.ID, target)
	})
	return p
}

// dial runs on the worker goroutine.  Failures come back as
// *errors.ConnectError with the attempt count filled in.
func (d *Dialer) dial(ctx context.Context, id uuid.UUID, target string) (net.Conn, error) {
	var conn net.Conn

	attempts, err := d.Retry.Do(ctx, func(ctx context.Context, attempt int) error {
		d.Metrics.DialAttempt()
		if attempt > 1 {
			d.Logger.Debug("dial %s: attempt %d", id, attempt)
		}

		actx := ctx
		if d.Timeout > 0 {
			var cancel context.CancelFunc
			actx, cancel = context.WithTimeout(ctx, d.Timeout)
			defer cancel()
		}

		c, err := d.Transport.Dial(actx, "tcp", target)
		if err != nil {
			ce := ncerr.WrapConnect(target, err)
			if ctx.Err() != nil {
				ce.Kind = ncerr.KindCancelled
			}
			if !ncerr.IsRetryable(ce) {
				return retry.Permanent(ce)
			}
			d.Logger.Debug("dial %s: %v", id, ce)
			return ce
		}
		conn = c
		return nil
	})
	if err != nil {
		ce := ncerr.WrapConnect(target, err)
		if ctx.Err() != nil {
			ce.Kind = ncerr.KindCancelled
		}
		ce.Attempts = attempts
		return nil, ce
	}
	return conn, nil
}

// Poll returns the dial result once the worker has finished.  It never
// blocks and reports true at most once.
func (p *PendingDial) Poll() (task.Result[net.Conn], bool) {
	return p.handle.TryReceive()
}

// Abandon cancels the worker.  A connection that completes anyway is
// closed instead of being handed to anyone.
func (p *PendingDial) Abandon() {
	p.handle.Abandon(func(c net.Conn) {
		if c != nil {
			c.Close()
		}
	})
}

// Done is closed once the worker has exited.
func (p *PendingDial) Done() <-chan struct{} { return p.handle.Done() }
