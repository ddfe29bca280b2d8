package ui

import (
	"context"
	"io"
	"sync"
	"time"
)

// EventSource yields input events to the render loop.
type EventSource interface {
	// Poll waits at most timeout for one event.  It returns (nil, nil)
	// when the timeout elapses first.
	Poll(ctx context.Context, timeout time.Duration) (Event, error)
}

// Input reads keystrokes from a reader in the background and merges
// them with injected events (resizes) into one queue.
type Input struct {
	events chan Event
	errc   chan error
	stop   chan struct{}
	once   sync.Once
}

// NewInput starts decoding r.  The read goroutine exits when r returns
// an error; the error is reported by the next Poll.
func NewInput(r io.Reader) *Input {
	in := &Input{
		events: make(chan Event, 64),
		errc:   make(chan error, 1),
		stop:   make(chan struct{}),
	}
	go in.readLoop(r)
	return in
}

func (in *Input) readLoop(r io.Reader) {
	buf := make([]byte, 256)
	var pending []byte
	for {
		n, err := r.Read(buf)
		if n > 0 {
			data := append(pending, buf[:n]...)
			var keys []KeyEvent
			keys, pending = decodeKeys(data)
			pending = append([]byte(nil), pending...)
			for _, k := range keys {
				if !in.Send(k) {
					return
				}
			}
		}
		if err != nil {
			in.errc <- err
			return
		}
	}
}

// Send queues ev.  It returns false once the input has been closed.
func (in *Input) Send(ev Event) bool {
	select {
	case in.events <- ev:
		return true
	case <-in.stop:
		return false
	}
}

// Poll implements [EventSource].  Queued events are delivered before a
// read error.
func (in *Input) Poll(ctx context.Context, timeout time.Duration) (Event, error) {
	select {
	case ev := <-in.events:
		return ev, nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev := <-in.events:
		return ev, nil
	case err := <-in.errc:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, nil
	}
}

// Close stops delivering events.  A read blocked on the underlying
// reader stays blocked until that reader returns.
func (in *Input) Close() error {
	in.once.Do(func() { close(in.stop) })
	return nil
}

// sendSize queues the size reported by size, if it can be read.
func (in *Input) sendSize(size func() (int, int, error)) (int, int) {
	w, h, err := size()
	if err != nil {
		return 0, 0
	}
	in.Send(ResizeEvent{Width: w, Height: h})
	return w, h
}
