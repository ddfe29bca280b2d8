// Package task runs a single unit of background work and hands its one
// result back to the caller through a single-slot channel.
//
// A Handle is polled, never awaited, by the goroutine that owns it: the
// render loop calls TryReceive once per tick and must never block on a
// network operation.
package task

import (
	"context"
	"sync"
)

// Result is the terminal outcome of a task.
type Result[T any] struct {
	Value T
	Err   error
}

// Handle tracks one spawned task.  TryReceive and Cancel may be called
// from the owning goroutine; Done may be watched from anywhere.
type Handle[T any] struct {
	ch     chan Result[T] // capacity 1, written exactly once
	done   chan struct{}
	cancel context.CancelFunc

	mu    sync.Mutex
	taken bool
}

// Spawn starts fn in a new goroutine with a context derived from
// parent.  fn's return value is delivered exactly once.
func Spawn[T any](parent context.Context, fn func(ctx context.Context) (T, error)) *Handle[T] {
	ctx, cancel := context.WithCancel(parent)
	h := &Handle[T]{
		ch:     make(chan Result[T], 1),
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer close(h.done)
		defer cancel()
		v, err := fn(ctx)
		h.ch <- Result[T]{Value: v, Err: err}
	}()
	return h
}

// TryReceive returns the result if the task has finished and the result
// has not been taken yet.  It never blocks.
func (h *Handle[T]) TryReceive() (Result[T], bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.taken {
		return Result[T]{}, false
	}
	select {
	case r := <-h.ch:
		h.taken = true
		return r, true
	default:
		return Result[T]{}, false
	}
}

// Cancel asks the task to stop by cancelling its context.  The task
// still delivers exactly one result (usually a context error).
func (h *Handle[T]) Cancel() { h.cancel() }

// Done is closed once the task has delivered its result.
func (h *Handle[T]) Done() <-chan struct{} { return h.done }

// Abandon cancels the task and, once it finishes, passes any untaken
// successful value to release.  It does not block.
func (h *Handle[T]) Abandon(release func(T)) {
	h.cancel()
	go func() {
		<-h.done
		if r, ok := h.TryReceive(); ok && r.Err == nil && release != nil {
			release(r.Value)
		}
	}()
}
