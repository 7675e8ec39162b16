// Package task runs deferred and periodic work with explicit handles.
// Every scheduled job returns a Handle; holding the handle is the only
// way to stop the job, which keeps ownership of background work visible
// at the call site.
package task

import (
	"context"
	"sync"
	"time"
)

// Handle controls a scheduled job.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.Mutex
	cancelled bool
}

// Cancel stops the job. Pending runs are abandoned; a run already in
// progress finishes. Cancel is idempotent and safe from any goroutine.
func (h *Handle) Cancel() {
	h.mu.Lock()
	if h.cancelled {
		h.mu.Unlock()
		return
	}
	h.cancelled = true
	h.mu.Unlock()
	h.cancel()
}

// Wait blocks until the job has fully stopped.
func (h *Handle) Wait() {
	<-h.done
}

// Done reports whether the job has stopped, without blocking.
func (h *Handle) Done() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// After runs fn once after delay. Cancelling before the delay elapses
// means fn never runs. The parent context cancels the job too.
func After(ctx context.Context, delay time.Duration, fn func(context.Context)) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		defer cancel()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			fn(ctx)
		}
	}()
	return h
}

// Every runs fn on a fixed interval until cancelled. The first run
// happens after one full interval, not immediately.
func Every(ctx context.Context, interval time.Duration, fn func(context.Context)) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		defer cancel()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()
	return h
}
