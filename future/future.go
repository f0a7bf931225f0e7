package future

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vistarmedia/api-client-go/contracts"
)

// ErrTimedOut is returned by Get when no result was set within the wait
// window. It is distinct from an error Result: the request may still be
// in flight and may fulfill the future later.
var ErrTimedOut = errors.New("timed out waiting for result")

// ResultFuture is a single-assignment container handing a Result from the
// transport callback to any number of waiting readers. It starts pending
// and transitions to fulfilled at most once; the first Fulfill wins and
// later calls are no-ops.
//
// All methods are safe for concurrent use.
type ResultFuture[T any] struct {
	mu     sync.Mutex
	done   chan struct{}
	result contracts.Result[T]
}

// New creates a pending ResultFuture.
func New[T any]() *ResultFuture[T] {
	return &ResultFuture[T]{done: make(chan struct{})}
}

// Fulfill stores res and wakes all waiters if the future is still pending.
// Calls after the first are ignored.
func (f *ResultFuture[T]) Fulfill(res contracts.Result[T]) {
	f.mu.Lock()
	defer f.mu.Unlock()

	select {
	case <-f.done:
		return
	default:
	}

	f.result = res
	close(f.done)
}

// Get blocks the calling goroutine until the future is fulfilled or timeout
// elapses, whichever comes first. It returns ErrTimedOut if the deadline
// passes; once fulfilled it returns the stored result immediately, any
// number of times.
func (f *ResultFuture[T]) Get(timeout time.Duration) (contracts.Result[T], error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.load(), nil
	case <-timer.C:
		var zero contracts.Result[T]
		return zero, ErrTimedOut
	}
}

// GetContext blocks until the future is fulfilled or ctx is done, returning
// ctx.Err() in the latter case.
func (f *ResultFuture[T]) GetContext(ctx context.Context) (contracts.Result[T], error) {
	select {
	case <-f.done:
		return f.load(), nil
	case <-ctx.Done():
		var zero contracts.Result[T]
		return zero, ctx.Err()
	}
}

// Fulfilled reports whether a result has been set.
func (f *ResultFuture[T]) Fulfilled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *ResultFuture[T]) load() contracts.Result[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}
