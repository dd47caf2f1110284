// Package future bridges asynchronous test bodies into a uniform
// awaitable with error propagation. A Future settles exactly once with
// either a value or an error; the first failure raised anywhere in the
// wrapped computation wins.
package future

import (
	"context"
	"fmt"
	"sync"

	"github.com/arthur-debert/stagehand/pkg/errors"
)

// Future is a single-settlement outcome. Obtain one from Go, Resolved or
// Failed; await it with Await. Settlement is permanent: awaiting twice
// returns the same outcome.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) settle(val T, err error) {
	f.once.Do(func() {
		f.val = val
		f.err = err
		close(f.done)
	})
}

// Go runs fn on its own goroutine and returns a Future for its outcome.
// A panic inside fn settles the future as a failure rather than crashing
// the test process.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := newFuture[T]()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				f.settle(zero, fmt.Errorf("panic: %v", r))
			}
		}()
		val, err := fn()
		f.settle(val, err)
	}()
	return f
}

// Resolved returns an already-settled Future carrying val.
func Resolved[T any](val T) *Future[T] {
	f := newFuture[T]()
	f.settle(val, nil)
	return f
}

// Failed returns an already-settled Future carrying err.
func Failed[T any](err error) *Future[T] {
	f := newFuture[T]()
	var zero T
	f.settle(zero, err)
	return f
}

// Await blocks until the future settles or ctx expires. Context expiry
// does not consume the settlement; a later Await still observes it.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// MustFail awaits f and succeeds only when it settles as a failure whose
// message equals expected. A normal resolution, or a failure with a
// different message, returns an assertion error reporting both sides.
// This is the harness's sole negative-path assertion primitive.
func MustFail[T any](ctx context.Context, f *Future[T], expected string) error {
	val, err := f.Await(ctx)
	if err == nil {
		return errors.Newf(errors.ErrAssertFailed,
			"expected failure %q but computation resolved normally (value: %v)", expected, val).
			WithDetail("expected", expected)
	}
	if err.Error() != expected {
		return errors.Newf(errors.ErrAssertFailed,
			"expected failure %q but got %q", expected, err.Error()).
			WithDetail("expected", expected).
			WithDetail("actual", err.Error())
	}
	return nil
}
