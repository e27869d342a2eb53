// Package loader runs resource loads in the background and hands the result
// back to the frame loop without blocking it.
package loader

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned when a load does not finish within its deadline.
var ErrTimeout = errors.New("loader: timed out")

// Func produces a value. It should return promptly once ctx is done.
type Func[T any] func(ctx context.Context) (T, error)

// Future is the pending result of a Func.
type Future[T any] struct {
	name string
	done chan struct{}
	val  T
	err  error
}

// Go starts fn in a new goroutine. A non-positive timeout means no deadline
// beyond ctx itself. The future always resolves: with fn's result, with
// ErrTimeout, or with ctx's error.
func Go[T any](ctx context.Context, name string, timeout time.Duration, fn Func[T]) *Future[T] {
	f := &Future[T]{name: name, done: make(chan struct{})}

	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}

	type result struct {
		val T
		err error
	}
	out := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		out <- result{v, err}
	}()

	go func() {
		defer cancel()
		defer close(f.done)
		select {
		case r := <-out:
			f.val, f.err = r.val, r.err
			if f.err != nil {
				f.err = fmt.Errorf("loader: %s: %w", name, f.err)
			}
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				f.err = fmt.Errorf("%w: %s after %s", ErrTimeout, name, timeout)
			} else {
				f.err = fmt.Errorf("loader: %s: %w", name, ctx.Err())
			}
		}
	}()
	return f
}

// Resolved returns a future that is already complete.
func Resolved[T any](name string, v T, err error) *Future[T] {
	f := &Future[T]{name: name, done: make(chan struct{}), val: v, err: err}
	close(f.done)
	return f
}

// Name returns the label given to Go.
func (f *Future[T]) Name() string { return f.name }

// Done is closed when the result is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Poll returns the result if it is available. ok is false while pending.
func (f *Future[T]) Poll() (v T, err error, ok bool) {
	select {
	case <-f.done:
		return f.val, f.err, true
	default:
		return v, nil, false
	}
}

// Wait blocks until the result is available or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
