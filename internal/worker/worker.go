// Package worker runs a single blocking computation on a background goroutine
// under a wall-clock deadline, so a foreground loop stays responsive.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrDeadline is returned by Wait when the job's timeout ended it.
var ErrDeadline = errors.New("worker: deadline exceeded")

type Job[T any] struct {
	done    chan struct{}
	cancel  context.CancelFunc
	timeout time.Duration

	result T
	err    error
}

// Start runs fn in the background. fn receives a context that ends after timeout,
// on Cancel, or when parent ends; fn is expected to watch it.
func Start[T any](parent context.Context, timeout time.Duration, fn func(context.Context) (T, error)) *Job[T] {
	ctx, cancel := context.WithTimeout(parent, timeout)
	g, gctx := errgroup.WithContext(ctx)

	j := &Job[T]{
		done:    make(chan struct{}),
		cancel:  cancel,
		timeout: timeout,
	}

	g.Go(func() error {
		result, err := fn(gctx)
		if err != nil {
			return err
		}
		j.result = result
		return nil
	})

	go func() {
		err := g.Wait()
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s: %w", ErrDeadline, j.timeout, err)
		}
		j.err = err
		cancel()
		close(j.done)
	}()

	return j
}

// Done is closed once the job has finished.
func (j *Job[T]) Done() <-chan struct{} {
	return j.done
}

// Cancel asks the job to stop. It does not wait.
func (j *Job[T]) Cancel() {
	j.cancel()
}

// Wait blocks until the job finishes and returns its outcome.
func (j *Job[T]) Wait() (T, error) {
	<-j.done
	return j.result, j.err
}

// Run starts fn and waits for it.
func Run[T any](parent context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	return Start(parent, timeout, fn).Wait()
}
