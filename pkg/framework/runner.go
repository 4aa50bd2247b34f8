package framework

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/golang/glog"
)

type namedRunnable struct {
	Runnable
	name string
}

func (r *namedRunnable) Name() string {
	return r.name
}

// NamedRun wraps a Runnable with a name.
func NamedRun(name string, runnable Runnable) Runnable {
	return &namedRunnable{name: name, Runnable: runnable}
}

// ErrForcedExit is returned by Wait when stop is requested twice.
var ErrForcedExit = errors.New("forced exit")

// Runner runs multiple Runnables. When any of them stops, the rest are
// canceled.
type Runner struct {
	Context context.Context

	cancel  context.CancelFunc
	names   []string
	errCh   chan namedErr
	exitCh  chan struct{}
	sigStop func()
	running sync.WaitGroup
}

type namedErr struct {
	name string
	err  error
}

// NewRunner creates a runner with a default background context.
func NewRunner() *Runner {
	return NewRunnerWith(context.Background())
}

// NewRunnerWith creates a runner with a specified context.
func NewRunnerWith(ctx context.Context) *Runner {
	ctx, cancel := context.WithCancel(ctx)
	return &Runner{
		Context: ctx,
		cancel:  cancel,
		errCh:   make(chan namedErr),
		exitCh:  make(chan struct{}),
	}
}

// HandleSignals handles CtrlC and SIGTERM from the system.
// The second signal forces Wait to return.
func (r *Runner) HandleSignals() *Runner {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	r.sigStop = func() { signal.Stop(sigCh) }
	go func() {
		if _, ok := <-sigCh; !ok {
			return
		}
		glog.Info("stop requested")
		r.cancel()
		if _, ok := <-sigCh; !ok {
			return
		}
		glog.Error("stop requested again, force exit")
		close(r.exitCh)
	}()
	return r
}

// Stop cancels all Runnables.
func (r *Runner) Stop() {
	r.cancel()
}

// Go spawns Runnables.
func (r *Runner) Go(runners ...Runnable) *Runner {
	for _, runner := range runners {
		var name string
		if named, ok := runner.(Named); ok {
			name = named.Name()
		} else {
			name = strconv.Itoa(len(r.names))
		}
		r.names = append(r.names, name)
		glog.V(4).Infof("start Runner[%s]", name)
		r.running.Add(1)
		go func(runner Runnable, name string) {
			defer r.running.Done()
			err := runner.Run(r.Context)
			glog.V(4).Infof("Runner[%s] stopped: %v", name, err)
			// nobody receives after a forced exit.
			select {
			case r.errCh <- namedErr{name: name, err: err}:
			case <-r.exitCh:
			}
		}(runner, name)
	}
	return r
}

// Wait waits until all Runnables stop and aggregates errors. The first
// Runnable to stop cancels the others.
func (r *Runner) Wait() error {
	defer func() {
		if r.sigStop != nil {
			r.sigStop()
		}
	}()
	var errs AggregatedError
	for range r.names {
		select {
		case <-r.exitCh:
			return ErrForcedExit
		case res := <-r.errCh:
			r.cancel()
			if res.err != nil && !errors.Is(res.err, context.Canceled) {
				glog.Errorf("Runner[%s] failed: %v", res.name, res.err)
				errs.Add(fmt.Errorf("%s: %w", res.name, res.err))
			}
		}
	}
	return errs.Aggregate()
}

// RunWithContextCancel runs a func which doesn't accept a context.
// onCancel is called only when the context is canceled, and must make fn
// return.
func RunWithContextCancel(ctx context.Context, onCancel func(), fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case <-ctx.Done():
		if onCancel != nil {
			onCancel()
		}
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// RunWithContextCloser ensures closer.Close is called either on cancel or
// on exit of fn.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	var closed bool
	err := RunWithContextCancel(ctx, func() {
		closer.Close()
		closed = true
	}, fn)
	if !closed {
		closer.Close()
	}
	return err
}
