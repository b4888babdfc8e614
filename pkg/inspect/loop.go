package inspect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	visteerrors "github.com/SpacialCircumstances/viste/internal/errors"
	"github.com/SpacialCircumstances/viste/pkg/viste"
)

// Sentinel errors returned by the inspector.
var (
	// ErrLoopClosed is returned by Do once the loop has been closed.
	ErrLoopClosed = errors.New("inspect: loop closed")

	// ErrLoopBusy is returned by Do when the task queue is full.
	ErrLoopBusy = errors.New("inspect: loop queue full")
)

type task struct {
	fn     func(w *viste.World) error
	result chan error
}

// Loop owns a World and runs every function that touches it on a single
// goroutine. A World is not safe for concurrent use; HTTP handlers and
// websocket readers go through Do instead.
type Loop struct {
	world  *viste.World
	tasks  chan task
	done   chan struct{}
	closed atomic.Bool
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewLoop starts a loop for w. queueSize bounds the number of tasks
// waiting to run.
func NewLoop(w *viste.World, queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = 64
	}
	l := &Loop{
		world:  w,
		tasks:  make(chan task, queueSize),
		done:   make(chan struct{}),
		logger: w.Logger().With("component", "inspect.loop"),
	}
	l.wg.Add(1)
	go l.run()
	return l
}

func (l *Loop) run() {
	defer l.wg.Done()
	for {
		select {
		case t := <-l.tasks:
			t.result <- l.exec(t.fn)
		case <-l.done:
			return
		}
	}
}

// exec runs fn and turns a panic into an error, so one broken request
// does not take the loop down. A coded contract violation is returned
// as is.
func (l *Loop) exec(fn func(w *viste.World) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if ve, ok := r.(*visteerrors.VisteError); ok {
				err = ve
				return
			}
			l.logger.Error("task panic", "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("inspect: task panic: %v", r)
		}
	}()
	return fn(l.world)
}

// Do runs fn on the loop goroutine and waits for its result. If ctx ends
// while fn is queued or running, Do returns ctx.Err() and fn still runs.
func (l *Loop) Do(ctx context.Context, fn func(w *viste.World) error) error {
	if l.closed.Load() {
		return ErrLoopClosed
	}
	t := task{fn: fn, result: make(chan error, 1)}
	select {
	case l.tasks <- t:
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
		l.logger.Warn("loop queue full, rejecting task")
		return ErrLoopBusy
	}
	select {
	case err := <-t.result:
		return err
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the loop after the running task finished. Queued tasks are
// dropped and their callers get ErrLoopClosed.
func (l *Loop) Close() {
	if l.closed.Swap(true) {
		return
	}
	close(l.done)
	l.wg.Wait()
}
