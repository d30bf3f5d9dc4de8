// Package eventloop runs callbacks one at a time on a single goroutine.
//
// Views and their state are only touched from inside the loop. Work that
// blocks, such as a catalog fetch, runs elsewhere and hands its result back
// with Post.
package eventloop

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	logger *zap.Logger
}

func New(logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{wake: make(chan struct{}, 1), logger: logger}
}

// Post queues fn. It never blocks and may be called from any goroutine,
// including from inside a running callback.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) pop() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

// Pending reports how many callbacks are queued.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// RunOne waits for one callback and runs it.
func (l *Loop) RunOne(ctx context.Context) error {
	for {
		if fn, ok := l.pop(); ok {
			l.invoke(fn)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Run processes callbacks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := l.RunOne(ctx); err != nil {
			return err
		}
	}
}

// Drain runs everything already queued, including callbacks queued while
// draining, and returns how many ran.
func (l *Loop) Drain() int {
	n := 0
	for {
		fn, ok := l.pop()
		if !ok {
			return n
		}
		l.invoke(fn)
		n++
	}
}

// invoke keeps a panicking callback from taking the loop down.
func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("event loop callback panicked", zap.Any("panic", r))
		}
	}()
	fn()
}
