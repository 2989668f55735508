package view

import (
	"context"
	"sync"
	"time"
)

// lifecycle is embedded by every controller. It guards controller state with
// a single mutex, tracks in-flight requests and owns the timers that must
// not outlive the view.
type lifecycle struct {
	mu         sync.Mutex
	life       context.Context
	cancel     context.CancelFunc
	closed     bool
	busy       int
	timers     []*time.Timer
	transients []*Transient
}

func (l *lifecycle) init(transients ...*Transient) {
	l.life, l.cancel = context.WithCancel(context.Background())
	l.transients = transients
}

// enter registers a request and returns its context together with the
// function that releases it. Mutating requests are refused while anything
// else is in flight. l.mu must be held, also when calling the release func.
func (l *lifecycle) enter(ctx context.Context, mutating bool) (context.Context, func(), error) {
	if l.closed {
		return nil, nil, ErrClosed
	}
	if mutating && l.busy > 0 {
		return nil, nil, ErrBusy
	}

	l.busy++
	rctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.life, cancel)
	return rctx, func() {
		l.busy--
		stop()
		cancel()
	}, nil
}

// after runs fn once d has elapsed unless the view is closed first.
// l.mu must be held.
func (l *lifecycle) after(d time.Duration, fn func()) {
	l.timers = append(l.timers, time.AfterFunc(d, func() {
		l.mu.Lock()
		closed := l.closed
		l.mu.Unlock()
		if !closed {
			fn()
		}
	}))
}

// Busy reports whether a request is in flight
func (l *lifecycle) Busy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.busy > 0
}

// Close tears the view down. In-flight requests are cancelled and their
// responses discarded, pending timers never fire. Close is idempotent.
func (l *lifecycle) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.cancel()
	for _, t := range l.timers {
		t.Stop()
	}
	l.timers = nil
	l.mu.Unlock()

	for _, t := range l.transients {
		t.Stop()
	}
}
