package controller

import "sync"

// Dispatcher applies state-update closures on the single logical UI
// execution context. Controllers never mutate observable state outside a
// dispatched closure.
type Dispatcher interface {
	Dispatch(fn func())
}

// Loop is a single-goroutine Dispatcher: the process's UI context. Run it
// on the goroutine that owns presentation.
type Loop struct {
	mu     sync.Mutex
	queue  chan func()
	closed bool
	done   chan struct{}
}

// NewLoop creates a stopped-but-ready loop.
func NewLoop() *Loop {
	return &Loop{
		queue: make(chan func(), 128),
		done:  make(chan struct{}),
	}
}

// Run consumes dispatched closures until Stop is called. It blocks.
func (l *Loop) Run() {
	for fn := range l.queue {
		fn()
	}
	close(l.done)
}

// Stop drains the queue and waits for Run to return.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.queue)
	}
	l.mu.Unlock()
	<-l.done
}

// Dispatch enqueues fn for the loop goroutine. After Stop the loop is gone,
// so fn runs inline rather than hanging shutdown-time callers.
func (l *Loop) Dispatch(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		fn()
		return
	}
	l.queue <- fn
	l.mu.Unlock()
}

// dispatchWait applies fn on the UI context and blocks until it ran, so the
// caller observes finalized state once an action returns. Actions must not
// be invoked from the UI context itself.
func dispatchWait(d Dispatcher, fn func()) {
	done := make(chan struct{})
	d.Dispatch(func() {
		fn()
		close(done)
	})
	<-done
}
