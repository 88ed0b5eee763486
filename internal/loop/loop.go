// Package loop runs engine work on a single goroutine, the way a browser
// main thread runs event handlers, timers and idle callbacks.
//
// Nothing queued on a Loop executes until its owner calls RunOnce or Drain,
// so timer goroutines only ever enqueue work and never touch engine state.
package loop

import (
	"sync"
	"time"
)

// Timer is a pending AfterFunc call.
type Timer interface {
	// Stop prevents the timer from firing. It returns false if the timer
	// already fired or was stopped.
	Stop() bool
}

// Scheduler is the subset of Loop the controllers depend on.
type Scheduler interface {
	// Post queues fn to run on the loop goroutine.
	Post(fn func())
	// Idle queues fn to run once no regular task is waiting.
	Idle(fn func())
	// AfterFunc queues fn to run on the loop goroutine after d.
	AfterFunc(d time.Duration, fn func()) Timer
}

type clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// idleFallbackDelay is used for idle tasks when idle scheduling is disabled.
const idleFallbackDelay = time.Millisecond

// Options tunes a Loop.
type Options struct {
	// NoIdle disables the idle queue; idle tasks become short timers instead.
	NoIdle bool
}

// Loop is a FIFO task queue with a low-priority idle queue.
type Loop struct {
	mu     sync.Mutex
	tasks  []func()
	idle   []func()
	clock  clock
	noIdle bool
	wake   chan struct{}
}

var _ Scheduler = (*Loop)(nil)

// New creates a loop backed by the wall clock.
func New(opts Options) *Loop {
	return newLoop(realClock{}, opts)
}

func newLoop(c clock, opts Options) *Loop {
	return &Loop{
		clock:  c,
		noIdle: opts.NoIdle,
		wake:   make(chan struct{}, 1),
	}
}

// Post queues fn as a regular task.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
	l.signal()
}

// Idle queues fn as an idle task. Idle tasks run one at a time and only
// when the regular queue is empty.
func (l *Loop) Idle(fn func()) {
	if l.noIdle {
		l.AfterFunc(idleFallbackDelay, fn)
		return
	}
	l.mu.Lock()
	l.idle = append(l.idle, fn)
	l.mu.Unlock()
	l.signal()
}

// AfterFunc posts fn to the loop once d has elapsed.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	return l.clock.AfterFunc(d, func() { l.Post(fn) })
}

// Wake delivers a signal whenever new work was queued. Drivers that do not
// own the loop goroutine (the GUI) select on it and then call RunOnce on
// the right goroutine.
func (l *Loop) Wake() <-chan struct{} {
	return l.wake
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// RunOnce runs every queued regular task, then at most one idle task.
// It reports whether work is still queued.
func (l *Loop) RunOnce() bool {
	for {
		fn := l.pop(&l.tasks)
		if fn == nil {
			break
		}
		fn()
	}
	if fn := l.pop(&l.idle); fn != nil {
		fn()
	}
	return l.Pending()
}

// Drain runs tasks until both queues are empty. Timers that have not fired
// are left alone.
func (l *Loop) Drain() {
	for l.RunOnce() {
	}
}

// Pending reports whether any regular or idle task is queued.
func (l *Loop) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks) > 0 || len(l.idle) > 0
}

func (l *Loop) pop(q *[]func()) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(*q) == 0 {
		return nil
	}
	fn := (*q)[0]
	(*q)[0] = nil
	*q = (*q)[1:]
	return fn
}
