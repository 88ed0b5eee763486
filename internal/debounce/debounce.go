// Package debounce collapses bursts of calls into one trailing invocation.
package debounce

import (
	"sync"
	"time"

	"slategallery/internal/loop"
)

// Debouncer runs fn once the delay has passed without another Call.
type Debouncer struct {
	mu    sync.Mutex
	sched loop.Scheduler
	delay time.Duration
	fn    func()
	timer loop.Timer
	token uint64
}

// New creates a debouncer that schedules fn on s.
func New(s loop.Scheduler, delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{sched: s, delay: delay, fn: fn}
}

// Call (re)starts the quiet period.
func (d *Debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.token++
	token := d.token
	d.timer = d.sched.AfterFunc(d.delay, func() { d.fire(token) })
}

// fire runs fn only for the latest Call. A timer whose task was already
// queued when Stop raced with it carries an old token and is dropped here.
func (d *Debouncer) fire(token uint64) {
	d.mu.Lock()
	if token != d.token || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}

// Flush runs a pending invocation immediately. It reports whether fn ran.
func (d *Debouncer) Flush() bool {
	if !d.Cancel() {
		return false
	}
	d.fn()
	return true
}

// Cancel drops a pending invocation. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.token++
	return true
}

// Pending reports whether an invocation is waiting for its delay.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
