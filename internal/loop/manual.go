package loop

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Loop whose timers follow a manual clock. Tests use it to step
// through debounce delays and chunked passes deterministically.
type Manual struct {
	*Loop
	clock *manualClock
}

// NewManual returns a loop with a manual clock starting at zero.
func NewManual(opts Options) *Manual {
	c := &manualClock{}
	return &Manual{Loop: newLoop(c, opts), clock: c}
}

// Now returns the time elapsed on the manual clock.
func (m *Manual) Now() time.Duration {
	m.clock.mu.Lock()
	defer m.clock.mu.Unlock()
	return m.clock.now
}

// Advance moves the clock forward by d, firing due timers in order and
// draining the loop after each one.
func (m *Manual) Advance(d time.Duration) {
	m.Drain()
	target := m.Now() + d
	for {
		t := m.clock.nextDue(target)
		if t == nil {
			break
		}
		t.fn()
		m.Drain()
	}
	m.clock.mu.Lock()
	m.clock.now = target
	m.clock.mu.Unlock()
	m.Drain()
}

// PendingTimers returns the number of timers that have neither fired nor
// been stopped.
func (m *Manual) PendingTimers() int {
	m.clock.mu.Lock()
	defer m.clock.mu.Unlock()
	n := 0
	for _, t := range m.clock.timers {
		if !t.done {
			n++
		}
	}
	return n
}

type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	clock *manualClock
	at    time.Duration
	seq   int
	fn    func()
	done  bool
}

func (c *manualClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &manualTimer{clock: c, at: c.now + d, seq: c.seq, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// nextDue marks and returns the earliest live timer due at or before
// target, moving the clock to its deadline.
func (c *manualClock) nextDue(target time.Duration) *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	c.timers = live
	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].at == c.timers[j].at {
			return c.timers[i].seq < c.timers[j].seq
		}
		return c.timers[i].at < c.timers[j].at
	})
	if len(c.timers) == 0 || c.timers[0].at > target {
		return nil
	}
	t := c.timers[0]
	t.done = true
	if t.at > c.now {
		c.now = t.at
	}
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}
