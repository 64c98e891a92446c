package builders

import (
	"sort"
	"sync"
	"time"

	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

// FakeClock is a manually advanced ports.Clock. Callbacks run synchronously
// on the goroutine calling Advance or FireStale.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

var _ ports.Clock = (*FakeClock)(nil)

type fakeTimer struct {
	clock   *FakeClock
	when    time.Time
	fn      func()
	stopped bool
	fired   bool
}

// NewFakeClock creates a clock at start
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the fake time
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f at now+d
func (c *FakeClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{clock: c, when: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs every due, unstopped callback in order
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.when.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].when.Before(due[j].when) })
	for _, t := range due {
		t.fn()
	}
}

// FireStale runs the callbacks of stopped timers, as if each had already
// been dispatched when Stop was called.
func (c *FakeClock) FireStale() int {
	c.mu.Lock()
	var stale []*fakeTimer
	for _, t := range c.timers {
		if t.stopped && !t.fired {
			t.fired = true
			stale = append(stale, t)
		}
	}
	c.mu.Unlock()

	for _, t := range stale {
		t.fn()
	}
	return len(stale)
}

// Pending returns the number of scheduled callbacks not yet run or stopped
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
