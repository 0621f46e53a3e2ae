// Package debounce provides a cancellable "last call wins" timer.
// This is part of the platform layer and contains no business logic.
package debounce

import (
	"sync"
	"time"
)

// Timer is the handle returned by a Scheduler.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d. The default is time.AfterFunc.
type Scheduler func(d time.Duration, f func()) Timer

func realScheduler(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer runs at most one pending callback. Every Trigger cancels the
// previous pending callback, so only the last one scheduled ever runs.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	schedule Scheduler
	timer    Timer
	pending  func()
	gen      uint64
}

// New creates a Debouncer backed by the wall clock.
func New(delay time.Duration) *Debouncer {
	return NewWithScheduler(delay, realScheduler)
}

// NewWithScheduler creates a Debouncer with a custom scheduler.
func NewWithScheduler(delay time.Duration, schedule Scheduler) *Debouncer {
	if schedule == nil {
		schedule = realScheduler
	}
	return &Debouncer{delay: delay, schedule: schedule}
}

// Delay returns the configured delay.
func (d *Debouncer) Delay() time.Duration { return d.delay }

// Trigger schedules fn after the delay, replacing whatever was pending.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = d.schedule(d.delay, func() { d.fire(gen) })
}

// Cancel drops the pending callback, if any. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	had := d.pending != nil
	d.stopLocked()
	d.gen++
	d.pending = nil
	return had
}

// Flush runs the pending callback now instead of waiting for the delay.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.pending
	d.stopLocked()
	d.gen++
	d.pending = nil
	d.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Pending reports whether a callback is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// A timer that already fired can lose the race with Trigger or Cancel.
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}
