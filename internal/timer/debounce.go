// Package timer provides the small scheduling primitives the screens need:
// a Debouncer that collapses bursts into one call, and a Deferred that runs
// a single cancellable call later.
package timer

import (
	"sync"
	"time"
)

// Debouncer runs fn once after delay has passed without another Trigger.
// Every Trigger cancels the pending run and starts the quiet interval over.
// fn runs on its own goroutine. Safe for concurrent use.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64 // bumped on every Trigger/Cancel so stale timers no-op
	stopped bool
}

// NewDebouncer creates a debouncer. A non-positive delay runs fn
// synchronously on Trigger.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Delay returns the configured quiet interval.
func (d *Debouncer) Delay() time.Duration { return d.delay }

// Trigger (re)schedules fn.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.delay <= 0 {
		d.mu.Unlock()
		d.fn()
		return
	}
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
	d.mu.Unlock()
}

// Cancel drops the pending run, if any. Reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked()
}

// Flush runs the pending call now instead of waiting. Does nothing when
// nothing is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.cancelLocked()
	d.mu.Unlock()
	if pending {
		d.fn()
	}
}

// Pending reports whether a run is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending run and makes further Triggers no-ops.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

func (d *Debouncer) cancelLocked() bool {
	d.seq++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	// A Trigger or Cancel after this timer was armed wins.
	if seq != d.seq || d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}
