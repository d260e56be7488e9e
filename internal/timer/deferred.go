package timer

import (
	"sync"
	"time"
)

// Deferred holds at most one delayed call. Scheduling a new call replaces
// the previous one.
type Deferred struct {
	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

// Schedule runs fn after delay on its own goroutine, replacing any call
// still waiting.
func (d *Deferred) Schedule(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	seq := d.seq
	d.timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		if seq != d.seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops the waiting call. Reports whether one was waiting.
func (d *Deferred) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked()
}

// Pending reports whether a call is waiting.
func (d *Deferred) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Deferred) stopLocked() bool {
	d.seq++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}
