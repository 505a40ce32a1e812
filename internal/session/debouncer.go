// Package session holds in-memory editing state and schedules debounced saves.
package session

import (
	"sync"
	"time"
)

// Debouncer runs a commit callback once a trigger burst has been quiet for
// the configured delay. Commits never overlap.
type Debouncer struct {
	delay  time.Duration
	commit func()

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending bool
	stopped bool

	commitMu sync.Mutex
}

// NewDebouncer creates a debouncer. A non-positive delay commits on the next
// scheduler tick after each trigger.
func NewDebouncer(delay time.Duration, commit func()) *Debouncer {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer{delay: delay, commit: commit}
}

// Trigger marks a commit as pending and restarts the quiet window.
// Returns false once the debouncer has been stopped.
func (d *Debouncer) Trigger() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return false
	}
	d.pending = true
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
	return true
}

// Flush runs a pending commit immediately. Returns whether a commit ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.stopped || !d.pending {
		d.mu.Unlock()
		return false
	}
	d.pending = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	d.run()
	return true
}

// Stop cancels any pending commit and refuses further triggers.
// A commit already running is allowed to finish.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.pending = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
}

// Pending reports whether a commit is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || !d.pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.mu.Unlock()

	d.run()
}

func (d *Debouncer) run() {
	d.commitMu.Lock()
	defer d.commitMu.Unlock()
	d.commit()
}
