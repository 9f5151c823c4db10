package driver

import (
	"sync"
	"time"
)

// debouncer runs fn once delay has passed without another Trigger.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending bool

	// runMu is held while fn runs so Flush never returns while a timer
	// driven call is still in flight.
	runMu sync.Mutex
	fn    func()
}

func newDebouncer(delay time.Duration, fn func()) *debouncer {
	return &debouncer{delay: delay, fn: fn}
}

// Trigger restarts the countdown.
func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = true
	d.timer = time.AfterFunc(d.delay, d.fire)
}

// SetDelay changes the interval used by later triggers.
func (d *debouncer) SetDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = delay
}

// claim takes the pending call, if any.
func (d *debouncer) claim() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	pending := d.pending
	d.pending = false
	return pending
}

func (d *debouncer) fire() {
	d.runMu.Lock()
	defer d.runMu.Unlock()
	if d.claim() {
		d.fn()
	}
}

// Flush runs a pending call immediately on the calling goroutine, or waits
// for one that is already running.
func (d *debouncer) Flush() {
	d.fire()
}

// Stop drops a pending call.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
}
