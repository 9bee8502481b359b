package suggest

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period before a suggestion is computed.
const DefaultDelay = 300 * time.Millisecond

// Debouncer runs only the latest of a burst of calls, once the calls have
// been quiet for the configured delay.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	seq   uint64
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer{delay: delay}
}

// Do schedules fn after the delay, superseding any pending call. fn runs on
// its own goroutine.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := seq == d.seq
		if current {
			d.timer = nil
		}
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Pending reports whether a call is scheduled and not yet started.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) stopLocked() {
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
