package query

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiescent period a search box must stay idle
// before its text is dispatched.
const DefaultDebounce = 400 * time.Millisecond

// Debouncer coalesces rapid input events: each Input resets the timer,
// and on expiry the pending value is dispatched only if it differs from
// the last dispatched value.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	dispatch func(string)
	timer    *time.Timer
	pending  string
	last     string
	fired    bool
}

func NewDebouncer(interval time.Duration, dispatch func(string)) *Debouncer {
	if interval <= 0 {
		interval = DefaultDebounce
	}
	return &Debouncer{interval: interval, dispatch: dispatch}
}

func (d *Debouncer) Input(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = text
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.fired && d.pending == d.last {
		d.mu.Unlock()
		return
	}
	d.last = d.pending
	d.fired = true
	value := d.pending
	dispatch := d.dispatch
	d.mu.Unlock()
	dispatch(value)
}

// Stop cancels any pending dispatch.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
