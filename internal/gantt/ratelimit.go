package gantt

import (
	"sync"
	"time"
)

// debouncer runs the last scheduled callback once no new call arrived for
// delay. A zero delay means callers run synchronously.
type debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

// Schedule reports true when the caller should run now. Otherwise fn is
// queued and replaces any earlier queued callback.
func (d *debouncer) Schedule(fn func()) bool {
	if d.delay <= 0 {
		return true
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fn = fn
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
	return false
}

func (d *debouncer) flush() {
	d.mu.Lock()
	fn := d.fn
	d.fn = nil
	d.timer = nil
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.fn = nil
}

// throttler lets a call through at most once per interval. Calls inside the
// interval are coalesced into one trailing call.
type throttler struct {
	mu       sync.Mutex
	interval time.Duration
	now      func() time.Time
	last     time.Time
	timer    *time.Timer
	trailing func()
}

func newThrottler(interval time.Duration, now func() time.Time) *throttler {
	if now == nil {
		now = time.Now
	}
	return &throttler{interval: interval, now: now}
}

// Allow reports true when the caller may run now. Otherwise trailing is
// queued to run when the interval elapses.
func (t *throttler) Allow(trailing func()) bool {
	if t.interval <= 0 {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	if t.timer == nil && (t.last.IsZero() || now.Sub(t.last) >= t.interval) {
		t.last = now
		return true
	}
	t.trailing = trailing
	if t.timer == nil {
		t.timer = time.AfterFunc(t.interval-now.Sub(t.last), t.flush)
	}
	return false
}

func (t *throttler) flush() {
	t.mu.Lock()
	fn := t.trailing
	t.trailing = nil
	t.timer = nil
	t.last = t.now()
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (t *throttler) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.trailing = nil
}
