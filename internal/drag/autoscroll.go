package drag

import (
	"sync"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

const (
	DefaultAutoScrollRate     = 5
	DefaultAutoScrollSpace    = 50
	DefaultAutoScrollInterval = 16 * time.Millisecond
)

type AutoScrollConfig struct {
	// Rate is the pan nudge per tick in pixels.
	Rate float64
	// Space is the distance from an edge that triggers scrolling.
	Space    float64
	Interval time.Duration
	// ReachEdge reports that no further scrolling towards side is possible.
	// Nil means the left edge is reached at pan 0 and the right never is.
	ReachEdge func(side domain.Side, pan float64) bool
}

func DefaultAutoScrollConfig() AutoScrollConfig {
	return AutoScrollConfig{
		Rate:     DefaultAutoScrollRate,
		Space:    DefaultAutoScrollSpace,
		Interval: DefaultAutoScrollInterval,
	}
}

func (c AutoScrollConfig) reached(side domain.Side, pan float64) bool {
	if c.ReachEdge != nil {
		return c.ReachEdge(side, pan)
	}
	return side == domain.SideLeft && pan <= 0
}

// Scheduler runs tick every interval until the returned stop is called.
// stop must not wait for an in-flight tick.
type Scheduler interface {
	Every(interval time.Duration, tick func()) (stop func())
}

// TickerScheduler drives ticks from a time.Ticker goroutine, so tick runs
// concurrently with the caller.
type TickerScheduler struct{}

func (TickerScheduler) Every(interval time.Duration, tick func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				tick()
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// ManualScheduler lets the host fire ticks, e.g. from a UI frame timer.
type ManualScheduler struct {
	mu   sync.Mutex
	tick func()
	gen  int
}

func (m *ManualScheduler) Every(_ time.Duration, tick func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	gen := m.gen
	m.tick = tick
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.gen == gen {
			m.tick = nil
		}
	}
}

// Running reports whether a tick function is registered.
func (m *ManualScheduler) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tick != nil
}

// Tick fires the registered tick once. It reports false when stopped.
func (m *ManualScheduler) Tick() bool {
	m.mu.Lock()
	tick := m.tick
	m.mu.Unlock()
	if tick == nil {
		return false
	}
	tick()
	return true
}

// autoScroller owns the recurring tick of one gesture.
type autoScroller struct {
	sched Scheduler
	stop  func()
}

func (a *autoScroller) start(interval time.Duration, tick func()) {
	a.halt()
	a.stop = a.sched.Every(interval, tick)
}

func (a *autoScroller) halt() {
	if a.stop != nil {
		a.stop()
		a.stop = nil
	}
}

func (a *autoScroller) running() bool { return a.stop != nil }
