// Package drag turns pointer gestures on bars into confirmed date changes.
//
// A gesture moves through dragStart, dragging and then either a pending
// proposal (committing) or an immediate rollback. Proposals are resolved
// by the caller once the external confirmation is known, so confirmation
// may run on another goroutine while layout keeps updating.
package drag

import (
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/hierarchy"
	"github.com/alexanderramin/gantry/internal/layout"
	"github.com/alexanderramin/gantry/internal/timescale"
)

type State int

const (
	StateIdle State = iota
	StateDragStart
	StateDragging
	StateCommitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragStart:
		return "dragStart"
	case StateDragging:
		return "dragging"
	case StateCommitting:
		return "committing"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Viewport is the pan surface auto-scroll nudges.
type Viewport interface {
	Pan() float64
	SetPan(x float64)
	ViewWidth() float64
}

// BarLookup resolves a bar key against the current layout.
type BarLookup func(key string) *layout.Bar

type Options struct {
	// MinWidth is the narrowest a resize can make a bar.
	MinWidth   float64
	AutoScroll AutoScrollConfig
	Scheduler  Scheduler
	// OnTick is invoked by the scheduler instead of AutoScrollStep, so an
	// owner can serialise ticks with its other entry points.
	OnTick   func()
	StartKey string
	EndKey   string
}

func DefaultOptions() Options {
	return Options{
		MinWidth:   layout.DefaultMinWidth,
		AutoScroll: DefaultAutoScrollConfig(),
		Scheduler:  TickerScheduler{},
		StartKey:   domain.DefaultStartKey,
		EndKey:     domain.DefaultEndKey,
	}
}

type gesture struct {
	key        string
	item       *hierarchy.Item
	kind       domain.MoveKind
	origin     Geometry
	current    Geometry
	delta      float64
	scrolled   float64
	pointerX   float64
	wasInvalid bool
	amp        float64
	moved      bool
}

// Engine tracks at most one active gesture and any number of pending
// proposals on distinct bars. It is not safe for concurrent use; the owner
// serialises calls.
type Engine struct {
	scale    *timescale.Scale
	view     Viewport
	lookup   BarLookup
	opts     Options
	active   *gesture
	pending  map[string]*Proposal
	scroller autoScroller
	disabled bool
}

func New(scale *timescale.Scale, view Viewport, lookup BarLookup, opts Options) *Engine {
	if opts.Scheduler == nil {
		opts.Scheduler = TickerScheduler{}
	}
	if opts.AutoScroll.Interval <= 0 {
		opts.AutoScroll.Interval = DefaultAutoScrollInterval
	}
	if opts.StartKey == "" {
		opts.StartKey = domain.DefaultStartKey
	}
	if opts.EndKey == "" {
		opts.EndKey = domain.DefaultEndKey
	}
	return &Engine{
		scale:    scale,
		view:     view,
		lookup:   lookup,
		opts:     opts,
		pending:  make(map[string]*Proposal),
		scroller: autoScroller{sched: opts.Scheduler},
	}
}

// SetDisabled blocks new gestures on every bar.
func (e *Engine) SetDisabled(v bool) { e.disabled = v }

// SetFieldKeys changes the record fields accepted dates are written to.
func (e *Engine) SetFieldKeys(startKey, endKey string) {
	e.opts.StartKey, e.opts.EndKey = startKey, endKey
}

func (e *Engine) State() State {
	switch {
	case e.active != nil && e.active.moved:
		return StateDragging
	case e.active != nil:
		return StateDragStart
	case len(e.pending) > 0:
		return StateCommitting
	}
	return StateIdle
}

// Pressed reports whether a pointer is held on a bar. Hover tracking is
// suspended while it is.
func (e *Engine) Pressed() bool { return e.active != nil }

// ActiveKey returns the key of the bar being dragged.
func (e *Engine) ActiveKey() (string, bool) {
	if e.active == nil {
		return "", false
	}
	return e.active.key, true
}

// Pending reports whether key has an unresolved proposal.
func (e *Engine) Pending(key string) bool {
	_, ok := e.pending[key]
	return ok
}

func (e *Engine) PendingCount() int { return len(e.pending) }

// AutoScrolling reports whether the recurring tick is registered.
func (e *Engine) AutoScrolling() bool { return e.scroller.running() }

// Start begins a gesture on bar. pointerX is in chart coordinates (0 is the
// chart's left edge).
func (e *Engine) Start(bar *layout.Bar, kind domain.MoveKind, pointerX float64) error {
	switch {
	case e.active != nil:
		return ErrDragInProgress
	case bar == nil || bar.Item == nil:
		return fmt.Errorf("start drag: %w: no bar", ErrInvalidGesture)
	case bar.Loading || e.pending[bar.Key] != nil:
		return fmt.Errorf("start drag %s: %w", bar.Key, ErrBarBusy)
	case e.disabled || bar.Disabled:
		return fmt.Errorf("start drag %s: %w", bar.Key, ErrBarDisabled)
	case !domain.ValidMoveKinds[kind]:
		return fmt.Errorf("start drag %s: %w: unknown kind %q", bar.Key, ErrInvalidGesture, kind)
	case kind == domain.MoveCreate && !bar.Invalid:
		return fmt.Errorf("start drag %s: %w: bar already has dates", bar.Key, ErrInvalidGesture)
	case kind != domain.MoveCreate && bar.Invalid:
		return fmt.Errorf("start drag %s: %w: bar has no dates", bar.Key, ErrInvalidGesture)
	}

	g := &gesture{
		key:        bar.Key,
		item:       bar.Item,
		kind:       kind,
		origin:     Geometry{X: bar.X, Width: bar.Width},
		pointerX:   pointerX,
		wasInvalid: bar.Invalid,
		amp:        e.scale.Amp(),
	}
	if kind == domain.MoveCreate {
		x, w := e.scale.CellRect(e.view.Pan() + pointerX)
		g.origin = Geometry{X: x, Width: w}
		bar.X, bar.Width = x, w
	}
	g.current = g.origin
	e.active = g
	bar.Phase = domain.PhaseStart

	tick := e.opts.OnTick
	if tick == nil {
		tick = func() { e.AutoScrollStep() }
	}
	e.scroller.start(e.opts.AutoScroll.Interval, tick)
	return nil
}

// Move applies the cumulative pointer displacement since Start.
func (e *Engine) Move(delta, pointerX float64) error {
	if e.active == nil {
		return ErrNoGesture
	}
	e.active.delta = delta
	e.active.pointerX = pointerX
	e.active.moved = true
	e.apply()
	return nil
}

// AutoScrollStep nudges the pan when the pointer is near a chart edge and
// re-applies the gesture so the dragged edge keeps tracking the pointer.
func (e *Engine) AutoScrollStep() bool {
	g := e.active
	if g == nil {
		return false
	}
	cfg := e.opts.AutoScroll
	vw := e.view.ViewWidth()
	var side domain.Side
	switch {
	case g.pointerX+cfg.Space > vw:
		side = domain.SideRight
	case g.pointerX-cfg.Space < 0:
		side = domain.SideLeft
	default:
		return false
	}
	pan := e.view.Pan()
	if cfg.reached(side, pan) {
		return false
	}
	step := cfg.Rate
	if side == domain.SideLeft {
		step = -step
	}
	e.view.SetPan(pan + step)
	moved := e.view.Pan() - pan
	if moved == 0 {
		return false
	}
	g.scrolled += moved
	g.moved = true
	e.apply()
	return true
}

// apply recomputes the active gesture's geometry and writes it to the bar.
func (e *Engine) apply() {
	g := e.active
	grid := e.scale.HourGrid()
	floor := e.opts.MinWidth
	d := g.delta + g.scrolled
	o := g.origin

	var next Geometry
	switch g.kind {
	case domain.MoveLeft:
		w := snapAtLeast(o.Width-d, grid, floor)
		next = Geometry{X: o.X - (w - o.Width), Width: w}
	case domain.MoveRight:
		next = Geometry{X: o.X, Width: snapAtLeast(o.Width+d, grid, floor)}
	case domain.MoveWhole:
		next = Geometry{X: max(o.X+snap(d, grid), 0), Width: o.Width}
	case domain.MoveCreate:
		if d >= 0 {
			next = Geometry{X: o.X, Width: snapAtLeast(o.Width+d, grid, floor)}
		} else {
			w := snapAtLeast(o.Width-d, grid, floor)
			next = Geometry{X: max(o.X+o.Width-w, 0), Width: w}
		}
	}
	g.current = next
	if bar := e.lookup(g.key); bar != nil {
		bar.X, bar.Width = next.X, next.Width
		bar.Phase = domain.PhaseMoving
	}
}

// End finishes the active gesture. The auto-scroll tick is always stopped.
// A returned proposal must later be passed to Resolve.
func (e *Engine) End() (*Proposal, Outcome) {
	g := e.active
	if g == nil {
		return nil, Outcome{Kind: OutcomeNoop}
	}
	e.active = nil
	e.scroller.halt()
	bar := e.lookup(g.key)

	if !g.moved {
		e.restore(bar, g.origin, g)
		return nil, Outcome{Kind: OutcomeNoop, Key: g.key}
	}

	start, end := e.proposedDates(g)
	oldStart, oldEnd := dateText(g.item.Start), dateText(g.item.End)
	newStart, newEnd := domain.FormatDate(start), domain.FormatDate(end)
	out := Outcome{Key: g.key, Start: newStart, End: newEnd}

	if newStart == oldStart && newEnd == oldEnd {
		e.restore(bar, g.origin, g)
		out.Kind = OutcomeNoop
		return nil, out
	}
	if end.Before(start) {
		e.restore(bar, g.origin, g)
		out.Kind = OutcomeInvalid
		return nil, out
	}

	p := &Proposal{
		Key:        g.key,
		Record:     g.item.Record,
		Kind:       g.kind,
		Start:      newStart,
		End:        newEnd,
		start:      start,
		end:        end,
		item:       g.item,
		before:     g.origin,
		after:      g.current,
		wasInvalid: g.wasInvalid,
		amp:        g.amp,
	}
	if g.wasInvalid {
		p.before = Geometry{}
	}
	e.pending[g.key] = p
	if bar != nil {
		bar.Loading = true
		bar.Invalid = false
		bar.Phase = domain.PhaseEnd
	}
	out.Kind = OutcomePending
	return p, out
}

// proposedDates converts the geometry change into dates. Deltas are counted
// in whole hours.
func (e *Engine) proposedDates(g *gesture) (start, end time.Time) {
	grid := e.scale.HourGrid()
	hours := func(px float64) time.Duration {
		return time.Duration(math.Round(px/grid)) * time.Hour
	}
	switch g.kind {
	case domain.MoveWhole:
		h := hours(g.current.X - g.origin.X)
		return g.item.Start.Add(h), g.item.End.Add(h)
	case domain.MoveLeft:
		return g.item.Start.Add(hours(g.current.X - g.origin.X)), *g.item.End
	case domain.MoveRight:
		return *g.item.Start, e.scale.EndOfDay(g.item.End.Add(hours(g.current.Width - g.origin.Width)))
	default:
		start = e.scale.ToTime(g.current.X).Truncate(time.Second)
		end = e.scale.EndOfDay(e.scale.ToTime(g.current.X + g.current.Width).Add(-time.Millisecond))
		return start, end
	}
}

// Resolve applies the confirmation result. Acceptance writes the dates into
// the item and its record; anything else restores the pre-drag geometry.
// Loading is cleared either way.
func (e *Engine) Resolve(p *Proposal, accepted bool, confirmErr error) (Outcome, error) {
	if p == nil {
		return Outcome{}, ErrNoGesture
	}
	if p.resolved {
		return Outcome{}, fmt.Errorf("resolve %s: %w", p.Key, ErrResolved)
	}
	p.resolved = true
	if e.pending[p.Key] == p {
		delete(e.pending, p.Key)
	}
	bar := e.lookup(p.Key)
	out := Outcome{Key: p.Key, Start: p.Start, End: p.End}

	if accepted && confirmErr == nil {
		if p.item != nil {
			p.item.SetDates(p.start, p.end, e.opts.StartKey, e.opts.EndKey)
		}
		if bar != nil {
			bar.Loading = false
			bar.Phase = domain.PhaseNone
		}
		out.Kind = OutcomeAccepted
		return out, nil
	}

	if bar != nil {
		bar.Loading = false
		bar.Phase = domain.PhaseNone
		if bar.Amp() == p.amp {
			bar.X, bar.Width = p.before.X, p.before.Width
			bar.Invalid = p.wasInvalid
		}
	}
	out.Kind = OutcomeRejected
	out.Err = confirmErr
	return out, nil
}

// Cancel abandons the active gesture and restores the bar.
func (e *Engine) Cancel() Outcome {
	g := e.active
	if g == nil {
		return Outcome{Kind: OutcomeNoop}
	}
	e.active = nil
	e.scroller.halt()
	origin := g.origin
	if g.wasInvalid {
		origin = Geometry{}
	}
	e.restore(e.lookup(g.key), origin, g)
	return Outcome{Kind: OutcomeCancelled, Key: g.key}
}

func (e *Engine) restore(bar *layout.Bar, geo Geometry, g *gesture) {
	if bar == nil {
		return
	}
	if g.wasInvalid {
		geo = Geometry{}
		bar.Invalid = true
	}
	bar.X, bar.Width = geo.X, geo.Width
	bar.Phase = domain.PhaseNone
}

// Decorate re-applies in-flight state to a freshly computed layout: the
// active gesture's geometry and every pending bar's loading flag.
func (e *Engine) Decorate(res *layout.Result) {
	for key, p := range e.pending {
		bar := res.ByKey(key)
		if bar == nil {
			continue
		}
		bar.Loading = true
		bar.Phase = domain.PhaseEnd
		if bar.Amp() == p.amp {
			bar.X, bar.Width = p.after.X, p.after.Width
			bar.Invalid = false
		}
	}
	if g := e.active; g != nil {
		if bar := res.ByKey(g.key); bar != nil {
			bar.X, bar.Width = g.current.X, g.current.Width
			if g.moved {
				bar.Phase = domain.PhaseMoving
			} else {
				bar.Phase = domain.PhaseStart
			}
		}
	}
}

// Rebind follows a dataset replacement. The active gesture and pending
// proposals move to the new item built from the same record; an active
// gesture whose record is gone is cancelled. It returns the outcome of
// that cancellation, if any.
func (e *Engine) Rebind(roots []*hierarchy.Item) (Outcome, bool) {
	for key, p := range e.pending {
		delete(e.pending, key)
		if p.Record == nil {
			p.item = nil
			continue
		}
		if it := hierarchy.FindByRecord(roots, p.Record); it != nil {
			p.item = it
			p.Key = it.Key
			e.pending[it.Key] = p
		} else {
			p.item = nil
		}
	}

	g := e.active
	if g == nil {
		return Outcome{}, false
	}
	var it *hierarchy.Item
	if g.item != nil && g.item.Record != nil {
		it = hierarchy.FindByRecord(roots, g.item.Record)
	}
	if it == nil || it.Valid() == g.wasInvalid {
		e.active = nil
		e.scroller.halt()
		return Outcome{Kind: OutcomeCancelled, Key: g.key}, true
	}
	g.key = it.Key
	g.item = it
	return Outcome{}, false
}

func dateText(t *time.Time) string {
	if t == nil {
		return ""
	}
	return domain.FormatDate(*t)
}
