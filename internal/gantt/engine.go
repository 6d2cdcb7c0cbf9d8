package gantt

import (
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/gantry/internal/axis"
	"github.com/alexanderramin/gantry/internal/dependency"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/drag"
	"github.com/alexanderramin/gantry/internal/hierarchy"
	"github.com/alexanderramin/gantry/internal/layout"
	"github.com/alexanderramin/gantry/internal/timescale"
	"github.com/alexanderramin/gantry/internal/viewport"
)

type layoutKey struct {
	version int
	amp     float64
}

type axisKey struct {
	pan   float64
	width float64
	sight domain.SightType
	amp   float64
}

type axisTicks struct {
	majors []axis.Tick
	minors []axis.Tick
}

type windowKey struct {
	scroll float64
	height float64
	row    float64
	ahead  int
}

type Engine struct {
	mu    sync.Mutex
	opts  Options
	obs   Observer
	scale *timescale.Scale
	view  *viewport.Controller
	drag  *drag.Engine

	records  []*domain.TaskRecord
	roots    []*hierarchy.Item
	deps     []domain.Dependency
	diag     hierarchy.Diagnostics
	restDay  axis.RestDayFunc
	version  int
	disabled bool

	flat    memo[int, []*hierarchy.Item]
	bars    memo[layoutKey, *layout.Result]
	ticks   memo[axisKey, axisTicks]
	windows memo[windowKey, viewport.Window]

	hoverY     float64
	hovering   bool
	panOrigin  float64
	panning    bool
	nextScroll float64

	hover  *debouncer
	settle *debouncer
	scroll *throttler
}

// New builds an engine with an empty dataset. The view starts at the
// anchor date of the first sight.
func New(opts Options) (*Engine, error) {
	opts = opts.withDefaults()
	scale, err := timescale.New(opts.Sights, opts.Location)
	if err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	e := &Engine{
		opts:     opts,
		obs:      opts.Observer,
		scale:    scale,
		view:     viewport.NewController(opts.Width, opts.Height, opts.PanelWidth),
		restDay:  opts.RestDay,
		disabled: opts.Disabled,
		hover:    newDebouncer(opts.HoverDelay),
		settle:   newDebouncer(opts.WheelSettle),
		scroll:   newThrottler(opts.ScrollInterval, nil),
	}
	e.drag = drag.New(scale, e.view, e.barByKeyLocked, drag.Options{
		MinWidth:   opts.MinWidth,
		AutoScroll: opts.AutoScroll,
		Scheduler:  opts.Scheduler,
		OnTick:     e.autoScrollTick,
		StartKey:   opts.StartKey,
		EndKey:     opts.EndKey,
	})
	e.drag.SetDisabled(opts.Disabled)
	e.anchorView()
	return e, nil
}

// Close stops pending timers and any auto-scroll tick.
func (e *Engine) Close() {
	e.hover.Stop()
	e.settle.Stop()
	e.scroll.Stop()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drag.Cancel()
}

func (e *Engine) anchorView() {
	anchor := e.scale.StartOfDay(e.opts.Now().Add(-e.opts.AnchorOffset))
	e.view.SetAnchor(e.scale.ToPixel(anchor))
	e.view.ResetToAnchor()
}

func (e *Engine) notify() {
	if e.opts.OnChange != nil {
		e.opts.OnChange()
	}
}

// SetData replaces the dataset. An active drag follows its record into the
// new tree or is rolled back when the record is gone.
func (e *Engine) SetData(records []*domain.TaskRecord, startKey, endKey string) hierarchy.Diagnostics {
	started := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()
	if startKey == "" {
		startKey = domain.DefaultStartKey
	}
	if endKey == "" {
		endKey = domain.DefaultEndKey
	}
	e.opts.StartKey, e.opts.EndKey = startKey, endKey
	e.records = records
	e.roots, e.diag = hierarchy.Build(records, hierarchy.BuildOptions{
		StartKey: startKey,
		EndKey:   endKey,
		Location: e.opts.Location,
		Keys:     e.opts.Keys,
	})
	e.drag.SetFieldKeys(startKey, endKey)
	out, cancelled := e.drag.Rebind(e.roots)
	e.invalidate()
	e.observe("set_data", started, nil, map[string]any{
		"records":    len(records),
		"items":      hierarchy.Count(e.roots),
		"cycles":     len(e.diag.Cycles),
		"duplicates": len(e.diag.DuplicateIDs),
		"cancelled":  cancelled && out.Kind == drag.OutcomeCancelled,
	})
	return e.diag
}

// Diagnostics reports problems found by the last SetData.
func (e *Engine) Diagnostics() hierarchy.Diagnostics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.diag
}

// Roots returns the current item tree.
func (e *Engine) Roots() []*hierarchy.Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.roots
}

// SetDependencies stores dependency links. Links naming unknown records
// are kept but reported.
func (e *Engine) SetDependencies(deps []domain.Dependency) []error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deps = deps
	ids := make(map[string]bool)
	hierarchy.Walk(e.roots, func(it *hierarchy.Item) bool {
		ids[it.ID()] = true
		return true
	})
	return dependency.Validate(deps, func(id string) bool { return ids[id] })
}

func (e *Engine) SetRestDay(fn axis.RestDayFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fn == nil {
		fn = axis.Weekend
	}
	e.restDay = fn
	e.ticks.reset()
}

// SetDisabled blocks or allows drag gestures on every bar.
func (e *Engine) SetDisabled(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disabled = v
	e.drag.SetDisabled(v)
}

func (e *Engine) invalidate() { e.version++ }

func (e *Engine) itemsLocked() []*hierarchy.Item {
	return e.flat.get(e.version, func() []*hierarchy.Item {
		return hierarchy.Flatten(e.roots)
	})
}

func (e *Engine) layoutLocked() *layout.Result {
	key := layoutKey{version: e.version, amp: e.scale.Amp()}
	return e.bars.get(key, func() *layout.Result {
		started := time.Now()
		res := layout.Compute(e.itemsLocked(), key.amp, e.opts.Location, layout.Config{
			RowHeight:  e.opts.RowHeight,
			BarHeight:  e.opts.BarHeight,
			TopPadding: layout.DefaultTopPadding,
			MinWidth:   e.opts.MinWidth,
		})
		e.drag.Decorate(res)
		e.observe("layout", started, nil, map[string]any{"rows": res.Len(), "amp": key.amp})
		return res
	})
}

func (e *Engine) barByKeyLocked(key string) *layout.Bar {
	return e.layoutLocked().ByKey(key)
}

// Sight returns the active zoom level.
// Sight is the active zoom level.
func (e *Engine) Sight() domain.Sight {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scale.Active()
}

// Sights lists the configured zoom levels in order.
func (e *Engine) Sights() []domain.Sight {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scale.Sights()
}

// SwitchSight changes the zoom level and pans back to the anchor date.
// Switching to the active level only re-anchors. Unknown types are
// ignored. An active drag is rolled back.
func (e *Engine) SwitchSight(t domain.SightType) bool {
	started := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()
	from := e.scale.Active().Type
	if !e.scale.Switch(t) {
		return false
	}
	out := e.drag.Cancel()
	e.anchorView()
	e.observe("switch_sight", started, nil, map[string]any{
		"from":      string(from),
		"to":        string(t),
		"cancelled": out.Kind == drag.OutcomeCancelled,
	})
	return true
}

// Bars returns a copy of every bar in display order.
func (e *Engine) Bars() []*layout.Bar {
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.layoutLocked().Bars)
}

// BarByKey returns a copy of the bar with key, or nil.
func (e *Engine) BarByKey(key string) *layout.Bar {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyBar(e.layoutLocked().ByKey(key))
}

// BarByID returns a copy of the first visible bar whose record has id.
func (e *Engine) BarByID(id string) *layout.Bar {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyBar(e.layoutLocked().ByID(id))
}

// Span returns the extent of a bar and all its dated descendants.
func (e *Engine) Span(key string) (left, right float64, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	res := e.layoutLocked()
	return res.Span(res.ByKey(key))
}

// Links anchors dependencies between visible, dated bars.
func (e *Engine) Links() []dependency.Link {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.linksLocked()
}

func (e *Engine) linksLocked() []dependency.Link {
	if len(e.deps) == 0 {
		return nil
	}
	res := e.layoutLocked()
	copies := make(map[string]*layout.Bar)
	return dependency.Anchors(e.deps, func(id string) *layout.Bar {
		c, ok := copies[id]
		if !ok {
			c = copyBar(res.ByID(id))
			copies[id] = c
		}
		return c
	})
}

// PixelWidthForRange converts a date range to pixels at the active zoom
// level. A date-only end includes that whole day.
func (e *Engine) PixelWidthForRange(start, end string) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := domain.ParseDate(start, e.opts.Location, false)
	t := domain.ParseDate(end, e.opts.Location, true)
	if s == nil || t == nil {
		return 0, fmt.Errorf("pixel width %q..%q: %w", start, end, ErrInvalidDate)
	}
	return e.scale.Width(*s, *t), nil
}

// JumpToToday centres today in the chart.
func (e *Engine) JumpToToday() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.JumpToToday(e.todayPxLocked())
}

// JumpToBar pans towards an offscreen bar. It reports false when the bar
// is already visible or has no dates.
func (e *Engine) JumpToBar(key string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	bar := e.layoutLocked().ByKey(key)
	if bar == nil {
		return false, fmt.Errorf("jump to %s: %w", key, ErrUnknownBar)
	}
	side, ok := e.view.OffscreenSide(bar)
	if !ok {
		return false, nil
	}
	e.view.JumpToBar(bar, side)
	return true, nil
}

func (e *Engine) todayPxLocked() float64 {
	return e.scale.ToPixel(e.scale.StartOfDay(e.opts.Now()))
}

// DragState is the current state of the drag state machine.
func (e *Engine) DragState() drag.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.State()
}

// Pending reports whether a bar awaits confirmation.
func (e *Engine) Pending(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.Pending(key)
}

// Pan is the horizontal offset in pixels at the active zoom level.
func (e *Engine) Pan() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view.Pan()
}

// SetPan stores max(x, 0).
func (e *Engine) SetPan(x float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.SetPan(x)
}

// ScrollTop is the committed vertical offset.
func (e *Engine) ScrollTop() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view.ScrollTop()
}

// PanelWidth is the current side panel width, zero while hidden.
func (e *Engine) PanelWidth() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view.PanelWidth()
}

// PanelState reports the user's panel width and whether the panel is
// currently hidden.
func (e *Engine) PanelState() (width float64, hidden bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view.PreferredPanel(), e.view.PanelHidden()
}

// PanToDate puts the start of date's day at the chart's left edge.
func (e *Engine) PanToDate(date string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := domain.ParseDate(date, e.opts.Location, false)
	if t == nil {
		return fmt.Errorf("pan to %q: %w", date, ErrInvalidDate)
	}
	e.view.SetPan(e.scale.ToPixel(e.scale.StartOfDay(*t)))
	return nil
}

// PanDate is the instant at the chart's left edge.
func (e *Engine) PanDate() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scale.ToTime(e.view.Pan())
}
