package gantt

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/drag"
	"github.com/alexanderramin/gantry/internal/hierarchy"
	"github.com/alexanderramin/gantry/internal/viewport"
)

// DragStart begins a gesture on a bar. pointerX is relative to the chart's
// left edge.
func (e *Engine) DragStart(key string, kind domain.MoveKind, pointerX float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	bar := e.layoutLocked().ByKey(key)
	if bar == nil {
		return fmt.Errorf("drag start %s: %w", key, ErrUnknownBar)
	}
	if err := e.drag.Start(bar, kind, pointerX); err != nil {
		return err
	}
	e.hovering = false
	return nil
}

// DragMove applies the cumulative pointer displacement since DragStart.
func (e *Engine) DragMove(delta, pointerX float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.Move(delta, pointerX)
}

// DragEnd finishes the gesture. A non-nil proposal must be passed to
// Commit or Resolve.
func (e *Engine) DragEnd() (*drag.Proposal, drag.Outcome) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.End()
}

// CancelDrag rolls back the active gesture.
func (e *Engine) CancelDrag() drag.Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.Cancel()
}

// PointerUp ends any gesture wherever the pointer was released and, when a
// change was proposed, confirms it synchronously.
func (e *Engine) PointerUp(ctx context.Context) (drag.Outcome, error) {
	e.mu.Lock()
	e.panning = false
	e.view.PanEnd()
	p, out := e.drag.End()
	e.mu.Unlock()
	if p == nil {
		return out, nil
	}
	return e.Commit(ctx, p)
}

// Commit asks the Confirmer about a proposal and resolves it. The
// Confirmer runs without the engine lock, so other calls proceed while it
// blocks.
func (e *Engine) Commit(ctx context.Context, p *drag.Proposal) (drag.Outcome, error) {
	if p == nil {
		return drag.Outcome{}, drag.ErrNoGesture
	}
	e.mu.Lock()
	err := p.Claim()
	e.mu.Unlock()
	if err != nil {
		return drag.Outcome{}, fmt.Errorf("commit %s: %w", p.Key, err)
	}
	started := time.Now()
	ok, err := e.opts.Confirmer.ConfirmDateChange(ctx, p.Record, p.Start, p.End)
	out, rerr := e.Resolve(p, ok, err)
	if rerr != nil {
		return out, rerr
	}
	e.observe("commit", started, err, map[string]any{
		"key":     p.Key,
		"kind":    string(p.Kind),
		"outcome": out.Kind.String(),
		"start":   p.Start,
		"end":     p.End,
	})
	return out, nil
}

// Resolve applies a confirmation obtained by the host.
func (e *Engine) Resolve(p *drag.Proposal, accepted bool, confirmErr error) (drag.Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out, err := e.drag.Resolve(p, accepted, confirmErr)
	if err != nil {
		return out, err
	}
	if out.Kind == drag.OutcomeAccepted {
		e.invalidate()
	}
	return out, nil
}

// AutoScrollTick runs one auto-scroll step. Scheduler ticks call it.
func (e *Engine) AutoScrollTick() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.AutoScrollStep()
}

func (e *Engine) autoScrollTick() {
	if e.AutoScrollTick() {
		e.notify()
	}
}

// PanMove pans by the cumulative pointer displacement since the pan
// gesture began. Dragging right moves back in time.
func (e *Engine) PanMove(delta float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.panning {
		e.panning = true
		e.panOrigin = e.view.Pan()
	}
	e.view.PanMove(e.panOrigin - delta)
}

func (e *Engine) PanEnd() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.panning = false
	e.view.PanEnd()
}

// WheelScroll pans horizontally. The scrolling flag clears once no wheel
// event arrived for the settle delay.
func (e *Engine) WheelScroll(deltaX float64) {
	e.mu.Lock()
	e.view.Wheel(deltaX)
	scrolling := e.view.Scrolling()
	e.mu.Unlock()
	if !scrolling || deltaX == 0 {
		return
	}
	clear := func() {
		e.mu.Lock()
		if !e.panning {
			e.view.SetScrolling(false)
		}
		e.mu.Unlock()
	}
	if e.settle.Schedule(func() { clear(); e.notify() }) {
		clear()
	}
}

// VerticalScroll records the row scroll offset. Commits are throttled to
// one per scroll interval; the latest offset always lands.
func (e *Engine) VerticalScroll(offset float64) {
	e.mu.Lock()
	e.nextScroll = offset
	e.mu.Unlock()
	apply := func() {
		e.mu.Lock()
		e.view.SetScrollTop(e.nextScroll)
		e.mu.Unlock()
	}
	if e.scroll.Allow(func() { apply(); e.notify() }) {
		apply()
	}
}

// ToggleCollapse flips a group's collapsed flag. A drag on a bar that
// becomes hidden is rolled back.
func (e *Engine) ToggleCollapse(key string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	bar := e.layoutLocked().ByKey(key)
	if bar == nil {
		return false, fmt.Errorf("toggle %s: %w", key, ErrUnknownBar)
	}
	it := bar.Item
	if len(it.Children) == 0 {
		return false, nil
	}
	it.SetCollapsed(!it.Collapsed)
	e.invalidate()
	if active, ok := e.drag.ActiveKey(); ok && e.layoutLocked().ByKey(active) == nil {
		e.drag.Cancel()
	}
	return true, nil
}

// SetCollapsed sets the collapsed flag of every item whose record ID is in
// ids, and expands the rest. It restores a saved view.
func (e *Engine) SetCollapsed(ids []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	changed := false
	hierarchy.Walk(e.roots, func(it *hierarchy.Item) bool {
		if len(it.Children) > 0 && want[it.ID()] != it.Collapsed {
			it.SetCollapsed(want[it.ID()])
			changed = true
		}
		return true
	})
	if changed {
		e.invalidate()
		if active, ok := e.drag.ActiveKey(); ok && e.layoutLocked().ByKey(active) == nil {
			e.drag.Cancel()
		}
	}
}

// CollapsedIDs lists the record IDs of collapsed groups.
func (e *Engine) CollapsedIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var ids []string
	hierarchy.Walk(e.roots, func(it *hierarchy.Item) bool {
		if it.Collapsed && it.ID() != "" {
			ids = append(ids, it.ID())
		}
		return true
	})
	return ids
}

// TogglePanel hides the side panel, or restores its last width.
func (e *Engine) TogglePanel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.TogglePanel()
}

// Resize applies a container size. Non-positive sizes are ignored.
func (e *Engine) Resize(width, height float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view.Resize(width, height)
}

// ResizePanel sets the panel width, keeping the chart at its minimum width.
func (e *Engine) ResizePanel(width float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.ResizePanel(width)
}

// DragThumb pans for a scrollbar thumb drag of distance pixels that began
// at startPan.
func (e *Engine) DragThumb(distance, startPan float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.DragThumb(distance, startPan)
}

// HoverAt tracks the pointer over the rows; offsetY is relative to the top
// of the visible body. Ignored while a bar is pressed.
func (e *Engine) HoverAt(offsetY float64) {
	apply := func() {
		e.mu.Lock()
		if !e.drag.Pressed() {
			e.hoverY = offsetY + e.view.ScrollTop()
			e.hovering = true
		}
		e.mu.Unlock()
	}
	if e.hover.Schedule(func() { apply(); e.notify() }) {
		apply()
	}
}

func (e *Engine) HoverLeave() {
	e.hover.Stop()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hovering = false
}

// Selection is the hovered row highlight.
type Selection struct {
	Top     float64
	Visible bool
}

func (e *Engine) selectionLocked(rows int) Selection {
	if !e.hovering || e.drag.Pressed() {
		return Selection{}
	}
	top, ok := viewport.SelectionTop(e.hoverY, rows, e.opts.RowHeight, 0)
	return Selection{Top: top, Visible: ok}
}

// DayWidth is the width of one day at the active zoom level.
func (e *Engine) DayWidth() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return float64(24*time.Hour/time.Millisecond) / e.scale.Amp()
}

// Nudge runs a complete keyboard gesture that shifts a bar handle by whole
// days. The proposal, if any, must be passed to Commit or Resolve.
func (e *Engine) Nudge(key string, kind domain.MoveKind, days int) (*drag.Proposal, drag.Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	bar := e.layoutLocked().ByKey(key)
	if bar == nil {
		return nil, drag.Outcome{}, fmt.Errorf("nudge %s: %w", key, ErrUnknownBar)
	}
	mid := e.view.ViewWidth() / 2
	if err := e.drag.Start(bar, kind, mid); err != nil {
		return nil, drag.Outcome{}, err
	}
	delta := float64(days) * float64(24*time.Hour/time.Millisecond) / e.scale.Amp()
	if err := e.drag.Move(delta, mid); err != nil {
		e.drag.Cancel()
		return nil, drag.Outcome{}, err
	}
	e.hovering = false
	p, out := e.drag.End()
	return p, out, nil
}
