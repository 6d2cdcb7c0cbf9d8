package gantt

import (
	"github.com/alexanderramin/gantry/internal/axis"
	"github.com/alexanderramin/gantry/internal/dependency"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/drag"
	"github.com/alexanderramin/gantry/internal/layout"
	"github.com/alexanderramin/gantry/internal/viewport"
)

// Thumb marks a visible row whose bar lies outside the chart window.
type Thumb struct {
	Key  string
	Side domain.Side
	Y    float64
}

// Frame is everything a renderer needs for one paint. Rows and link ends
// are copies taken under the engine lock; their Item and Record are shared
// and only change when a proposal is resolved.
type Frame struct {
	Sight  domain.Sight
	Majors []axis.Tick
	Minors []axis.Tick
	Window viewport.Window
	// Rows are the bars inside Window; Total counts all visible rows.
	Rows  []*layout.Bar
	Total int

	Pan           float64
	ViewWidth     float64
	PanelWidth    float64
	Width         float64
	Height        float64
	BodyHeight    float64
	ContentHeight float64
	ScrollTop     float64
	RowHeight     float64
	BarHeight     float64

	Scrollbar viewport.Scrollbar
	Today     viewport.TodayMarker
	Thumbs    []Thumb
	Selection Selection
	Scrolling bool
	Links     []dependency.Link
	Drag      drag.State
}

// Frame derives the current paint state. Ticks, rows and the window are
// memoised on their inputs.
func (e *Engine) Frame() Frame {
	e.mu.Lock()
	defer e.mu.Unlock()

	sight := e.scale.Active()
	pan, vw := e.view.Pan(), e.view.ViewWidth()
	ticks := e.ticks.get(axisKey{pan: pan, width: vw, sight: sight.Type, amp: sight.Amp}, func() axisTicks {
		majors, minors := axis.Generate(axis.Params{
			Pan:       pan,
			ViewWidth: vw,
			Sight:     sight,
			Location:  e.opts.Location,
			RestDay:   e.restDay,
		})
		return axisTicks{majors: majors, minors: minors}
	})

	body := e.view.BodyHeight()
	wk := windowKey{scroll: e.view.ScrollTop(), height: body, row: e.opts.RowHeight, ahead: e.opts.Lookahead}
	win := e.windows.get(wk, func() viewport.Window {
		return viewport.ComputeWindow(wk.scroll, wk.height, wk.row, wk.ahead)
	})

	res := e.layoutLocked()
	rows := snapshot(viewport.Slice(res.Bars, win))
	var thumbs []Thumb
	for _, b := range rows {
		if side, ok := e.view.OffscreenSide(b); ok {
			thumbs = append(thumbs, Thumb{Key: b.Key, Side: side, Y: b.Y})
		}
	}

	panDay := e.scale.ToPixel(e.scale.StartOfDay(e.scale.ToTime(pan)))
	return Frame{
		Sight:         sight,
		Majors:        ticks.majors,
		Minors:        ticks.minors,
		Window:        win,
		Rows:          rows,
		Total:         res.Len(),
		Pan:           pan,
		ViewWidth:     vw,
		PanelWidth:    e.view.PanelWidth(),
		Width:         e.view.Width(),
		Height:        e.view.Height(),
		BodyHeight:    body,
		ContentHeight: e.view.ContentHeight(res.Len(), e.opts.RowHeight),
		ScrollTop:     e.view.ScrollTop(),
		RowHeight:     e.opts.RowHeight,
		BarHeight:     e.opts.BarHeight,
		Scrollbar:     e.view.Scrollbar(panDay),
		Today:         e.view.Today(e.todayPxLocked()),
		Thumbs:        thumbs,
		Selection:     e.selectionLocked(res.Len()),
		Scrolling:     e.view.Scrolling(),
		Links:         e.linksLocked(),
		Drag:          e.drag.State(),
	}
}

// snapshot copies bars so drag updates made later, possibly from the
// auto-scroll goroutine, never reach the caller.
func snapshot(bars []*layout.Bar) []*layout.Bar {
	out := make([]*layout.Bar, len(bars))
	for i, b := range bars {
		out[i] = copyBar(b)
	}
	return out
}

func copyBar(b *layout.Bar) *layout.Bar {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}
