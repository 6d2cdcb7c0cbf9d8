// Package export renders engine frames to static formats.
package export

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/alexanderramin/gantry/internal/layout"
)

// SVGOptions controls the snapshot geometry.
type SVGOptions struct {
	// HeaderHeight is the height of each of the two tick rows.
	HeaderHeight int
	// ShowLinks draws dependency arrows.
	ShowLinks bool
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{HeaderHeight: 20, ShowLinks: true}
}

const (
	styleMajor   = "fill:#3c3836;stroke:#504945;font-size:11px"
	styleMinor   = "fill:#282828;stroke:#504945;font-size:10px"
	styleRest    = "fill:#32302f;stroke:#504945"
	styleLabel   = "fill:#ebdbb2;font-family:sans-serif"
	styleBar     = "fill:#83a598;stroke:#458588"
	styleGroup   = "fill:#d3869b;stroke:#b16286"
	styleDisable = "fill:#928374;stroke:#7c6f64"
	styleToday   = "stroke:#fb4934;stroke-width:1"
	styleLink    = "stroke:#fabd2f;stroke-width:1;fill:none"
	stylePanel   = "fill:#1d2021;stroke:#504945"
	styleSelect  = "fill:#fabd2f;fill-opacity:0.08"
)

// SVG writes a snapshot of f. Only the rows inside the frame's window are
// drawn, clipped to the chart area.
func SVG(w io.Writer, f gantt.Frame, opts SVGOptions) error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("exporting svg: empty frame %vx%v", f.Width, f.Height)
	}
	if opts.HeaderHeight <= 0 {
		opts.HeaderHeight = DefaultSVGOptions().HeaderHeight
	}
	r := renderer{c: svg.New(w), f: f, header: opts.HeaderHeight, barH: max(px(f.BarHeight), 1)}
	r.c.Start(px(f.Width), px(f.Height))
	r.c.Def()
	r.c.ClipPath(`id="chart"`)
	r.c.Rect(px(f.PanelWidth), 0, px(f.ViewWidth), px(f.Height))
	r.c.ClipEnd()
	r.c.DefEnd()

	r.panel()
	r.c.Group(`clip-path="url(#chart)"`)
	r.ticks()
	r.selection()
	r.bars()
	if opts.ShowLinks {
		r.links()
	}
	r.today()
	r.c.Gend()
	r.c.End()
	return nil
}

type renderer struct {
	c      *svg.SVG
	f      gantt.Frame
	header int
	barH   int
}

// chartX maps an absolute pixel to canvas space.
func (r renderer) chartX(x float64) int { return px(r.f.PanelWidth + x - r.f.Pan) }

// rowY maps a content y to canvas space. Bar Y is already the bar top.
func (r renderer) rowY(y float64) int { return 2*r.header + px(y-r.f.ScrollTop) }

func (r renderer) panel() {
	if r.f.PanelWidth <= 0 {
		return
	}
	r.c.Rect(0, 0, px(r.f.PanelWidth), px(r.f.Height), stylePanel)
	for _, b := range r.f.Rows {
		indent := 8 + 12*b.Depth
		y := r.rowY(b.Y) + r.barH/2 + 4
		r.c.Text(indent, y, rowLabel(b), styleLabel+";font-size:12px")
	}
}

func (r renderer) ticks() {
	for _, t := range r.f.Majors {
		x := r.chartX(t.Left)
		r.c.Rect(x, 0, px(t.Width), r.header, styleMajor)
		r.c.Text(x+4, r.header-6, t.Label, styleLabel+";font-size:11px")
	}
	bottom := px(r.f.Height)
	for _, t := range r.f.Minors {
		x := r.chartX(t.Left)
		style := styleMinor
		if t.Rest {
			r.c.Rect(x, 2*r.header, px(t.Width), bottom-2*r.header, styleRest)
		}
		r.c.Rect(x, r.header, px(t.Width), r.header, style)
		r.c.Text(x+3, 2*r.header-6, t.Label, styleLabel+";font-size:10px")
	}
}

func (r renderer) selection() {
	if !r.f.Selection.Visible {
		return
	}
	r.c.Rect(px(r.f.PanelWidth), r.rowY(r.f.Selection.Top), px(r.f.ViewWidth), px(r.f.RowHeight), styleSelect)
}

func (r renderer) bars() {
	for _, b := range r.f.Rows {
		if b.Invalid {
			continue
		}
		style := styleBar
		switch {
		case b.Disabled:
			style = styleDisable
		case b.Group:
			style = styleGroup
		}
		r.c.Rect(r.chartX(b.X), r.rowY(b.Y), max(px(b.Width), 1), r.barH, style)
	}
}

func (r renderer) links() {
	mid := r.barH / 2
	for _, l := range r.f.Links {
		x1, y1 := r.chartX(l.FromX()), r.rowY(l.From.Y)+mid
		x2, y2 := r.chartX(l.ToX()), r.rowY(l.To.Y)+mid
		bend := x1 + 8
		r.c.Polyline([]int{x1, bend, bend, x2}, []int{y1, y1, y2, y2}, styleLink)
	}
}

func (r renderer) today() {
	if !r.f.Today.Visible {
		return
	}
	x := r.chartX(r.f.Today.X)
	r.c.Line(x, 0, x, px(r.f.Height), styleToday)
}

func rowLabel(b *layout.Bar) string {
	name := b.Record().Name()
	switch {
	case b.Group && b.Collapsed:
		return "▸ " + name
	case b.Group:
		return "▾ " + name
	}
	return name
}

func px(v float64) int { return int(math.Round(v)) }
