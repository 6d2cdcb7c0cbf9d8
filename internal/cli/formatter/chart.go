package formatter

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/gantry/internal/axis"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/alexanderramin/gantry/internal/layout"
)

// DefaultColWidth is how many chart pixels one terminal column covers.
const DefaultColWidth = 10

// Chart controls text rendering of a frame.
type Chart struct {
	// ColWidth is pixels per terminal column.
	ColWidth float64
	// Cursor is the key of the highlighted row. Empty uses the frame's
	// hover selection.
	Cursor string
	// Scrollbar adds the horizontal thumb line.
	Scrollbar bool
}

type cellKind int

const (
	cellEmpty cellKind = iota
	cellRest
	cellToday
	cellBar
	cellGroup
	cellDisabled
	cellBusy
	cellThumb
)

var cellStyles = map[cellKind]lipgloss.Style{
	cellEmpty:    lipgloss.NewStyle(),
	cellRest:     StyleDim,
	cellToday:    StyleRed,
	cellBar:      StyleBlue,
	cellGroup:    StylePurple,
	cellDisabled: StyleDim,
	cellBusy:     StyleYellow,
	cellThumb:    StyleHeader,
}

type cell struct {
	r    rune
	kind cellKind
}

// RenderChart draws the rows visible in f as text: a panel column with
// the task tree and a chart column with the tick headers and bars.
func RenderChart(f gantt.Frame, c Chart) string {
	if !(c.ColWidth > 0) {
		c.ColWidth = DefaultColWidth
	}
	labelCols := int(f.PanelWidth / c.ColWidth)
	chartCols := int(f.ViewWidth / c.ColWidth)
	if chartCols <= 0 {
		return ""
	}
	col := func(px float64) int { return int(math.Floor((px - f.Pan) / c.ColWidth)) }

	var b strings.Builder
	plain := lipgloss.NewStyle()
	label := func(s string, st lipgloss.Style) {
		if labelCols > 0 {
			b.WriteString(st.Render(Pad(Truncate(s, labelCols-1), labelCols)))
		}
	}

	label(f.Sight.Label, StyleHeader)
	b.WriteString(StyleHeader.Render(tickLine(f.Majors, chartCols, col)))
	b.WriteString("\n")
	label("", plain)
	b.WriteString(StyleDim.Render(tickLine(f.Minors, chartCols, col)))
	b.WriteString("\n")

	rest := make([]bool, chartCols)
	for _, t := range f.Minors {
		if !t.Rest {
			continue
		}
		for i := max(col(t.Left), 0); i < min(col(t.Left+t.Width), chartCols); i++ {
			rest[i] = true
		}
	}
	today := -1
	if f.Today.Visible {
		today = col(f.Today.X)
	}
	thumbs := make(map[string]domain.Side, len(f.Thumbs))
	for _, t := range f.Thumbs {
		thumbs[t.Key] = t.Side
	}

	first := 0
	if f.RowHeight > 0 {
		first = int(math.Round(f.ScrollTop / f.RowHeight))
	}
	last := first + VisibleRows(f)
	for _, bar := range f.Rows {
		if bar.Index < first || bar.Index >= last {
			continue
		}
		st := plain
		switch {
		case selected(f, c, bar):
			st = StyleRow
		case bar.Invalid:
			st = StyleYellow
		}
		label(rowName(bar), st)

		cells := make([]cell, chartCols)
		for i := range cells {
			cells[i] = cell{' ', cellEmpty}
			if rest[i] {
				cells[i] = cell{'·', cellRest}
			}
		}
		if today >= 0 && today < chartCols {
			cells[today] = cell{'│', cellToday}
		}
		if !bar.Invalid {
			kind, r := barCell(bar)
			lo, hi := col(bar.X), col(bar.Right()-1e-9)
			for i := max(lo, 0); i <= min(hi, chartCols-1); i++ {
				cells[i] = cell{r, kind}
			}
		}
		switch thumbs[bar.Key] {
		case domain.SideLeft:
			cells[0] = cell{'◀', cellThumb}
		case domain.SideRight:
			cells[chartCols-1] = cell{'▶', cellThumb}
		}
		b.WriteString(renderCells(cells))
		b.WriteString("\n")
	}

	if c.Scrollbar {
		label("", plain)
		b.WriteString(scrollbarLine(f, c.ColWidth, chartCols))
		b.WriteString("\n")
	}
	return b.String()
}

// VisibleRows is how many whole rows fit in the frame body.
func VisibleRows(f gantt.Frame) int {
	if !(f.RowHeight > 0) {
		return 0
	}
	return int(f.BodyHeight / f.RowHeight)
}

// RowAt maps a body line to the bar drawn on it.
func RowAt(f gantt.Frame, line int) *layout.Bar {
	if line < 0 || line >= VisibleRows(f) || !(f.RowHeight > 0) {
		return nil
	}
	idx := int(math.Round(f.ScrollTop/f.RowHeight)) + line
	for _, b := range f.Rows {
		if b.Index == idx {
			return b
		}
	}
	return nil
}

func tickLine(ticks []axis.Tick, cols int, col func(float64) int) string {
	line := []rune(strings.Repeat(" ", cols))
	for _, t := range ticks {
		lo, hi := col(t.Left), col(t.Left+t.Width)
		if hi <= 0 || lo >= cols {
			continue
		}
		start := max(lo, 0)
		if lo >= 0 {
			line[lo] = '▏'
			start = lo + 1
		}
		for i, r := range []rune(Truncate(t.Label, hi-start)) {
			if start+i >= cols {
				break
			}
			line[start+i] = r
		}
	}
	return string(line)
}

func barCell(b *layout.Bar) (cellKind, rune) {
	switch {
	case b.Loading || b.Phase == domain.PhaseMoving || b.Phase == domain.PhaseStart:
		return cellBusy, '▓'
	case b.Disabled:
		return cellDisabled, '▒'
	case b.Group:
		return cellGroup, '━'
	}
	return cellBar, '█'
}

func renderCells(cells []cell) string {
	var b strings.Builder
	for i := 0; i < len(cells); {
		j := i
		var run strings.Builder
		for j < len(cells) && cells[j].kind == cells[i].kind {
			run.WriteRune(cells[j].r)
			j++
		}
		if cells[i].kind == cellEmpty {
			b.WriteString(run.String())
		} else {
			b.WriteString(cellStyles[cells[i].kind].Render(run.String()))
		}
		i = j
	}
	return b.String()
}

func rowName(b *layout.Bar) string {
	indent := strings.Repeat("  ", b.Depth)
	name := b.Record().Name()
	switch {
	case b.Group && b.Collapsed:
		return indent + "▸ " + name
	case b.Group:
		return indent + "▾ " + name
	}
	return indent + "  " + name
}

func selected(f gantt.Frame, c Chart, b *layout.Bar) bool {
	if c.Cursor != "" {
		return b.Key == c.Cursor
	}
	return f.Selection.Visible && f.RowHeight > 0 &&
		int(math.Floor(f.Selection.Top/f.RowHeight)) == b.Index
}

func scrollbarLine(f gantt.Frame, colWidth float64, cols int) string {
	left := int(f.Scrollbar.ThumbLeft / colWidth)
	width := max(int(math.Round(f.Scrollbar.ThumbWidth/colWidth)), 1)
	var b strings.Builder
	b.WriteString(StyleDim.Render(strings.Repeat("─", min(left, cols))))
	if left < cols {
		b.WriteString(StyleBlue.Render(strings.Repeat("━", min(width, cols-left))))
	}
	if rest := cols - left - width; rest > 0 {
		b.WriteString(StyleDim.Render(strings.Repeat("─", rest)))
	}
	return b.String()
}
