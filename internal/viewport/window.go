// Package viewport owns the scroll position and sizes of the chart
// surface and derives what part of it is visible.
package viewport

import "math"

// DefaultLookahead is the number of extra rows materialised above and below
// the viewport.
const DefaultLookahead = 5

// Window is the contiguous row range to materialise. Start+Count may exceed
// the number of rows; use Bounds or Slice.
type Window struct {
	Start int
	Count int
}

// ComputeWindow returns the rows needed for a vertical scroll offset.
// Lookahead below 1 is raised to 1.
func ComputeWindow(scroll, viewportHeight, rowHeight float64, lookahead int) Window {
	if !(rowHeight > 0) {
		return Window{}
	}
	if lookahead < 1 {
		lookahead = 1
	}
	if !(scroll > 0) || math.IsInf(scroll, 0) {
		scroll = 0
	}
	if !(viewportHeight > 0) || math.IsInf(viewportHeight, 0) {
		viewportHeight = 0
	}
	start := int(math.Ceil(scroll/rowHeight)) - lookahead
	if start < 0 {
		start = 0
	}
	return Window{
		Start: start,
		Count: int(math.Ceil(viewportHeight/rowHeight)) + lookahead*2,
	}
}

// Bounds clamps the window to n rows.
func (w Window) Bounds(n int) (lo, hi int) {
	lo = min(max(w.Start, 0), n)
	hi = min(max(w.Start+w.Count, lo), n)
	return lo, hi
}

// Slice returns the part of rows covered by w.
func Slice[T any](rows []T, w Window) []T {
	lo, hi := w.Bounds(len(rows))
	return rows[lo:hi]
}
