package viewport

import "math"

// SelectionTop returns the top of the row under a pointer at offsetY
// (content coordinates). ok is false below the last row.
func SelectionTop(offsetY float64, rows int, rowHeight, topPadding float64) (top float64, ok bool) {
	if !(rowHeight > 0) || offsetY < topPadding {
		return 0, false
	}
	if offsetY-float64(rows)*rowHeight >= topPadding {
		return 0, false
	}
	return math.Floor((offsetY-topPadding)/rowHeight)*rowHeight + topPadding, true
}
