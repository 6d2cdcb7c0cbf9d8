package drag

import "math"

// snap rounds w to the nearest multiple of grid.
func snap(w, grid float64) float64 {
	if !(grid > 0) {
		return w
	}
	return math.Round(w/grid) * grid
}

// snapAtLeast snaps w to the grid without dropping below floor. When the
// nearest multiple is under the floor, the smallest multiple at or above
// the floor is used instead.
func snapAtLeast(w, grid, floor float64) float64 {
	w = max(w, floor)
	s := snap(w, grid)
	if s < floor && grid > 0 {
		s = math.Ceil(floor/grid) * grid
	}
	return s
}
