package viewport

import "math"

const (
	ScrollMargin  = 200
	thumbScale    = 160
	MinThumbWidth = 30
)

// Scrollbar is the horizontal thumb geometry. It is derived on demand and
// never stored.
type Scrollbar struct {
	Range      float64
	ThumbWidth float64
	ThumbLeft  float64
}

// ScrollRange grows as the view is panned away from the anchor.
func (c *Controller) ScrollRange() float64 {
	return max(math.Abs(c.viewWidth+c.pan-c.anchor), c.viewWidth+ScrollMargin)
}

func (c *Controller) ThumbWidth() float64 {
	return max(c.viewWidth/c.ScrollRange()*thumbScale, MinThumbWidth)
}

// Scrollbar derives the thumb. panDayPx is the pixel of the start of the
// day under the pan offset, so the thumb moves in whole days.
func (c *Controller) Scrollbar(panDayPx float64) Scrollbar {
	rng := c.ScrollRange()
	thumb := c.ThumbWidth()
	rate := c.viewWidth / rng
	left := (c.viewWidth-thumb)/2 + rate*(panDayPx-c.anchor)
	left = min(max(left, 0), max(c.viewWidth-thumb, 0))
	return Scrollbar{Range: rng, ThumbWidth: thumb, ThumbLeft: left}
}

// DragThumb pans proportionally to a thumb drag of distance pixels that
// began at pan offset startPan.
func (c *Controller) DragThumb(distance, startPan float64) {
	c.SetPan(distance*(c.viewWidth/c.ThumbWidth()) + startPan)
}
