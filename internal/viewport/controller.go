package viewport

import (
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/layout"
)

const (
	DefaultWidth      = 1320
	DefaultHeight     = 418
	DefaultPanelWidth = 500
	MinViewWidth      = 90
	HeaderHeight      = 56
)

// Controller holds the horizontal pan, container size and the split
// between side panel and chart.
type Controller struct {
	pan            float64
	scrollTop      float64
	width          float64
	height         float64
	viewWidth      float64
	panelWidth     float64
	preferredPanel float64
	anchor         float64
	scrolling      bool
}

// NewController sizes a controller. panelWidth is the panel width restored
// by TogglePanel.
func NewController(width, height, panelWidth float64) *Controller {
	if panelWidth < 0 {
		panelWidth = 0
	}
	c := &Controller{width: width, height: height, preferredPanel: panelWidth}
	c.fitPanel(panelWidth)
	return c
}

// fitPanel applies a panel width, shrinking it if the chart would drop
// below MinViewWidth.
func (c *Controller) fitPanel(panel float64) {
	c.panelWidth = panel
	c.viewWidth = c.width - panel
	if c.viewWidth < MinViewWidth {
		c.viewWidth = MinViewWidth
		c.panelWidth = max(c.width-MinViewWidth, 0)
	}
}

func (c *Controller) Pan() float64        { return c.pan }
func (c *Controller) ViewWidth() float64  { return c.viewWidth }
func (c *Controller) PanelWidth() float64 { return c.panelWidth }
func (c *Controller) Width() float64      { return c.width }
func (c *Controller) Height() float64     { return c.height }
func (c *Controller) ScrollTop() float64  { return c.scrollTop }
func (c *Controller) Scrolling() bool     { return c.scrolling }

// PreferredPanel is the panel width restored by TogglePanel.
func (c *Controller) PreferredPanel() float64 { return c.preferredPanel }

func (c *Controller) PanelHidden() bool { return c.panelWidth == 0 && c.preferredPanel > 0 }

// SetPan stores max(x, 0).
func (c *Controller) SetPan(x float64) {
	if !(x > 0) {
		x = 0
	}
	c.pan = x
}

// SetAnchor records the pixel of the reference date the scrollbar is
// centred on. It changes with the zoom level.
func (c *Controller) SetAnchor(px float64) { c.anchor = px }

// ResetToAnchor pans back to the reference date.
func (c *Controller) ResetToAnchor() { c.SetPan(c.anchor) }

func (c *Controller) SetScrolling(v bool) { c.scrolling = v }

// SetScrollTop stores the vertical scroll offset, never negative.
func (c *Controller) SetScrollTop(v float64) {
	if !(v > 0) {
		v = 0
	}
	c.scrollTop = v
}

// Resize applies a new container size. Non-positive sizes are ignored.
func (c *Controller) Resize(width, height float64) bool {
	if !(width > 0) || !(height > 0) {
		return false
	}
	c.height = height
	if width != c.width {
		c.width = width
		c.fitPanel(c.preferredPanel)
	}
	return true
}

// ResizePanel sets the side panel width chosen by the user.
func (c *Controller) ResizePanel(width float64) {
	if width < 0 {
		width = 0
	}
	c.preferredPanel = width
	c.fitPanel(width)
}

// TogglePanel hides the side panel, or restores it when hidden.
func (c *Controller) TogglePanel() {
	if c.panelWidth > 0 {
		c.panelWidth = 0
		c.viewWidth = c.width
		return
	}
	c.fitPanel(c.preferredPanel)
}

// PanMove is a pan gesture step to an absolute offset.
func (c *Controller) PanMove(x float64) {
	c.scrolling = true
	c.SetPan(x)
}

func (c *Controller) PanEnd() { c.scrolling = false }

// Wheel applies a horizontal wheel delta. Zero deltas leave the pan alone.
func (c *Controller) Wheel(deltaX float64) {
	if deltaX == 0 {
		return
	}
	c.scrolling = true
	c.SetPan(c.pan + deltaX)
}

// BodyHeight is the container height below the header and its border.
func (c *Controller) BodyHeight() float64 {
	return max(c.height-HeaderHeight-1, 0)
}

// ContentHeight is the scrollable height for rows rows, at least the body.
func (c *Controller) ContentHeight(rows int, rowHeight float64) float64 {
	return max(float64(rows)*rowHeight+layout.DefaultTopPadding, c.BodyHeight())
}

// JumpToToday centres the pixel of today's start in the chart.
func (c *Controller) JumpToToday(todayPx float64) {
	c.SetPan(todayPx - c.viewWidth/2)
}

// JumpToBar moves the view towards an offscreen bar, keeping the distance
// between the bar's right edge and the chart centre.
func (c *Controller) JumpToBar(b *layout.Bar, side domain.Side) {
	center := c.pan + c.viewWidth/2
	diff := b.Right() - center
	if diff < 0 {
		diff = -diff
	}
	if side == domain.SideLeft {
		c.SetPan(c.pan - diff)
		return
	}
	c.SetPan(c.pan + diff)
}

// OffscreenSide reports which side a bar lies beyond. Invalid bars and bars
// that overlap the view report false.
func (c *Controller) OffscreenSide(b *layout.Bar) (domain.Side, bool) {
	if b == nil || b.Invalid {
		return "", false
	}
	if b.X > c.pan+c.viewWidth {
		return domain.SideRight, true
	}
	if b.Right() < c.pan {
		return domain.SideLeft, true
	}
	return "", false
}

// TodayMarker is the today line in chart coordinates.
type TodayMarker struct {
	X       float64
	Visible bool
}

func (c *Controller) Today(todayPx float64) TodayMarker {
	return TodayMarker{
		X:       todayPx,
		Visible: todayPx >= c.pan && todayPx <= c.pan+c.viewWidth,
	}
}
