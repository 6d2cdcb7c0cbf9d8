// Package layout projects flattened items onto pixel geometry.
package layout

import (
	"math"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/hierarchy"
)

// Bar is the render-ready projection of one item at one zoom level. Only
// Phase, Loading, X and Width are mutated after layout, and only by drags.
type Bar struct {
	Key        string
	Item       *hierarchy.Item
	X          float64
	Y          float64
	Width      float64
	Invalid    bool
	Phase      domain.GesturePhase
	Loading    bool
	Group      bool
	Collapsed  bool
	Disabled   bool
	Depth      int
	Index      int
	ChildCount int

	amp float64
	loc *time.Location
}

// Right is the pixel of the bar's right edge.
func (b *Bar) Right() float64 { return b.X + b.Width }

// Record returns the source record.
func (b *Bar) Record() *domain.TaskRecord {
	if b.Item == nil {
		return nil
	}
	return b.Item.Record
}

// Amp is the amplitude the bar was laid out with.
func (b *Bar) Amp() float64 { return b.amp }

// TimeAt converts a pixel offset using the bar's amplitude.
func (b *Bar) TimeAt(x float64) time.Time {
	return domain.FromUnixMilliF(x*b.amp, b.loc)
}

// DateText renders the calendar day at pixel x.
func (b *Bar) DateText(x float64) string {
	return b.TimeAt(x).Format(domain.DayLayout)
}

// DayCount is the inclusive number of calendar days between two pixels.
func (b *Bar) DayCount(x1, x2 float64) int {
	a := domain.StartOfDay(b.TimeAt(math.Min(x1, x2)))
	z := domain.StartOfDay(b.TimeAt(math.Max(x1, x2)))
	days := 0
	for d := a; d.Before(z); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days + 1
}
