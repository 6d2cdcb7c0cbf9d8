// Package gantt composes the timeline engine: it owns the dataset, the
// zoom scale, the viewport and the drag state machine, and derives every
// per-frame value a renderer needs. All entry points are safe for
// concurrent use.
package gantt

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/gantry/internal/axis"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/drag"
	"github.com/alexanderramin/gantry/internal/hierarchy"
	"github.com/alexanderramin/gantry/internal/layout"
	"github.com/alexanderramin/gantry/internal/viewport"
)

var (
	ErrUnknownBar  = errors.New("unknown bar")
	ErrInvalidDate = errors.New("invalid date")
)

const (
	DefaultHoverDelay     = 5 * time.Millisecond
	DefaultScrollInterval = 100 * time.Millisecond
	DefaultWheelSettle    = 100 * time.Millisecond
	// DefaultAnchorOffset places the reference date ten days before now.
	DefaultAnchorOffset = 10 * 24 * time.Hour
)

// Confirmer decides whether a dragged date change is kept. Returning false
// or an error rolls the bar back.
type Confirmer interface {
	ConfirmDateChange(ctx context.Context, rec *domain.TaskRecord, start, end string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, rec *domain.TaskRecord, start, end string) (bool, error)

func (f ConfirmFunc) ConfirmDateChange(ctx context.Context, rec *domain.TaskRecord, start, end string) (bool, error) {
	return f(ctx, rec, start, end)
}

// AcceptAll confirms every change.
var AcceptAll = ConfirmFunc(func(context.Context, *domain.TaskRecord, string, string) (bool, error) {
	return true, nil
})

type Options struct {
	Sights    []domain.Sight
	Location  *time.Location
	StartKey  string
	EndKey    string
	RowHeight float64
	BarHeight float64
	MinWidth  float64
	Lookahead int
	RestDay   axis.RestDayFunc
	Confirmer Confirmer
	Now       func() time.Time
	Observer  Observer
	Scheduler drag.Scheduler
	// AutoScroll configures edge scrolling during drags. A zero Rate uses
	// the defaults.
	AutoScroll     drag.AutoScrollConfig
	HoverDelay     time.Duration
	ScrollInterval time.Duration
	WheelSettle    time.Duration
	Width          float64
	Height         float64
	PanelWidth     float64
	AnchorOffset   time.Duration
	Disabled       bool
	Keys           hierarchy.KeyFunc
	// OnChange is called, without the engine lock held, after state changed
	// outside a direct call: deferred hover, trailing scroll, wheel settle
	// and auto-scroll ticks.
	OnChange func()
}

func DefaultOptions() Options {
	return Options{
		Sights:         domain.DefaultSights(),
		Location:       time.Local,
		StartKey:       domain.DefaultStartKey,
		EndKey:         domain.DefaultEndKey,
		RowHeight:      layout.DefaultRowHeight,
		BarHeight:      layout.DefaultBarHeight,
		MinWidth:       layout.DefaultMinWidth,
		Lookahead:      viewport.DefaultLookahead,
		RestDay:        axis.Weekend,
		Confirmer:      AcceptAll,
		Now:            time.Now,
		Observer:       NoopObserver{},
		Scheduler:      drag.TickerScheduler{},
		AutoScroll:     drag.DefaultAutoScrollConfig(),
		HoverDelay:     DefaultHoverDelay,
		ScrollInterval: DefaultScrollInterval,
		WheelSettle:    DefaultWheelSettle,
		Width:          viewport.DefaultWidth,
		Height:         viewport.DefaultHeight,
		PanelWidth:     viewport.DefaultPanelWidth,
		AnchorOffset:   DefaultAnchorOffset,
		Keys:           hierarchy.UUIDKeys,
	}
}

// withDefaults fills zero fields. Durations are kept as given: zero means
// synchronous.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if len(o.Sights) == 0 {
		o.Sights = d.Sights
	}
	if o.Location == nil {
		o.Location = d.Location
	}
	if o.StartKey == "" {
		o.StartKey = d.StartKey
	}
	if o.EndKey == "" {
		o.EndKey = d.EndKey
	}
	if !(o.RowHeight > 0) {
		o.RowHeight = d.RowHeight
	}
	if !(o.BarHeight > 0) {
		o.BarHeight = d.BarHeight
	}
	if !(o.MinWidth > 0) {
		o.MinWidth = d.MinWidth
	}
	if o.Lookahead < 1 {
		o.Lookahead = d.Lookahead
	}
	if o.RestDay == nil {
		o.RestDay = d.RestDay
	}
	if o.Confirmer == nil {
		o.Confirmer = d.Confirmer
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	if o.Observer == nil {
		o.Observer = d.Observer
	}
	if o.Scheduler == nil {
		o.Scheduler = d.Scheduler
	}
	if !(o.AutoScroll.Rate > 0) {
		o.AutoScroll.Rate = d.AutoScroll.Rate
	}
	if !(o.AutoScroll.Space > 0) {
		o.AutoScroll.Space = d.AutoScroll.Space
	}
	if o.AutoScroll.Interval <= 0 {
		o.AutoScroll.Interval = d.AutoScroll.Interval
	}
	if !(o.Width > 0) {
		o.Width = d.Width
	}
	if !(o.Height > 0) {
		o.Height = d.Height
	}
	if o.PanelWidth < 0 {
		o.PanelWidth = 0
	}
	if o.AnchorOffset == 0 {
		o.AnchorOffset = d.AnchorOffset
	}
	if o.Keys == nil {
		o.Keys = d.Keys
	}
	return o
}
