package layout

import (
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/hierarchy"
)

const (
	DefaultRowHeight  = 38
	DefaultBarHeight  = 8
	DefaultTopPadding = 0
	// DefaultMinWidth is the smallest rendered width of a dated bar.
	DefaultMinWidth = 11
)

type Config struct {
	RowHeight  float64
	BarHeight  float64
	TopPadding float64
	MinWidth   float64
}

func DefaultConfig() Config {
	return Config{
		RowHeight:  DefaultRowHeight,
		BarHeight:  DefaultBarHeight,
		TopPadding: DefaultTopPadding,
		MinWidth:   DefaultMinWidth,
	}
}

// Result is one layout pass. It owns the key and ID lookup tables; items
// never point at their bars.
type Result struct {
	Bars []*Bar
	Amp  float64

	byKey map[string]*Bar
	byID  map[string]*Bar
}

// Compute lays out items in display order at amplitude amp. Items without
// both dates produce invalid bars at x=0 with zero width.
func Compute(items []*hierarchy.Item, amp float64, loc *time.Location, cfg Config) *Result {
	if loc == nil {
		loc = time.Local
	}
	res := &Result{
		Bars:  make([]*Bar, 0, len(items)),
		Amp:   amp,
		byKey: make(map[string]*Bar, len(items)),
		byID:  make(map[string]*Bar, len(items)),
	}
	base := cfg.TopPadding + cfg.RowHeight/2 - cfg.BarHeight/2
	for i, it := range items {
		b := &Bar{
			Key:        it.Key,
			Item:       it,
			Y:          base + float64(i)*cfg.RowHeight,
			Group:      it.Group,
			Collapsed:  it.Collapsed,
			Disabled:   it.Disabled,
			Depth:      it.Depth,
			Index:      i,
			ChildCount: len(it.Children),
			amp:        amp,
			loc:        loc,
		}
		if it.Valid() && amp > 0 {
			b.X = domain.UnixMilliF(*it.Start) / amp
			// An inverted range keeps zero width; MinWidth only floors real spans.
			if span := domain.UnixMilliF(*it.End) - domain.UnixMilliF(*it.Start); span >= 0 {
				b.Width = max(span/amp, cfg.MinWidth)
			}
		} else {
			b.Invalid = true
		}
		res.Bars = append(res.Bars, b)
		res.byKey[b.Key] = b
		if id := it.ID(); id != "" {
			if _, dup := res.byID[id]; !dup {
				res.byID[id] = b
			}
		}
	}
	return res
}

// Len counts the laid out rows.
func (r *Result) Len() int { return len(r.Bars) }

// ByKey returns the bar for a hierarchy key, or nil.
func (r *Result) ByKey(key string) *Bar { return r.byKey[key] }

// ByID returns the first bar in display order whose record has id.
func (r *Result) ByID(id string) *Bar { return r.byID[id] }

// Span returns the pixel extent of a bar together with all of its dated
// descendants, collapsed or not. ok is false when nothing in the subtree
// has dates.
func (r *Result) Span(b *Bar) (left, right float64, ok bool) {
	if b == nil || b.Item == nil || r.Amp <= 0 {
		return 0, 0, false
	}
	hierarchy.Walk([]*hierarchy.Item{b.Item}, func(it *hierarchy.Item) bool {
		if !it.Valid() {
			return true
		}
		l := domain.UnixMilliF(*it.Start) / r.Amp
		rt := domain.UnixMilliF(*it.End) / r.Amp
		if !ok || l < left {
			left = l
		}
		if !ok || rt > right {
			right = rt
		}
		ok = true
		return true
	})
	return left, right, ok
}
