// Package axis derives the header ticks visible in the chart window.
package axis

import (
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/timescale"
)

// Tick is one header cell. Left and Width are absolute pixels at the
// amplitude the tick was generated for.
type Tick struct {
	Key   string
	Label string
	Left  float64
	Width float64
	Start time.Time
	End   time.Time
	// Rest marks non-working days; only set on day-level minors.
	Rest bool
}

// RestDayFunc reports whether day is a non-working day.
type RestDayFunc func(day time.Time) bool

// Weekend is the default RestDayFunc.
func Weekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

type Params struct {
	Pan       float64
	ViewWidth float64
	Sight     domain.Sight
	Location  *time.Location
	RestDay   RestDayFunc
}

// Generate returns the major and minor ticks covering the visible window
// [Pan, Pan+ViewWidth]. Degenerate parameters yield no ticks.
func Generate(p Params) (majors, minors []Tick) {
	if !p.valid() {
		return nil, nil
	}
	return Majors(p), Minors(p)
}

func (p Params) valid() bool {
	return p.ViewWidth > 0 && p.Sight.Amp > 0 &&
		!math.IsNaN(p.Pan) && !math.IsInf(p.Pan, 0) &&
		!math.IsInf(p.ViewWidth, 0)
}

func (p Params) window() (left, right time.Time) {
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}
	left = domain.FromUnixMilliF(p.Pan*p.Sight.Amp, loc)
	right = domain.FromUnixMilliF((p.Pan+p.ViewWidth)*p.Sight.Amp, loc)
	return left, right
}

// Majors walks month boundaries at day and week level and year boundaries
// above. The first tick is clipped to the window's left edge.
func Majors(p Params) []Tick {
	if !p.valid() {
		return nil
	}
	left, right := p.window()
	fine := p.Sight.Type == domain.SightDay || p.Sight.Type == domain.SightWeek

	var ticks []Tick
	cur := left
	for !cur.After(right.Add(time.Millisecond)) {
		unit := yearStart(cur)
		next := unit.AddDate(1, 0, 0)
		label := fmt.Sprintf("%04d", cur.Year())
		if fine {
			unit = monthStart(cur)
			next = unit.AddDate(0, 1, 0)
			label = fmt.Sprintf("%04d-%02d", cur.Year(), int(cur.Month()))
		}
		start := unit
		if len(ticks) == 0 {
			start = cur
		}
		ticks = append(ticks, p.tick(label, start, next.Add(-time.Millisecond)))
		cur = next
	}
	return ticks
}

// Minors walks whole units of the active sight starting from the unit that
// contains the window's left edge.
func Minors(p Params) []Tick {
	if !p.valid() {
		return nil
	}
	left, right := p.window()
	rest := p.RestDay
	if rest == nil {
		rest = Weekend
	}

	var ticks []Tick
	cur := unitStart(p.Sight.Type, left)
	for !cur.After(right.Add(time.Millisecond)) {
		next := nextUnit(p.Sight.Type, cur)
		t := p.tick(minorLabel(p.Sight.Type, cur), cur, next.Add(-time.Millisecond))
		if p.Sight.Type == domain.SightDay {
			t.Rest = rest(cur)
		}
		ticks = append(ticks, t)
		cur = next
	}
	return ticks
}

func (p Params) tick(label string, start, end time.Time) Tick {
	amp := p.Sight.Amp
	return Tick{
		Key:   domain.FormatDate(start),
		Label: label,
		Left:  domain.UnixMilliF(start) / amp,
		Width: float64(end.Sub(start)/time.Millisecond) / amp,
		Start: start,
		End:   end,
	}
}

func unitStart(s domain.SightType, t time.Time) time.Time {
	day := domain.StartOfDay(t)
	switch s {
	case domain.SightDay:
		return day
	case domain.SightWeek:
		return timescale.WeekStart(day)
	case domain.SightMonth:
		return monthStart(t)
	case domain.SightQuarter:
		m := (int(t.Month())-1)/3*3 + 1
		return time.Date(t.Year(), time.Month(m), 1, 0, 0, 0, 0, t.Location())
	default:
		m := time.January
		if t.Month() > time.June {
			m = time.July
		}
		return time.Date(t.Year(), m, 1, 0, 0, 0, 0, t.Location())
	}
}

func nextUnit(s domain.SightType, start time.Time) time.Time {
	switch s {
	case domain.SightDay:
		return start.AddDate(0, 0, 1)
	case domain.SightWeek:
		return start.AddDate(0, 0, 7)
	case domain.SightMonth:
		return start.AddDate(0, 1, 0)
	case domain.SightQuarter:
		return start.AddDate(0, 3, 0)
	default:
		return start.AddDate(0, 6, 0)
	}
}

func minorLabel(s domain.SightType, start time.Time) string {
	switch s {
	case domain.SightDay:
		return fmt.Sprintf("%d", start.Day())
	case domain.SightWeek:
		_, w := start.ISOWeek()
		return fmt.Sprintf("W%02d", w)
	case domain.SightMonth:
		return start.Month().String()[:3]
	case domain.SightQuarter:
		return fmt.Sprintf("Q%d", (int(start.Month())-1)/3+1)
	default:
		if start.Month() < time.July {
			return "H1"
		}
		return "H2"
	}
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func yearStart(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}
