// Package timescale converts between calendar time and horizontal pixels
// for the active zoom level.
package timescale

import (
	"fmt"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

const hourMs = float64(time.Hour / time.Millisecond)

// Scale holds the zoom levels and the active one. All conversions use the
// active level's amplitude (milliseconds per pixel).
type Scale struct {
	sights []domain.Sight
	active int
	loc    *time.Location
}

// New builds a scale over sights with the first one active. A nil location
// means time.Local.
func New(sights []domain.Sight, loc *time.Location) (*Scale, error) {
	if err := domain.ValidateSights(sights); err != nil {
		return nil, fmt.Errorf("new time scale: %w", err)
	}
	if loc == nil {
		loc = time.Local
	}
	cp := make([]domain.Sight, len(sights))
	copy(cp, sights)
	return &Scale{sights: cp, loc: loc}, nil
}

// Active returns the current zoom level.
func (s *Scale) Active() domain.Sight { return s.sights[s.active] }

// Amp is the active level's milliseconds per pixel.
func (s *Scale) Amp() float64 { return s.sights[s.active].Amp }

// Location is the zone used for day boundaries.
func (s *Scale) Location() *time.Location { return s.loc }

// Sights returns a copy of the configured zoom levels.
func (s *Scale) Sights() []domain.Sight {
	cp := make([]domain.Sight, len(s.sights))
	copy(cp, s.sights)
	return cp
}

// Switch activates the sight of type t. Unknown types leave the scale
// untouched and report false.
func (s *Scale) Switch(t domain.SightType) bool {
	for i, sight := range s.sights {
		if sight.Type == t {
			s.active = i
			return true
		}
	}
	return false
}

// ToPixel maps an instant to its absolute pixel offset.
func (s *Scale) ToPixel(t time.Time) float64 {
	return domain.UnixMilliF(t) / s.Amp()
}

// ToTime maps an absolute pixel offset back to an instant.
func (s *Scale) ToTime(px float64) time.Time {
	return domain.FromUnixMilliF(px*s.Amp(), s.loc)
}

// Width is the pixel length of [start, end].
func (s *Scale) Width(start, end time.Time) float64 {
	return float64(end.Sub(start)/time.Millisecond) / s.Amp()
}

// HourGrid is one hour in pixels; drag geometry snaps to multiples of it.
func (s *Scale) HourGrid() float64 {
	return hourMs / s.Amp()
}

// StartOfDay truncates t to midnight in the scale's location.
func (s *Scale) StartOfDay(t time.Time) time.Time { return domain.StartOfDay(t.In(s.loc)) }

// EndOfDay returns the last millisecond of t's day in the scale's location.
func (s *Scale) EndOfDay(t time.Time) time.Time { return domain.EndOfDay(t.In(s.loc)) }

// CellRect returns the pixel rectangle of the cell under px that a create
// gesture starts from: the day at day level, the ISO week at week and
// month level, the month at coarser levels.
func (s *Scale) CellRect(px float64) (left, width float64) {
	t := s.ToTime(px)
	switch s.Active().Type {
	case domain.SightDay:
		start := s.StartOfDay(t)
		return s.ToPixel(start), s.Width(start, s.EndOfDay(t))
	case domain.SightWeek, domain.SightMonth:
		start := WeekStart(s.StartOfDay(t))
		return s.ToPixel(start), float64(7*24*time.Hour/time.Millisecond-1000) / s.Amp()
	default:
		y, m, _ := t.Date()
		start := time.Date(y, m, 1, 0, 0, 0, 0, s.loc)
		end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
		return s.ToPixel(start), s.Width(start, end)
	}
}

// WeekStart returns the Monday at or before day.
func WeekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
