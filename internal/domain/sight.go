package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidSights is returned when a sight set cannot drive a time scale.
var ErrInvalidSights = errors.New("invalid sight set")

// Sight is one zoom level. Amp is milliseconds per pixel.
type Sight struct {
	Type  SightType
	Label string
	Amp   float64
}

// DefaultSights returns the built-in zoom levels, finest first.
// The day level renders one day as 30 pixels.
func DefaultSights() []Sight {
	return []Sight{
		{Type: SightDay, Label: "Day", Amp: 2880 * 1000},
		{Type: SightWeek, Label: "Week", Amp: 3600 * 1000},
		{Type: SightMonth, Label: "Month", Amp: 14400 * 1000},
		{Type: SightQuarter, Label: "Quarter", Amp: 86400 * 1000},
		{Type: SightHalfYear, Label: "Half year", Amp: 115200 * 1000},
	}
}

// ValidateSights rejects empty sets, duplicate types, unknown types and
// non-positive amplitudes.
func ValidateSights(sights []Sight) error {
	if len(sights) == 0 {
		return fmt.Errorf("%w: no sights", ErrInvalidSights)
	}
	seen := make(map[SightType]bool, len(sights))
	for i, s := range sights {
		if !ValidSightTypes[s.Type] {
			return fmt.Errorf("%w: sights[%d]: unknown type %q", ErrInvalidSights, i, s.Type)
		}
		if seen[s.Type] {
			return fmt.Errorf("%w: sights[%d]: duplicate type %q", ErrInvalidSights, i, s.Type)
		}
		seen[s.Type] = true
		if !(s.Amp > 0) {
			return fmt.Errorf("%w: sights[%d]: amp must be > 0, got %v", ErrInvalidSights, i, s.Amp)
		}
	}
	return nil
}

// FindSight returns the sight with the given type.
func FindSight(sights []Sight, t SightType) (Sight, bool) {
	for _, s := range sights {
		if s.Type == t {
			return s, true
		}
	}
	return Sight{}, false
}
