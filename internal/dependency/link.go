package dependency

import (
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/layout"
)

// Link is a dependency resolved to the bars it connects.
type Link struct {
	From *layout.Bar
	To   *layout.Bar
	Type domain.DependencyType
}

// FromX is the anchor on the predecessor: its finish for finish_* links,
// its start otherwise.
func (l Link) FromX() float64 {
	switch l.Type {
	case domain.DepFinishStart, domain.DepFinishFinish:
		return l.From.Right()
	}
	return l.From.X
}

// ToX is the anchor on the successor: its finish for *_finish links, its
// start otherwise.
func (l Link) ToX() float64 {
	switch l.Type {
	case domain.DepStartFinish, domain.DepFinishFinish:
		return l.To.Right()
	}
	return l.To.X
}

// Anchors resolves dependencies through lookup. Links to missing or
// undated bars are skipped.
func Anchors(deps []domain.Dependency, lookup func(id string) *layout.Bar) []Link {
	links := make([]Link, 0, len(deps))
	for _, d := range deps {
		if !domain.ValidDependencyTypes[d.Type] {
			continue
		}
		from, to := lookup(d.From), lookup(d.To)
		if from == nil || to == nil || from.Invalid || to.Invalid {
			continue
		}
		links = append(links, Link{From: from, To: to, Type: d.Type})
	}
	return links
}
