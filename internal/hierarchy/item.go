// Package hierarchy turns nested task records into a tree of items and
// flattens it into display order.
package hierarchy

import (
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/gantry/internal/domain"
)

// Item is the engine's view of one record. Parent is a non-owning back
// reference; Depth, Index and Sibling are rewritten by Flatten.
type Item struct {
	Key       string
	Record    *domain.TaskRecord
	Start     *time.Time
	End       *time.Time
	Collapsed bool
	Group     bool
	Disabled  bool

	Depth int
	// Index is the position in the flattened sequence.
	Index int
	// Sibling is the position among the parent's visible children.
	Sibling  int
	Parent   *Item
	Children []*Item
}

// ID returns the record ID, or "" for a detached item.
func (it *Item) ID() string {
	if it.Record == nil {
		return ""
	}
	return it.Record.ID
}

// Valid reports whether both dates are present.
func (it *Item) Valid() bool {
	return it.Start != nil && it.End != nil
}

// SetCollapsed updates the item and mirrors the flag onto its record so a
// reloaded dataset keeps the same expansion.
func (it *Item) SetCollapsed(collapsed bool) {
	it.Collapsed = collapsed
	if it.Record != nil {
		it.Record.Collapsed = collapsed
	}
}

// SetDates replaces both dates and writes their text form into the record
// fields named by startKey and endKey.
func (it *Item) SetDates(start, end time.Time, startKey, endKey string) {
	it.Start = &start
	it.End = &end
	if it.Record != nil {
		it.Record.SetField(startKey, domain.FormatDate(start))
		it.Record.SetField(endKey, domain.FormatDate(end))
	}
}

// KeyFunc produces item keys. Keys only need to be unique per build.
type KeyFunc func() string

// UUIDKeys is the default KeyFunc.
func UUIDKeys() string { return uuid.NewString() }
