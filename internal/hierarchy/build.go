package hierarchy

import (
	"sort"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

// BuildOptions controls how records become items. StartKey and EndKey name
// the date fields; empty values use the defaults. Location resolves
// date-only values and Keys issues the per-item keys.
type BuildOptions struct {
	StartKey string
	EndKey   string
	Location *time.Location
	Keys     KeyFunc
}

// Diagnostics lists records that were dropped or are ambiguous.
type Diagnostics struct {
	// Cycles holds IDs of records that appeared on their own ancestor path
	// and were skipped.
	Cycles []string
	// DuplicateIDs holds IDs shared by more than one record. Such records
	// are kept; lookups by ID resolve to the first in display order.
	DuplicateIDs []string
}

func (d Diagnostics) Empty() bool {
	return len(d.Cycles) == 0 && len(d.DuplicateIDs) == 0
}

// Build converts records into an item tree. Dates are read from the
// configured field names; a date-only end is inclusive of that day.
func Build(records []*domain.TaskRecord, opts BuildOptions) ([]*Item, Diagnostics) {
	b := builder{
		opts:    normalize(opts),
		onPath:  make(map[*domain.TaskRecord]bool),
		seenIDs: make(map[string]int),
	}
	roots := make([]*Item, 0, len(records))
	for _, rec := range records {
		if it := b.build(rec, nil); it != nil {
			roots = append(roots, it)
		}
	}
	for id, n := range b.seenIDs {
		if n > 1 {
			b.diag.DuplicateIDs = append(b.diag.DuplicateIDs, id)
		}
	}
	sort.Strings(b.diag.DuplicateIDs)
	return roots, b.diag
}

func normalize(opts BuildOptions) BuildOptions {
	if opts.StartKey == "" {
		opts.StartKey = domain.DefaultStartKey
	}
	if opts.EndKey == "" {
		opts.EndKey = domain.DefaultEndKey
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Keys == nil {
		opts.Keys = UUIDKeys
	}
	return opts
}

type builder struct {
	opts    BuildOptions
	onPath  map[*domain.TaskRecord]bool
	seenIDs map[string]int
	diag    Diagnostics
}

func (b *builder) build(rec *domain.TaskRecord, parent *Item) *Item {
	if rec == nil {
		return nil
	}
	if b.onPath[rec] {
		b.diag.Cycles = append(b.diag.Cycles, rec.ID)
		return nil
	}
	b.onPath[rec] = true
	defer delete(b.onPath, rec)

	if rec.ID != "" {
		b.seenIDs[rec.ID]++
	}
	it := &Item{
		Key:       b.opts.Keys(),
		Record:    rec,
		Start:     domain.ParseDate(rec.Field(b.opts.StartKey), b.opts.Location, false),
		End:       domain.ParseDate(rec.Field(b.opts.EndKey), b.opts.Location, true),
		Collapsed: rec.Collapsed,
		Group:     rec.Group || len(rec.Children) > 0,
		Disabled:  rec.Disabled,
		Parent:    parent,
	}
	for _, child := range rec.Children {
		if c := b.build(child, it); c != nil {
			it.Children = append(it.Children, c)
		}
	}
	return it
}
