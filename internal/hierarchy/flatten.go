package hierarchy

import "github.com/alexanderramin/gantry/internal/domain"

// Flatten returns the display sequence: depth-first pre-order, children of
// collapsed items omitted. Depth, Parent, Index (position in the result)
// and Sibling (position among siblings) are rewritten on every emitted item.
// Repeated items on one path are skipped so hand-built cyclic trees still
// terminate.
func Flatten(roots []*Item) []*Item {
	out := make([]*Item, 0, len(roots))
	onPath := make(map[*Item]bool)
	var visit func(items []*Item, parent *Item, depth int)
	visit = func(items []*Item, parent *Item, depth int) {
		sibling := 0
		for _, it := range items {
			if it == nil || onPath[it] {
				continue
			}
			it.Depth = depth
			it.Parent = parent
			it.Index = len(out)
			it.Sibling = sibling
			sibling++
			out = append(out, it)
			if it.Collapsed || len(it.Children) == 0 {
				continue
			}
			onPath[it] = true
			visit(it.Children, it, depth+1)
			delete(onPath, it)
		}
	}
	visit(roots, nil, 0)
	return out
}

// Walk visits every item in pre-order, collapsed or not. Returning false
// from fn prunes that item's subtree.
func Walk(roots []*Item, fn func(*Item) bool) {
	onPath := make(map[*Item]bool)
	var visit func(items []*Item)
	visit = func(items []*Item) {
		for _, it := range items {
			if it == nil || onPath[it] {
				continue
			}
			if !fn(it) {
				continue
			}
			onPath[it] = true
			visit(it.Children)
			delete(onPath, it)
		}
	}
	visit(roots)
}

// Count returns the number of items in the tree.
func Count(roots []*Item) int {
	n := 0
	Walk(roots, func(*Item) bool { n++; return true })
	return n
}

// FindByRecord returns the first item built from rec.
func FindByRecord(roots []*Item, rec *domain.TaskRecord) *Item {
	var found *Item
	Walk(roots, func(it *Item) bool {
		if found != nil {
			return false
		}
		if it.Record == rec {
			found = it
			return false
		}
		return true
	})
	return found
}
