package hierarchy

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/alexanderramin/gantry/internal/domain"
)

func seqKeys() KeyFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("k%d", n)
	}
}

func rec(id string, children ...*domain.TaskRecord) *domain.TaskRecord {
	return &domain.TaskRecord{
		ID:       id,
		Fields:   map[string]any{"startDate": "2024-03-01", "endDate": "2024-03-03"},
		Children: children,
	}
}

func build(t *testing.T, records ...*domain.TaskRecord) ([]*Item, Diagnostics) {
	t.Helper()
	return Build(records, BuildOptions{Location: time.UTC, Keys: seqKeys()})
}

func ids(items []*Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID()
	}
	return out
}

func TestFlatten_PreOrder(t *testing.T) {
	roots, diag := build(t, rec("A", rec("B", rec("C")), rec("D")), rec("E"))
	assert.True(t, diag.Empty())

	flat := Flatten(roots)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, ids(flat))

	byID := map[string]*Item{}
	for _, it := range flat {
		byID[it.ID()] = it
	}
	assert.Equal(t, 2, byID["C"].Depth)
	assert.Equal(t, byID["B"], byID["C"].Parent)
	assert.Equal(t, 1, byID["D"].Sibling)
	assert.Equal(t, 1, byID["E"].Sibling)
	assert.Equal(t, 3, byID["D"].Index, "index counts across the whole sequence")
	assert.Nil(t, byID["A"].Parent)
}

func TestFlatten_CollapsedHidesDescendants(t *testing.T) {
	b := rec("B", rec("C"))
	b.Collapsed = true
	roots, _ := build(t, rec("A", b, rec("D")))

	assert.Equal(t, []string{"A", "B", "D"}, ids(Flatten(roots)))
	assert.Equal(t, 4, Count(roots))
}

func TestFlatten_Idempotent(t *testing.T) {
	roots, _ := build(t, rec("A", rec("B")), rec("C"))
	first := ids(Flatten(roots))
	second := ids(Flatten(roots))
	assert.Equal(t, first, second)
}

func TestBuild_DatesAndKeys(t *testing.T) {
	r := rec("A")
	r.Fields["from"] = "2024-04-01 08:00:00"
	r.Fields["to"] = "2024-04-02"
	roots, _ := Build([]*domain.TaskRecord{r, {ID: "nodate"}}, BuildOptions{
		StartKey: "from", EndKey: "to", Location: time.UTC, Keys: seqKeys(),
	})
	require.Len(t, roots, 2)

	a := roots[0]
	require.True(t, a.Valid())
	assert.Equal(t, "k1", a.Key)
	assert.Equal(t, 8, a.Start.Hour())
	assert.Equal(t, "2024-04-02 23:59:59", domain.FormatDate(*a.End))

	assert.False(t, roots[1].Valid())
}

func TestBuild_DefaultKeysAreUnique(t *testing.T) {
	roots, _ := Build([]*domain.TaskRecord{rec("A"), rec("A")}, BuildOptions{Location: time.UTC})
	require.Len(t, roots, 2)
	assert.NotEqual(t, roots[0].Key, roots[1].Key)
}

func TestBuild_CycleDropped(t *testing.T) {
	a := rec("A")
	b := rec("B", a)
	a.Children = []*domain.TaskRecord{b}

	roots, diag := build(t, a)
	assert.Equal(t, []string{"A", "B"}, ids(Flatten(roots)))
	assert.Equal(t, []string{"A"}, diag.Cycles)
}

func TestBuild_DuplicateIDsReported(t *testing.T) {
	roots, diag := build(t, rec("A"), rec("B", rec("A")))
	assert.Len(t, Flatten(roots), 3)
	assert.Equal(t, []string{"A"}, diag.DuplicateIDs)
}

func TestBuild_SharedRecordNotOnPathIsKept(t *testing.T) {
	shared := rec("S")
	roots, diag := build(t, rec("A", shared), rec("B", shared))
	assert.Len(t, Flatten(roots), 4)
	assert.Empty(t, diag.Cycles)
}

func TestFlatten_HandBuiltCycleTerminates(t *testing.T) {
	a := &Item{Key: "a"}
	b := &Item{Key: "b"}
	a.Children = []*Item{b}
	b.Children = []*Item{a}
	assert.Len(t, Flatten([]*Item{a}), 2)
}

func TestSetDatesWritesRecord(t *testing.T) {
	roots, _ := build(t, rec("A"))
	it := roots[0]
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 2, 23, 59, 59, 0, time.UTC)
	it.SetDates(start, end, "startDate", "endDate")
	assert.Equal(t, "2024-05-01 00:00:00", it.Record.Fields["startDate"])
	assert.Equal(t, "2024-05-02 23:59:59", it.Record.Fields["endDate"])

	it.SetCollapsed(true)
	assert.True(t, it.Record.Collapsed)
	assert.Equal(t, it, FindByRecord(roots, it.Record))
}

// genTree draws a random forest with random collapse flags.
func genTree(t *rapid.T, depth int, label string) []*domain.TaskRecord {
	n := rapid.IntRange(0, 4).Draw(t, label+"n")
	out := make([]*domain.TaskRecord, 0, n)
	for i := 0; i < n; i++ {
		r := rec(fmt.Sprintf("%s%d", label, i))
		r.Collapsed = rapid.Bool().Draw(t, label+"c")
		if depth < 3 {
			r.Children = genTree(t, depth+1, fmt.Sprintf("%s%d.", label, i))
		}
		out = append(out, r)
	}
	return out
}

func TestFlatten_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		roots, _ := Build(genTree(rt, 0, "r"), BuildOptions{Location: time.UTC, Keys: seqKeys()})
		flat := Flatten(roots)

		expected := 0
		var visible func([]*Item)
		visible = func(items []*Item) {
			for _, it := range items {
				expected++
				if !it.Collapsed {
					visible(it.Children)
				}
			}
		}
		visible(roots)
		if len(flat) != expected {
			rt.Fatalf("flattened %d items, expected %d", len(flat), expected)
		}

		pos := map[*Item]int{}
		for i, it := range flat {
			pos[it] = i
			if it.Index != i {
				rt.Fatalf("position %d recorded as %d", i, it.Index)
			}
			if it.Parent == nil {
				if it.Depth != 0 {
					rt.Fatalf("root at depth %d", it.Depth)
				}
				continue
			}
			p, ok := pos[it.Parent]
			if !ok || p >= i {
				rt.Fatalf("parent of %s does not precede it", it.ID())
			}
			if it.Depth != it.Parent.Depth+1 {
				rt.Fatalf("depth %d under parent depth %d", it.Depth, it.Parent.Depth)
			}
			if it.Parent.Collapsed {
				rt.Fatalf("child of collapsed item %s emitted", it.Parent.ID())
			}
		}
	})
}
