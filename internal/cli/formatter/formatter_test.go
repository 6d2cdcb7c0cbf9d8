package formatter

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/drag"
	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/alexanderramin/gantry/internal/testutil"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func newEngine(t *testing.T) *gantt.Engine {
	t.Helper()
	opts := gantt.DefaultOptions()
	opts.Location = time.UTC
	opts.Now = func() time.Time { return time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC) }
	opts.Keys = testutil.SeqKeys()
	opts.HoverDelay = 0
	eng, err := gantt.New(opts)
	require.NoError(t, err)
	t.Cleanup(eng.Close)
	eng.SetData([]*domain.TaskRecord{
		testutil.NewTestTask("g", testutil.WithName("Launch"), testutil.WithDates("2024-03-04", "2024-03-15"), testutil.WithChildren(
			testutil.NewTestTask("a", testutil.WithName("Design"), testutil.WithDates("2024-03-04", "2024-03-08")),
			testutil.NewTestTask("b", testutil.WithName("Build"), testutil.WithDates("2024-03-11", "2024-03-15"), testutil.Disabled()),
		)),
		testutil.NewTestTask("u", testutil.WithName("Unscheduled")),
		testutil.NewTestTask("far", testutil.WithName("Far"), testutil.WithDates("2025-01-01", "2025-01-02")),
	}, "", "")
	return eng
}

func TestRenderChart(t *testing.T) {
	eng := newEngine(t)
	out := stripANSI(RenderChart(eng.Frame(), Chart{ColWidth: 10, Scrollbar: true}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// Two header lines, five rows and the scrollbar.
	require.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[0], "Day"))
	assert.Contains(t, lines[2], "▾ Launch")
	assert.Contains(t, lines[2], "━")
	assert.Contains(t, lines[3], "  Design")
	assert.Contains(t, lines[3], "█")
	assert.Contains(t, lines[4], "▒", "disabled bars are shaded")
	assert.Contains(t, lines[5], "Unscheduled")
	assert.NotContains(t, lines[5], "█")
	assert.Contains(t, lines[6], "▶", "offscreen bar gets a thumb")
	assert.Contains(t, lines[3], "│", "today line crosses rows")
	assert.Contains(t, lines[7], "━")
}

func TestRenderChart_CollapsedAndCursor(t *testing.T) {
	eng := newEngine(t)
	_, err := eng.ToggleCollapse("k1")
	require.NoError(t, err)

	f := eng.Frame()
	out := stripANSI(RenderChart(f, Chart{Cursor: "k1"}))
	assert.Contains(t, out, "▸ Launch")
	assert.NotContains(t, out, "Design")

	assert.Equal(t, "k1", RowAt(f, 0).Key)
	assert.Equal(t, "k4", RowAt(f, 1).Key)
	assert.Nil(t, RowAt(f, -1))
	assert.Nil(t, RowAt(f, 50))
}

func TestRenderChart_Degenerate(t *testing.T) {
	assert.Empty(t, RenderChart(gantt.Frame{}, Chart{}))
	assert.Zero(t, VisibleRows(gantt.Frame{BodyHeight: 100}))
}

func TestRenderTable(t *testing.T) {
	out := stripANSI(RenderTable([]string{"TYPE", "LABEL"}, [][]string{{"day", "Day"}, {"month", "Month"}}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "TYPE   LABEL", lines[0])
	assert.Equal(t, "─────  ─────", lines[1])
	assert.Equal(t, "month  Month", lines[3])
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderBox(t *testing.T) {
	lines := strings.Split(stripANSI(RenderBox("Zoom levels", "day")), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "╭"))
	assert.Contains(t, lines[1], "ZOOM LEVELS")
	assert.Contains(t, lines[2], "│ day")
	assert.True(t, strings.HasPrefix(lines[3], "╰"))

	assert.Len(t, strings.Split(stripANSI(RenderBox("", "day")), "\n"), 3)
}

func TestRenderTree(t *testing.T) {
	out := stripANSI(RenderTree([]TreeItem{
		{Title: "Launch", Status: TreeGroup, Detail: "03-04 → 03-15"},
		{Title: "Design", Level: 1},
		{Title: "Ship", Level: 1, IsLast: true, Status: TreeUnscheduled},
	}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "▾ Launch   [ 03-04 → 03-15 ]", lines[0])
	assert.Equal(t, "├─ Design", lines[1])
	assert.Equal(t, "└─ Ship", lines[2])
	assert.Empty(t, RenderTree(nil))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "● accepted 2024-03-02 → 2024-03-04",
		stripANSI(Outcome(drag.Outcome{Kind: drag.OutcomeAccepted, Start: "2024-03-02", End: "2024-03-04"})))
	assert.Equal(t, "● rejected (offline)",
		stripANSI(Outcome(drag.Outcome{Kind: drag.OutcomeRejected, Err: errors.New("offline")})))
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "Today"},
		{day, "Tomorrow"},
		{-day, "Yesterday"},
		{3 * day, "In 3d"},
		{-3 * day, "3d ago"},
		{21 * day, "In 3w"},
		{90 * day, "In 3mo"},
		{-14 * day, "2w ago"},
		{-90 * day, "3mo ago"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(now.Add(tt.in), now))
		})
	}
}

func TestTruncateAndPad(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "ab…", Truncate("abcd", 3))
	assert.Empty(t, Truncate("abc", 0))
	assert.Equal(t, "ab  ", Pad("ab", 4))
	assert.Equal(t, "abcd", Pad("abcd", 2))
}
