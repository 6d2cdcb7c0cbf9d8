package cli

import (
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/drag"
	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/alexanderramin/gantry/internal/teatest"
	"github.com/alexanderramin/gantry/internal/watch"
)

func newTestChart(t *testing.T, write bool) (*teatest.Driver, *session) {
	t.Helper()
	app := testApp(t)
	sched := &drag.ManualScheduler{}
	s, err := app.openSession(writePlan(t, planYAML), newGlobalFlags(app.Config), os.Stderr, func(o *gantt.Options) {
		o.Scheduler = sched
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	d := teatest.New(t, newChartModel(s, sched, nil, nil, write), teatest.WithSize(120, 12))
	d.DrainInit()
	return d, s
}

func chartOf(d *teatest.Driver) chartModel {
	return d.Model.(chartModel)
}

func TestChartModel_View(t *testing.T) {
	d, _ := newTestChart(t, false)
	view := d.View()

	assert.Contains(t, view, "Design")
	assert.Contains(t, view, "Day")
	assert.Contains(t, view, "2024-03-01")
	assert.Contains(t, view, "4 rows")
}

func TestChartModel_CursorAndCollapse(t *testing.T) {
	d, s := newTestChart(t, false)

	d.PressDown()
	assert.Equal(t, 1, chartOf(d).cursor)
	d.PressUp()
	d.PressUp()
	assert.Equal(t, 0, chartOf(d).cursor, "cursor stops at the first row")

	d.PressSpace()
	assert.Equal(t, []string{"build"}, s.eng.CollapsedIDs())
	assert.Len(t, s.eng.Bars(), 2)

	d.PressDown()
	d.PressDown()
	assert.Equal(t, 1, chartOf(d).cursor, "cursor is clamped to visible rows")
}

func TestChartModel_PanZoomPanel(t *testing.T) {
	d, s := newTestChart(t, false)

	pan := s.eng.Pan()
	d.PressKey('l')
	assert.InDelta(t, pan+60, s.eng.Pan(), 0.001)
	d.PressKey('t')
	d.PressKey('z')
	assert.Equal(t, domain.SightWeek, s.eng.Sight().Type)

	d.PressKey('p')
	_, hidden := s.eng.PanelState()
	assert.True(t, hidden)

	d.PressKey('?')
	assert.True(t, chartOf(d).help.ShowAll)
}

func TestChartModel_NudgeConfirm(t *testing.T) {
	d, s := newTestChart(t, true)

	d.PressDown()
	d.PressKey('L')
	m := chartOf(d)
	require.NotNil(t, m.form)
	require.NotNil(t, m.proposal)
	assert.Equal(t, "2024-03-02 00:00:00", m.proposal.Start)
	assert.Contains(t, d.View(), "Reschedule")
	assert.True(t, s.eng.Pending(m.proposal.Key))

	d.PressEnter()
	m = chartOf(d)
	assert.Nil(t, m.form)
	assert.Contains(t, m.status, "accepted")

	data, err := os.ReadFile(s.path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-03-02 00:00:00")
}

func TestChartModel_NudgeAbort(t *testing.T) {
	d, s := newTestChart(t, true)
	before, err := os.ReadFile(s.path)
	require.NoError(t, err)

	d.PressDown()
	d.PressKey('>')
	require.NotNil(t, chartOf(d).form)

	d.PressCtrlC()
	m := chartOf(d)
	assert.Nil(t, m.form)
	assert.False(t, d.Quitting, "ctrl+c closes the form, not the chart")
	assert.Contains(t, m.status, "rejected")
	assert.Equal(t, "2024-03-05 23:59:59", domain.FormatDate(*s.eng.BarByID("design").Item.End))

	after, err := os.ReadFile(s.path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestChartModel_ScheduleUnscheduled(t *testing.T) {
	d, _ := newTestChart(t, false)

	for range 3 {
		d.PressDown()
	}
	d.PressKey('n')
	m := chartOf(d)
	require.NotNil(t, m.proposal)
	assert.Equal(t, domain.MoveCreate, m.proposal.Kind)
}

func TestChartModel_MouseDrag(t *testing.T) {
	d, s := newTestChart(t, false)
	frame := s.eng.Frame()
	panelCols := int(frame.PanelWidth / 10)

	// Row 1 (design) is on screen line 3; its bar starts at the left edge.
	x := panelCols + 5
	d.Press(x, 3)
	assert.Equal(t, drag.StateDragStart, s.eng.DragState())
	d.Move(x+3, 3)
	assert.Equal(t, drag.StateDragging, s.eng.DragState())
	d.Release(x+3, 3)

	m := chartOf(d)
	require.NotNil(t, m.proposal)
	assert.Equal(t, "2024-03-02 00:00:00", m.proposal.Start)
}

func TestChartModel_MousePanAndWheel(t *testing.T) {
	d, s := newTestChart(t, false)
	frame := s.eng.Frame()
	panelCols := int(frame.PanelWidth / 10)
	pan := s.eng.Pan()

	d.Press(panelCols+40, 6)
	d.Move(panelCols+34, 6)
	d.Release(panelCols+34, 6)
	assert.InDelta(t, pan+60, s.eng.Pan(), 0.001)

	d.Wheel(panelCols+10, 3, tea.MouseButtonWheelRight)
	assert.InDelta(t, pan+70, s.eng.Pan(), 0.001)
}

func TestChartModel_PanelClickCollapses(t *testing.T) {
	d, s := newTestChart(t, false)

	d.Press(1, 2)
	assert.Equal(t, []string{"build"}, s.eng.CollapsedIDs())
}

func TestChartModel_WatchReload(t *testing.T) {
	d, s := newTestChart(t, false)

	require.NoError(t, os.WriteFile(s.path, []byte("tasks:\n  - id: solo\n    name: Solo\n"), 0o644))
	d.Send(watchMsg(watch.Event{Path: s.path}))
	assert.Contains(t, chartOf(d).status, "reloaded")
	assert.Len(t, s.eng.Bars(), 1)

	d.Send(watchMsg(watch.Event{Path: s.path, Err: os.ErrClosed}))
	assert.Contains(t, chartOf(d).status, "watch:")
}

func TestChartModel_Quit(t *testing.T) {
	d, _ := newTestChart(t, false)
	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestHitKind(t *testing.T) {
	_, s := newTestChart(t, false)
	bar := s.eng.BarByID("code")
	require.NotNil(t, bar)

	kind, ok := hitKind(bar, bar.X+1, 10)
	require.True(t, ok)
	assert.Equal(t, domain.MoveLeft, kind)

	kind, _ = hitKind(bar, bar.Right()-1, 10)
	assert.Equal(t, domain.MoveRight, kind)

	kind, _ = hitKind(bar, bar.X+bar.Width/2, 10)
	assert.Equal(t, domain.MoveWhole, kind)

	_, ok = hitKind(bar, bar.Right()+50, 10)
	assert.False(t, ok)

	kind, ok = hitKind(s.eng.BarByID("launch"), 0, 10)
	require.True(t, ok)
	assert.Equal(t, domain.MoveCreate, kind)
}
