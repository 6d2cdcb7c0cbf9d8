package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/drag"
	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/alexanderramin/gantry/internal/layout"
	"github.com/alexanderramin/gantry/internal/watch"
)

const (
	// chromeLines are the lines around the rows: two tick headers, the
	// scrollbar, the status line and the help line.
	chromeLines = 5
	panCols     = 6
	tickEvery   = 30 * time.Millisecond
)

type (
	changeMsg struct{}
	tickMsg   struct{}
	watchMsg  watch.Event
)

// pointer tracks a mouse press on the chart.
type pointer struct {
	startX  int
	bar     string
	panning bool
}

// chartModel is the interactive chart preview.
type chartModel struct {
	s       *session
	sched   *drag.ManualScheduler
	changes <-chan struct{}
	events  <-chan watch.Event
	write   bool

	keys    chartKeys
	help    help.Model
	spinner spinner.Model

	width, height int
	panelCols     int
	cursor        int
	hoverMode     bool
	press         *pointer

	form     *huh.Form
	proposal *drag.Proposal
	// accepted is written by the form, which outlives model copies.
	accepted *bool

	status string
	err    error
}

func newChartModel(s *session, sched *drag.ManualScheduler, changes <-chan struct{}, events <-chan watch.Event, write bool) chartModel {
	return chartModel{
		s:         s,
		sched:     sched,
		changes:   changes,
		events:    events,
		write:     write,
		keys:      defaultChartKeys(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StylePurple)),
		panelCols: defaultPanelCols,
	}
}

func waitChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changeMsg{}
	}
}

func waitWatch(ch <-chan watch.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return watchMsg(ev)
	}
}

func autoScrollTick() tea.Cmd {
	return tea.Tick(tickEvery, func(time.Time) tea.Msg { return tickMsg{} })
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m chartModel) Init() tea.Cmd {
	return tea.Batch(waitChange(m.changes), waitWatch(m.events))
}

func (m chartModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.s.fit(msg.Width, max(msg.Height-chromeLines, 1), m.panelCols)
		m.clampCursor()
		return m, nil

	case changeMsg:
		return m, waitChange(m.changes)

	case tickMsg:
		if m.sched != nil && m.sched.Tick() {
			return m, autoScrollTick()
		}
		return m, nil

	case watchMsg:
		if msg.Err != nil {
			m.status = formatter.StyleRed.Render("watch: " + msg.Err.Error())
		} else if err := m.s.reload(); err != nil {
			m.status = formatter.StyleRed.Render(firstLine(err.Error()))
		} else {
			m.status = formatter.Dim("reloaded " + time.Now().Format("15:04:05"))
			m.clampCursor()
		}
		return m, waitWatch(m.events)

	case spinner.TickMsg:
		if m.proposal == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m chartModel) View() string {
	if m.width == 0 {
		return ""
	}
	frame := m.s.eng.Frame()
	chart := formatter.Chart{Scrollbar: true}
	if !m.hoverMode {
		if b := m.cursorBar(); b != nil {
			chart.Cursor = b.Key
		}
	}

	var b strings.Builder
	b.WriteString(formatter.RenderChart(frame, chart))
	b.WriteString(m.statusLine(frame))
	b.WriteString("\n")
	if m.form != nil {
		b.WriteString(m.form.View())
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m chartModel) statusLine(f gantt.Frame) string {
	parts := []string{
		formatter.StyleHeader.Render(f.Sight.Label),
		formatter.Dim(m.s.eng.PanDate().Format(domain.DayLayout)),
		formatter.Dim(fmt.Sprintf("%d rows", f.Total)),
	}
	if m.proposal != nil {
		parts = append(parts, m.spinner.View()+" confirming")
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return strings.Join(parts, "  ")
}

// ── keys ─────────────────────────────────────────────────────────────────────

func (m chartModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.hoverMode = false
	eng := m.s.eng
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Left):
		eng.WheelScroll(-panCols * formatter.DefaultColWidth)
	case key.Matches(msg, m.keys.Right):
		eng.WheelScroll(panCols * formatter.DefaultColWidth)
	case key.Matches(msg, m.keys.Today):
		eng.JumpToToday()
	case key.Matches(msg, m.keys.Jump):
		if b := m.cursorBar(); b != nil {
			if _, err := eng.JumpToBar(b.Key); err != nil {
				m.status = formatter.StyleRed.Render(err.Error())
			}
		}
	case key.Matches(msg, m.keys.Sight):
		m.nextSight()
	case key.Matches(msg, m.keys.Collapse):
		if b := m.cursorBar(); b != nil {
			if _, err := eng.ToggleCollapse(b.Key); err != nil {
				m.status = formatter.StyleRed.Render(err.Error())
			}
			m.clampCursor()
		}
	case key.Matches(msg, m.keys.Panel):
		eng.TogglePanel()
	case key.Matches(msg, m.keys.Earlier):
		return m.nudge(domain.MoveWhole, -1)
	case key.Matches(msg, m.keys.Later):
		return m.nudge(domain.MoveWhole, 1)
	case key.Matches(msg, m.keys.StartEarlier):
		return m.nudge(domain.MoveLeft, -1)
	case key.Matches(msg, m.keys.StartLater):
		return m.nudge(domain.MoveLeft, 1)
	case key.Matches(msg, m.keys.EndEarlier):
		return m.nudge(domain.MoveRight, -1)
	case key.Matches(msg, m.keys.EndLater):
		return m.nudge(domain.MoveRight, 1)
	case key.Matches(msg, m.keys.Schedule):
		return m.nudge(domain.MoveCreate, 0)
	}
	return m, nil
}

// nudge shifts the cursor bar by whole days. Positive days are later.
func (m chartModel) nudge(kind domain.MoveKind, days int) (tea.Model, tea.Cmd) {
	b := m.cursorBar()
	if b == nil {
		return m, nil
	}
	p, out, err := m.s.eng.Nudge(b.Key, kind, days)
	if err != nil {
		m.status = formatter.StyleRed.Render(err.Error())
		return m, nil
	}
	return m.propose(p, out)
}

func (m chartModel) nextSight() {
	sights := m.s.eng.Sights()
	cur := m.s.eng.Sight().Type
	for i, s := range sights {
		if s.Type == cur {
			m.s.eng.SwitchSight(sights[(i+1)%len(sights)].Type)
			return
		}
	}
}

// ── mouse ────────────────────────────────────────────────────────────────────

func (m chartModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	eng := m.s.eng
	frame := eng.Frame()
	cw := float64(formatter.DefaultColWidth)
	panelCols := int(frame.PanelWidth / cw)
	line := msg.Y - 2
	pointerX := float64(msg.X-panelCols) * cw

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			eng.VerticalScroll(max(eng.ScrollTop()-frame.RowHeight, 0))
			return m, nil
		case tea.MouseButtonWheelDown:
			eng.VerticalScroll(eng.ScrollTop() + frame.RowHeight)
			return m, nil
		case tea.MouseButtonWheelLeft:
			eng.WheelScroll(-cw)
			return m, nil
		case tea.MouseButtonWheelRight:
			eng.WheelScroll(cw)
			return m, nil
		case tea.MouseButtonLeft:
		default:
			return m, nil
		}

		row := formatter.RowAt(frame, line)
		if msg.X < panelCols {
			if row != nil && row.Group {
				_, _ = eng.ToggleCollapse(row.Key)
			}
			return m, nil
		}
		if row != nil {
			if kind, ok := hitKind(row, frame.Pan+pointerX, cw); ok {
				if err := eng.DragStart(row.Key, kind, pointerX); err != nil {
					m.status = formatter.StyleRed.Render(err.Error())
					return m, nil
				}
				m.press = &pointer{startX: msg.X, bar: row.Key}
				return m, autoScrollTick()
			}
		}
		m.press = &pointer{startX: msg.X, panning: true}
		return m, nil

	case tea.MouseActionMotion:
		if m.press == nil {
			if line >= 0 && line < formatter.VisibleRows(frame) {
				m.hoverMode = true
				eng.HoverAt((float64(line) + 0.5) * frame.RowHeight)
			} else {
				eng.HoverLeave()
			}
			return m, nil
		}
		delta := float64(msg.X-m.press.startX) * cw
		if m.press.panning {
			eng.PanMove(delta)
			return m, nil
		}
		if err := eng.DragMove(delta, pointerX); err != nil {
			m.status = formatter.StyleRed.Render(err.Error())
		}
		return m, nil

	case tea.MouseActionRelease:
		press := m.press
		m.press = nil
		if press == nil {
			return m, nil
		}
		if press.panning {
			eng.PanEnd()
			return m, nil
		}
		p, out := eng.DragEnd()
		return m.propose(p, out)
	}
	return m, nil
}

// hitKind picks the gesture for a press at absolute pixel x on row: the
// outer column of a bar grabs an edge, unscheduled rows create a bar.
func hitKind(row *layout.Bar, x, colWidth float64) (domain.MoveKind, bool) {
	if row.Invalid {
		return domain.MoveCreate, true
	}
	if x < row.X || x > row.Right() {
		return "", false
	}
	switch {
	case row.Width >= 3*colWidth && x < row.X+colWidth:
		return domain.MoveLeft, true
	case row.Width >= 3*colWidth && x > row.Right()-colWidth:
		return domain.MoveRight, true
	}
	return domain.MoveWhole, true
}

// ── confirmation ─────────────────────────────────────────────────────────────

func (m chartModel) propose(p *drag.Proposal, out drag.Outcome) (tea.Model, tea.Cmd) {
	if p == nil {
		if out.Kind != drag.OutcomeNoop {
			m.status = formatter.Outcome(out)
		}
		return m, nil
	}
	m.proposal = p
	m.accepted = new(bool)
	*m.accepted = true
	m.form = confirmForm(p.Record, p.Start, p.End, m.accepted)
	return m, tea.Batch(m.form.Init(), m.spinner.Tick)
}

func (m chartModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.form.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		return m.resolve(*m.accepted), nil
	case huh.StateAborted:
		return m.resolve(false), nil
	}
	return m, cmd
}

func (m chartModel) resolve(accepted bool) chartModel {
	p := m.proposal
	m.proposal, m.form = nil, nil
	out, err := m.s.eng.Resolve(p, accepted, nil)
	if err != nil {
		m.status = formatter.StyleRed.Render(err.Error())
		return m
	}
	m.status = formatter.Outcome(out)
	if out.Kind == drag.OutcomeAccepted && m.write {
		if err := m.s.save(); err != nil {
			m.err = err
			m.status = formatter.StyleRed.Render(err.Error())
		}
	}
	return m
}

// ── cursor ───────────────────────────────────────────────────────────────────

func (m chartModel) cursorBar() *layout.Bar {
	bars := m.s.eng.Bars()
	if m.cursor < 0 || m.cursor >= len(bars) {
		return nil
	}
	return bars[m.cursor]
}

func (m *chartModel) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()

	frame := m.s.eng.Frame()
	rows := formatter.VisibleRows(frame)
	if rows == 0 {
		return
	}
	top := int(math.Round(frame.ScrollTop / frame.RowHeight))
	switch {
	case m.cursor < top:
		top = m.cursor
	case m.cursor >= top+rows:
		top = m.cursor - rows + 1
	}
	m.s.eng.VerticalScroll(float64(top) * frame.RowHeight)
	m.s.eng.HoverAt((float64(m.cursor-top) + 0.5) * frame.RowHeight)
}

func (m *chartModel) clampCursor() {
	n := len(m.s.eng.Bars())
	m.cursor = min(max(m.cursor, 0), max(n-1, 0))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
