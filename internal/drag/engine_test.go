package drag

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/hierarchy"
	"github.com/alexanderramin/gantry/internal/layout"
	"github.com/alexanderramin/gantry/internal/timescale"
	"github.com/alexanderramin/gantry/internal/viewport"
)

type harness struct {
	scale *timescale.Scale
	view  *viewport.Controller
	roots []*hierarchy.Item
	res   *layout.Result
	sched *ManualScheduler
	eng   *Engine
	n     int
}

func task(id, start, end string) *domain.TaskRecord {
	f := map[string]any{}
	if start != "" {
		f["startDate"] = start
	}
	if end != "" {
		f["endDate"] = end
	}
	return &domain.TaskRecord{ID: id, Fields: f}
}

func newHarness(t *testing.T, records ...*domain.TaskRecord) *harness {
	t.Helper()
	scale, err := timescale.New(domain.DefaultSights(), time.UTC)
	require.NoError(t, err)
	h := &harness{
		scale: scale,
		view:  viewport.NewController(viewport.DefaultWidth, viewport.DefaultHeight, viewport.DefaultPanelWidth),
		sched: &ManualScheduler{},
	}
	h.load(records...)
	h.eng = New(scale, h.view, func(k string) *layout.Bar { return h.res.ByKey(k) }, Options{
		MinWidth:   layout.DefaultMinWidth,
		AutoScroll: DefaultAutoScrollConfig(),
		Scheduler:  h.sched,
	})
	// park the view on March 2024
	h.view.SetPan(scale.ToPixel(time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC)))
	return h
}

func (h *harness) load(records ...*domain.TaskRecord) {
	h.roots, _ = hierarchy.Build(records, hierarchy.BuildOptions{
		Location: time.UTC,
		Keys:     func() string { h.n++; return fmt.Sprintf("k%d", h.n) },
	})
	h.relayout()
}

func (h *harness) relayout() {
	h.res = layout.Compute(hierarchy.Flatten(h.roots), h.scale.Amp(), time.UTC, layout.DefaultConfig())
	if h.eng != nil {
		h.eng.Decorate(h.res)
	}
}

func (h *harness) bar(i int) *layout.Bar { return h.res.Bars[i] }

func TestMoveOneDay_Accepted(t *testing.T) {
	h := newHarness(t, task("a", "2024-03-01", "2024-03-03"))
	b := h.bar(0)
	x0, w0 := b.X, b.Width

	require.NoError(t, h.eng.Start(b, domain.MoveWhole, 300))
	assert.Equal(t, StateDragStart, h.eng.State())
	assert.True(t, h.eng.Pressed())
	require.NoError(t, h.eng.Move(30, 330))
	assert.Equal(t, StateDragging, h.eng.State())
	assert.Equal(t, domain.PhaseMoving, b.Phase)

	p, out := h.eng.End()
	require.NotNil(t, p)
	assert.Equal(t, OutcomePending, out.Kind)
	assert.Equal(t, "2024-03-02 00:00:00", p.Start)
	assert.Equal(t, "2024-03-04 23:59:59", p.End)
	assert.True(t, b.Loading)
	assert.False(t, h.eng.Pressed())
	assert.Equal(t, StateCommitting, h.eng.State())
	assert.Equal(t, "2024-03-01", p.Record.Fields["startDate"], "dates untouched until confirmed")

	res, err := h.eng.Resolve(p, true, nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, res.Kind)
	assert.False(t, b.Loading)
	assert.Equal(t, StateIdle, h.eng.State())
	assert.Equal(t, "2024-03-02 00:00:00", p.Record.Fields["startDate"])
	assert.Equal(t, "2024-03-04 23:59:59", p.Record.Fields["endDate"])

	h.relayout()
	nb := h.bar(0)
	assert.InDelta(t, x0+30, nb.X, 1e-6, "geometry is not rolled back")
	assert.InDelta(t, w0, nb.Width, 1e-3)
}

func TestMoveOneDay_Rejected(t *testing.T) {
	h := newHarness(t, task("a", "2024-03-01", "2024-03-03"))
	b := h.bar(0)
	x0, w0 := b.X, b.Width

	require.NoError(t, h.eng.Start(b, domain.MoveWhole, 300))
	require.NoError(t, h.eng.Move(30, 330))
	p, _ := h.eng.End()
	require.NotNil(t, p)

	out, err := h.eng.Resolve(p, false, nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, out.Kind)
	assert.Equal(t, x0, b.X)
	assert.Equal(t, w0, b.Width)
	assert.False(t, b.Loading)
	assert.Equal(t, "2024-03-01", p.Record.Fields["startDate"])
	assert.Equal(t, "2024-03-03", p.Record.Fields["endDate"])
}

func TestConfirmErrorIsRejection(t *testing.T) {
	h := newHarness(t, task("a", "2024-03-01", "2024-03-03"))
	b := h.bar(0)
	x0 := b.X
	require.NoError(t, h.eng.Start(b, domain.MoveWhole, 300))
	require.NoError(t, h.eng.Move(60, 360))
	p, _ := h.eng.End()

	boom := errors.New("backend down")
	out, err := h.eng.Resolve(p, true, boom)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, out.Kind)
	assert.ErrorIs(t, out.Err, boom)
	assert.Equal(t, x0, b.X)

	_, err = h.eng.Resolve(p, true, nil)
	assert.ErrorIs(t, err, ErrResolved)
	_, err = h.eng.Resolve(nil, true, nil)
	assert.ErrorIs(t, err, ErrNoGesture)
}

func TestProposalClaim(t *testing.T) {
	h := newHarness(t, task("a", "2024-03-01", "2024-03-03"))
	require.NoError(t, h.eng.Start(h.bar(0), domain.MoveWhole, 300))
	require.NoError(t, h.eng.Move(30, 330))
	p, _ := h.eng.End()
	require.NotNil(t, p)

	require.NoError(t, p.Claim())
	assert.ErrorIs(t, p.Claim(), ErrCommitting)

	_, err := h.eng.Resolve(p, true, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, p.Claim(), ErrResolved)
}

func TestRightHandle_EndOfDay(t *testing.T) {
	h := newHarness(t, task("a", "2024-03-01", "2024-03-03"))
	b := h.bar(0)
	x0 := b.X
	require.NoError(t, h.eng.Start(b, domain.MoveRight, 300))
	require.NoError(t, h.eng.Move(30, 330))
	assert.Equal(t, x0, b.X)

	p, _ := h.eng.End()
	require.NotNil(t, p)
	assert.Equal(t, "2024-03-01 00:00:00", p.Start)
	assert.Equal(t, "2024-03-04 23:59:59", p.End)
}

func TestLeftHandle_HourDelta(t *testing.T) {
	h := newHarness(t, task("a", "2024-03-01", "2024-03-03"))
	b := h.bar(0)
	right := b.Right()
	require.NoError(t, h.eng.Start(b, domain.MoveLeft, 300))
	require.NoError(t, h.eng.Move(-2.5, 297.5))
	assert.InDelta(t, right, b.Right(), 1e-9)

	p, _ := h.eng.End()
	require.NotNil(t, p)
	assert.Equal(t, "2024-02-29 22:00:00", p.Start)
	assert.Equal(t, "2024-03-03 23:59:59", p.End)
}

func TestNoop(t *testing.T) {
	h := newHarness(t, task("a", "2024-03-01", "2024-03-03"))
	b := h.bar(0)
	x0 := b.X

	require.NoError(t, h.eng.Start(b, domain.MoveWhole, 300))
	p, out := h.eng.End()
	assert.Nil(t, p)
	assert.Equal(t, OutcomeNoop, out.Kind, "click without movement")

	require.NoError(t, h.eng.Start(b, domain.MoveWhole, 300))
	require.NoError(t, h.eng.Move(0.4, 300.4))
	p, out = h.eng.End()
	assert.Nil(t, p)
	assert.Equal(t, OutcomeNoop, out.Kind, "sub-grid movement changes no date")
	assert.Equal(t, x0, b.X)
	assert.False(t, b.Loading)
	assert.Equal(t, domain.PhaseNone, b.Phase)
}

func TestStartRefusals(t *testing.T) {
	h := newHarness(t, task("a", "2024-03-01", "2024-03-03"), task("b", "", ""), task("c", "2024-03-01", "2024-03-02"))
	valid, invalid, other := h.bar(0), h.bar(1), h.bar(2)

	assert.ErrorIs(t, h.eng.Start(valid, domain.MoveCreate, 0), ErrInvalidGesture)
	assert.ErrorIs(t, h.eng.Start(invalid, domain.MoveWhole, 0), ErrInvalidGesture)
	assert.ErrorIs(t, h.eng.Start(valid, "spin", 0), ErrInvalidGesture)
	assert.ErrorIs(t, h.eng.Start(nil, domain.MoveWhole, 0), ErrInvalidGesture)

	require.NoError(t, h.eng.Start(valid, domain.MoveWhole, 300))
	assert.ErrorIs(t, h.eng.Start(other, domain.MoveWhole, 300), ErrDragInProgress)
	require.NoError(t, h.eng.Move(30, 330))
	p, _ := h.eng.End()
	require.NotNil(t, p)

	assert.ErrorIs(t, h.eng.Start(valid, domain.MoveWhole, 300), ErrBarBusy)

	// another bar can be dragged while the first one is pending
	require.NoError(t, h.eng.Start(other, domain.MoveWhole, 300))
	require.NoError(t, h.eng.Move(30, 330))
	p2, _ := h.eng.End()
	require.NotNil(t, p2)
	assert.Equal(t, 2, h.eng.PendingCount())

	other.Disabled = true
	_, _ = h.eng.Resolve(p2, false, nil)
	assert.ErrorIs(t, h.eng.Start(other, domain.MoveWhole, 300), ErrBarDisabled)

	h.eng.SetDisabled(true)
	_, _ = h.eng.Resolve(p, false, nil)
	assert.ErrorIs(t, h.eng.Start(valid, domain.MoveWhole, 300), ErrBarDisabled)

	assert.ErrorIs(t, h.eng.Move(1, 1), ErrNoGesture)
}

func TestCreateOnInvalidBar(t *testing.T) {
	h := newHarness(t, task("a", "", ""))
	b := h.bar(0)
	pan := h.scale.ToPixel(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	h.view.SetPan(pan)
	pointer := h.scale.ToPixel(time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)) - pan

	require.NoError(t, h.eng.Start(b, domain.MoveCreate, pointer))
	assert.InDelta(t, h.scale.ToPixel(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)), b.X, 1e-6, "seeded from the hovered day")
	require.NoError(t, h.eng.Move(60, pointer+60))

	p, out := h.eng.End()
	require.NotNil(t, p)
	assert.Equal(t, OutcomePending, out.Kind)
	assert.Equal(t, "2024-03-05 00:00:00", p.Start)
	assert.Equal(t, "2024-03-07 23:59:59", p.End)
	assert.False(t, b.Invalid)

	_, err := h.eng.Resolve(p, true, nil)
	require.NoError(t, err)
	h.relayout()
	assert.False(t, h.bar(0).Invalid)
	assert.True(t, h.roots[0].Valid())
}

func TestCreateRejectedRestoresInvalid(t *testing.T) {
	h := newHarness(t, task("a", "", ""))
	b := h.bar(0)
	require.NoError(t, h.eng.Start(b, domain.MoveCreate, 200))
	require.NoError(t, h.eng.Move(45, 245))
	p, _ := h.eng.End()
	require.NotNil(t, p)

	_, err := h.eng.Resolve(p, false, nil)
	require.NoError(t, err)
	assert.True(t, b.Invalid)
	assert.Zero(t, b.X)
	assert.Zero(t, b.Width)
}

func TestCreateLeftward(t *testing.T) {
	h := newHarness(t, task("a", "", ""))
	b := h.bar(0)
	require.NoError(t, h.eng.Start(b, domain.MoveCreate, 400))
	right := b.Right()
	require.NoError(t, h.eng.Move(-60, 340))
	assert.InDelta(t, right, b.Right(), 1e-6)
	assert.Greater(t, b.Width, 60.0)
}

func TestAutoScroll(t *testing.T) {
	h := newHarness(t, task("a", "2024-03-01", "2024-03-03"))
	b := h.bar(0)
	x0 := b.X
	pan := h.view.Pan()
	vw := h.view.ViewWidth()

	require.NoError(t, h.eng.Start(b, domain.MoveWhole, vw-10))
	assert.True(t, h.sched.Running())
	assert.True(t, h.eng.AutoScrolling())

	assert.True(t, h.sched.Tick())
	assert.Equal(t, pan+DefaultAutoScrollRate, h.view.Pan())
	assert.InDelta(t, x0+DefaultAutoScrollRate, b.X, 1e-9, "dragged bar tracks the pointer")

	require.NoError(t, h.eng.Move(0, vw/2))
	assert.False(t, h.eng.AutoScrollStep(), "pointer away from edges")

	_, _ = h.eng.End()
	assert.False(t, h.sched.Running(), "tick stops on drag end")
	assert.False(t, h.sched.Tick())
}

func TestAutoScroll_ReachedEdge(t *testing.T) {
	h := newHarness(t, task("a", "2024-03-01", "2024-03-03"))
	h.view.SetPan(0)
	require.NoError(t, h.eng.Start(h.bar(0), domain.MoveWhole, 5))
	assert.False(t, h.eng.AutoScrollStep())
	assert.Zero(t, h.view.Pan())
	h.eng.Cancel()
	assert.False(t, h.sched.Running(), "tick stops on cancel")
}

func TestAutoScroll_StoppedOnRejection(t *testing.T) {
	h := newHarness(t, task("a", "2024-03-01", "2024-03-03"))
	require.NoError(t, h.eng.Start(h.bar(0), domain.MoveWhole, 300))
	require.NoError(t, h.eng.Move(30, 330))
	p, _ := h.eng.End()
	_, _ = h.eng.Resolve(p, false, nil)
	assert.False(t, h.sched.Running())
}

func TestCancelRestores(t *testing.T) {
	h := newHarness(t, task("a", "2024-03-01", "2024-03-03"))
	b := h.bar(0)
	x0 := b.X
	require.NoError(t, h.eng.Start(b, domain.MoveWhole, 300))
	require.NoError(t, h.eng.Move(90, 390))
	out := h.eng.Cancel()
	assert.Equal(t, OutcomeCancelled, out.Kind)
	assert.Equal(t, x0, b.X)
	assert.Equal(t, StateIdle, h.eng.State())
	assert.Equal(t, OutcomeNoop, h.eng.Cancel().Kind)
}

func TestDecorateKeepsInFlightState(t *testing.T) {
	h := newHarness(t, task("a", "2024-03-01", "2024-03-03"), task("b", "2024-03-01", "2024-03-03"))
	require.NoError(t, h.eng.Start(h.bar(0), domain.MoveWhole, 300))
	require.NoError(t, h.eng.Move(30, 330))
	p, _ := h.eng.End()
	require.NotNil(t, p)
	moved := h.bar(0).X

	require.NoError(t, h.eng.Start(h.bar(1), domain.MoveRight, 300))
	require.NoError(t, h.eng.Move(60, 360))
	width := h.bar(1).Width

	h.relayout()
	assert.True(t, h.bar(0).Loading)
	assert.Equal(t, moved, h.bar(0).X)
	assert.Equal(t, width, h.bar(1).Width)
	assert.Equal(t, domain.PhaseMoving, h.bar(1).Phase)
}

func TestRebind(t *testing.T) {
	a := task("a", "2024-03-01", "2024-03-03")
	b := task("b", "2024-03-01", "2024-03-03")
	h := newHarness(t, a, b)

	require.NoError(t, h.eng.Start(h.bar(0), domain.MoveWhole, 300))
	require.NoError(t, h.eng.Move(30, 330))
	p, _ := h.eng.End()
	require.NotNil(t, p)
	require.NoError(t, h.eng.Start(h.bar(1), domain.MoveWhole, 300))

	// replace the dataset, dropping b
	h.load(a)
	_, cancelled := h.eng.Rebind(h.roots)
	assert.True(t, cancelled, "active drag on a removed record is rolled back")
	assert.Equal(t, h.roots[0].Key, p.Key)
	assert.True(t, h.eng.Pending(p.Key))

	_, err := h.eng.Resolve(p, true, nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02 00:00:00", domain.FormatDate(*h.roots[0].Start))
}

func TestRebind_TransfersActiveDrag(t *testing.T) {
	a := task("a", "2024-03-01", "2024-03-03")
	h := newHarness(t, a)
	require.NoError(t, h.eng.Start(h.bar(0), domain.MoveWhole, 300))
	h.load(a)
	_, cancelled := h.eng.Rebind(h.roots)
	assert.False(t, cancelled)
	key, ok := h.eng.ActiveKey()
	require.True(t, ok)
	assert.Equal(t, h.roots[0].Key, key)
	require.NoError(t, h.eng.Move(30, 330))
	p, _ := h.eng.End()
	require.NotNil(t, p)
}

func TestGeometryInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	sights := domain.DefaultSights()
	for trial := 0; trial < 300; trial++ {
		h := newHarness(t, task("a", "2024-03-01", "2024-03-09"))
		h.scale.Switch(sights[rng.Intn(len(sights))].Type)
		h.relayout()
		b := h.bar(0)
		x0, w0 := b.X, b.Width
		grid := h.scale.HourGrid()
		d := rng.Float64()*400 - 200

		kinds := []domain.MoveKind{domain.MoveLeft, domain.MoveRight, domain.MoveWhole}
		kind := kinds[rng.Intn(len(kinds))]
		require.NoError(t, h.eng.Start(b, kind, 400))
		require.NoError(t, h.eng.Move(d, 400+d))

		switch kind {
		case domain.MoveLeft:
			assert.InDelta(t, x0+w0, b.Right(), 1e-6, "trial %d: right edge fixed", trial)
			assertMultiple(t, b.Width, grid, trial)
			assert.GreaterOrEqual(t, b.Width, float64(layout.DefaultMinWidth), "trial %d", trial)
		case domain.MoveRight:
			assert.Equal(t, x0, b.X, "trial %d: left edge fixed", trial)
			assertMultiple(t, b.Width, grid, trial)
			assert.GreaterOrEqual(t, b.Width, float64(layout.DefaultMinWidth), "trial %d", trial)
		case domain.MoveWhole:
			assert.Equal(t, w0, b.Width, "trial %d: width fixed", trial)
			assertMultiple(t, b.X-x0, grid, trial)
			assert.InDelta(t, snap(d, grid), b.X-x0, 1e-6, "trial %d", trial)
		}
		h.eng.Cancel()
	}
}

func assertMultiple(t *testing.T, v, grid float64, trial int) {
	t.Helper()
	q := v / grid
	assert.InDelta(t, math.Round(q), q, 1e-6, "trial %d: %v is not a multiple of %v", trial, v, grid)
}

func TestSnapAtLeast(t *testing.T) {
	assert.Equal(t, 12.5, snapAtLeast(12.4, 1.25, 11))
	assert.Equal(t, 11.25, snapAtLeast(3, 1.25, 11), "floor first, then the grid")
	// coarse grid: nearest multiple (10) is below the floor, so take 20
	assert.Equal(t, 20.0, snapAtLeast(11, 10, 11))
	assert.Equal(t, 7.0, snapAtLeast(7, 0, 5), "no grid")
}

func TestOutcomeKindString(t *testing.T) {
	assert.Equal(t, "accepted", OutcomeAccepted.String())
	assert.Equal(t, "dragging", StateDragging.String())
}
