package domain

// SightType names a zoom level of the time scale.
type SightType string

const (
	SightDay      SightType = "day"
	SightWeek     SightType = "week"
	SightMonth    SightType = "month"
	SightQuarter  SightType = "quarter"
	SightHalfYear SightType = "halfYear"
)

// ValidSightTypes is the canonical set of accepted sight type strings.
var ValidSightTypes = map[SightType]bool{
	SightDay: true, SightWeek: true, SightMonth: true,
	SightQuarter: true, SightHalfYear: true,
}

// MoveKind is the handle a drag gesture was started from.
type MoveKind string

const (
	MoveLeft   MoveKind = "left"
	MoveRight  MoveKind = "right"
	MoveWhole  MoveKind = "move"
	MoveCreate MoveKind = "create"
)

// ValidMoveKinds is the canonical set of accepted move kind strings.
var ValidMoveKinds = map[MoveKind]bool{
	MoveLeft: true, MoveRight: true, MoveWhole: true, MoveCreate: true,
}

// GesturePhase is the drag phase reported on a bar.
type GesturePhase string

const (
	PhaseNone   GesturePhase = ""
	PhaseStart  GesturePhase = "start"
	PhaseMoving GesturePhase = "moving"
	PhaseEnd    GesturePhase = "end"
)

type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// DependencyType relates the edges of two bars.
type DependencyType string

const (
	DepStartStart   DependencyType = "start_start"
	DepStartFinish  DependencyType = "start_finish"
	DepFinishStart  DependencyType = "finish_start"
	DepFinishFinish DependencyType = "finish_finish"
)

// ValidDependencyTypes is the canonical set of accepted dependency type strings.
var ValidDependencyTypes = map[DependencyType]bool{
	DepStartStart: true, DepStartFinish: true,
	DepFinishStart: true, DepFinishFinish: true,
}
