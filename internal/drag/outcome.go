package drag

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/hierarchy"
)

var (
	ErrDragInProgress = errors.New("another drag is in progress")
	ErrBarBusy        = errors.New("bar is waiting for confirmation")
	ErrBarDisabled    = errors.New("bar is disabled")
	ErrInvalidGesture = errors.New("gesture does not apply to bar")
	ErrNoGesture      = errors.New("no drag in progress")
	ErrResolved       = errors.New("proposal already resolved")
	ErrCommitting     = errors.New("proposal is already being confirmed")
)

type OutcomeKind int

const (
	// OutcomeNoop means the gesture did not change any date.
	OutcomeNoop OutcomeKind = iota
	// OutcomeInvalid means the gesture produced an unusable range and was
	// rolled back without asking for confirmation.
	OutcomeInvalid
	// OutcomePending means a proposal awaits confirmation.
	OutcomePending
	OutcomeAccepted
	OutcomeRejected
	// OutcomeCancelled means the gesture was abandoned before it ended.
	OutcomeCancelled
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNoop:
		return "noop"
	case OutcomeInvalid:
		return "invalid"
	case OutcomePending:
		return "pending"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	case OutcomeCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("outcome(%d)", int(k))
}

// Outcome reports how a gesture ended. Err carries a confirmer failure on
// rejection; it is informational, the rollback has already happened.
type Outcome struct {
	Kind  OutcomeKind
	Key   string
	Start string
	End   string
	Err   error
}

// Geometry is a bar's horizontal extent in pixels.
type Geometry struct {
	X     float64
	Width float64
}

// Proposal is a date change waiting for confirmation.
type Proposal struct {
	Key    string
	Record *domain.TaskRecord
	Kind   domain.MoveKind
	Start  string
	End    string

	start      time.Time
	end        time.Time
	item       *hierarchy.Item
	before     Geometry
	after      Geometry
	wasInvalid bool
	amp        float64
	resolved   bool
	claimed    bool
}

// Resolved reports whether the proposal has already been settled.
func (p *Proposal) Resolved() bool { return p.resolved }

// Claim marks the proposal as handed to a confirmer. It fails when another
// caller claimed it first or it is already resolved. Callers hold the lock
// that guards the drag engine.
func (p *Proposal) Claim() error {
	switch {
	case p.resolved:
		return ErrResolved
	case p.claimed:
		return ErrCommitting
	}
	p.claimed = true
	return nil
}
