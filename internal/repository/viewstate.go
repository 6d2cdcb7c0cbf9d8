package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

var ErrNotFound = errors.New("not found")

// ViewState is how a dataset was last looked at. It never holds task
// dates; those belong to the dataset file.
type ViewState struct {
	// Dataset is the absolute path of the dataset file.
	Dataset     string
	Sight       domain.SightType
	PanDate     *time.Time
	PanelWidth  float64
	PanelHidden bool
	ScrollTop   float64
	// Collapsed lists record IDs of collapsed groups.
	Collapsed []string
	UpdatedAt time.Time
}

type ViewStateRepo interface {
	Get(ctx context.Context, dataset string) (*ViewState, error)
	List(ctx context.Context) ([]*ViewState, error)
	Save(ctx context.Context, v *ViewState) error
	Delete(ctx context.Context, dataset string) error
}
