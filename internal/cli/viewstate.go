package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/repository"
)

// viewStore remembers how each dataset was last viewed.
type viewStore struct {
	conn *sql.DB
	repo repository.ViewStateRepo
	uow  db.UnitOfWork
}

// openViewStore returns nil when persistence is disabled.
func (app *App) openViewStore() (*viewStore, error) {
	if app.OpenStore == nil || app.Config.DBPath == "" {
		return nil, nil
	}
	conn, err := app.OpenStore(app.Config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening view store: %w", err)
	}
	return &viewStore{
		conn: conn,
		repo: repository.NewSQLiteViewStateRepo(conn),
		uow:  db.NewSQLiteUnitOfWork(conn),
	}, nil
}

func (v *viewStore) Close() error {
	if v == nil {
		return nil
	}
	return v.conn.Close()
}

// restore applies the stored view of s. keepSight leaves the zoom level
// chosen on the command line alone.
func (v *viewStore) restore(ctx context.Context, s *session, keepSight bool) error {
	if v == nil {
		return nil
	}
	state, err := v.repo.Get(ctx, s.path)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !keepSight {
		s.eng.SwitchSight(state.Sight)
	}
	if state.PanelWidth > 0 {
		s.eng.ResizePanel(state.PanelWidth)
	}
	if state.PanelHidden {
		s.eng.TogglePanel()
	}
	if state.PanDate != nil {
		if err := s.eng.PanToDate(state.PanDate.Format(domain.DayLayout)); err != nil {
			return err
		}
	}
	s.eng.SetCollapsed(state.Collapsed)
	s.eng.VerticalScroll(state.ScrollTop)
	return nil
}

// capture saves the current view of s.
func (v *viewStore) capture(ctx context.Context, s *session) error {
	if v == nil {
		return nil
	}
	pan := s.eng.PanDate()
	width, hidden := s.eng.PanelState()
	state := &repository.ViewState{
		Dataset:     s.path,
		Sight:       s.eng.Sight().Type,
		PanDate:     &pan,
		PanelWidth:  width,
		PanelHidden: hidden,
		ScrollTop:   s.eng.ScrollTop(),
		Collapsed:   s.eng.CollapsedIDs(),
	}
	if !domain.ValidSightTypes[state.Sight] {
		// Dataset-defined sights are not remembered.
		state.Sight = domain.SightDay
	}
	return v.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteViewStateRepo(tx).Save(ctx, state)
	})
}
