package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
)

// SQLiteViewStateRepo implements ViewStateRepo. Save writes two tables;
// run it inside a UnitOfWork.
type SQLiteViewStateRepo struct {
	db db.DBTX
}

func NewSQLiteViewStateRepo(conn db.DBTX) *SQLiteViewStateRepo {
	return &SQLiteViewStateRepo{db: conn}
}

const viewStateColumns = `dataset, sight, pan_date, panel_width, panel_hidden, scroll_top, updated_at`

func (r *SQLiteViewStateRepo) Get(ctx context.Context, dataset string) (*ViewState, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+viewStateColumns+` FROM view_states WHERE dataset = ?`, dataset)
	v, err := scanViewState(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("view state %s: %w", dataset, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning view state: %w", err)
	}
	if v.Collapsed, err = r.collapsed(ctx, dataset); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *SQLiteViewStateRepo) List(ctx context.Context) ([]*ViewState, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+viewStateColumns+` FROM view_states ORDER BY updated_at DESC, dataset`)
	if err != nil {
		return nil, fmt.Errorf("listing view states: %w", err)
	}
	defer rows.Close()

	var out []*ViewState
	for rows.Next() {
		v, err := scanViewState(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning view state: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing view states: %w", err)
	}
	for _, v := range out {
		if v.Collapsed, err = r.collapsed(ctx, v.Dataset); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Save upserts the view and replaces its collapsed set.
func (r *SQLiteViewStateRepo) Save(ctx context.Context, v *ViewState) error {
	if v.Dataset == "" {
		return fmt.Errorf("saving view state: dataset is required")
	}
	if !domain.ValidSightTypes[v.Sight] {
		return fmt.Errorf("saving view state: invalid sight %q", v.Sight)
	}
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO view_states (`+viewStateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(dataset) DO UPDATE SET
			sight = excluded.sight,
			pan_date = excluded.pan_date,
			panel_width = excluded.panel_width,
			panel_hidden = excluded.panel_hidden,
			scroll_top = excluded.scroll_top,
			updated_at = excluded.updated_at`,
		v.Dataset,
		string(v.Sight),
		nullableTimeToString(v.PanDate, time.RFC3339),
		v.PanelWidth,
		boolToInt(v.PanelHidden),
		v.ScrollTop,
		now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting view state: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM collapsed_tasks WHERE dataset = ?`, v.Dataset); err != nil {
		return fmt.Errorf("clearing collapsed tasks: %w", err)
	}
	for _, id := range v.Collapsed {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO collapsed_tasks (dataset, task_id) VALUES (?, ?)`, v.Dataset, id); err != nil {
			return fmt.Errorf("saving collapsed task %s: %w", id, err)
		}
	}
	v.UpdatedAt = now.Truncate(time.Second)
	return nil
}

func (r *SQLiteViewStateRepo) Delete(ctx context.Context, dataset string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM view_states WHERE dataset = ?`, dataset)
	if err != nil {
		return fmt.Errorf("deleting view state: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("view state %s: %w", dataset, ErrNotFound)
	}
	return nil
}

func (r *SQLiteViewStateRepo) collapsed(ctx context.Context, dataset string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT task_id FROM collapsed_tasks WHERE dataset = ?`, dataset)
	if err != nil {
		return nil, fmt.Errorf("listing collapsed tasks: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning collapsed task: %w", err)
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanViewState(s scanner) (*ViewState, error) {
	var (
		v       ViewState
		sight   string
		panDate sql.NullString
		hidden  int
		updated string
	)
	if err := s.Scan(&v.Dataset, &sight, &panDate, &v.PanelWidth, &hidden, &v.ScrollTop, &updated); err != nil {
		return nil, err
	}
	v.Sight = domain.SightType(sight)
	v.PanDate = parseNullableTime(panDate, time.RFC3339)
	v.PanelHidden = intToBool(hidden)
	if t, err := time.Parse(time.RFC3339, updated); err == nil {
		v.UpdatedAt = t
	}
	return &v, nil
}
