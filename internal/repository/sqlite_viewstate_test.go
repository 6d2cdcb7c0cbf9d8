package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/testutil"
)

func TestViewStateRepo_SaveAndGet(t *testing.T) {
	repo := NewSQLiteViewStateRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	pan := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	v := &ViewState{
		Dataset:     "/plans/q1.yaml",
		Sight:       domain.SightWeek,
		PanDate:     &pan,
		PanelWidth:  320,
		PanelHidden: true,
		ScrollTop:   76,
		Collapsed:   []string{"b", "a"},
	}
	require.NoError(t, repo.Save(ctx, v))
	assert.False(t, v.UpdatedAt.IsZero())

	got, err := repo.Get(ctx, "/plans/q1.yaml")
	require.NoError(t, err)
	assert.Equal(t, domain.SightWeek, got.Sight)
	require.NotNil(t, got.PanDate)
	assert.True(t, pan.Equal(*got.PanDate))
	assert.Equal(t, 320.0, got.PanelWidth)
	assert.True(t, got.PanelHidden)
	assert.Equal(t, 76.0, got.ScrollTop)
	assert.Equal(t, []string{"a", "b"}, got.Collapsed)
}

func TestViewStateRepo_SaveReplaces(t *testing.T) {
	repo := NewSQLiteViewStateRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &ViewState{Dataset: "d", Sight: domain.SightDay, Collapsed: []string{"a", "a", "b"}}))
	require.NoError(t, repo.Save(ctx, &ViewState{Dataset: "d", Sight: domain.SightMonth, Collapsed: []string{"c"}}))

	got, err := repo.Get(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, domain.SightMonth, got.Sight)
	assert.Nil(t, got.PanDate)
	assert.Equal(t, []string{"c"}, got.Collapsed)
}

func TestViewStateRepo_NotFound(t *testing.T) {
	repo := NewSQLiteViewStateRepo(testutil.NewTestDB(t))
	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), ErrNotFound)
}

func TestViewStateRepo_Validation(t *testing.T) {
	repo := NewSQLiteViewStateRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	assert.Error(t, repo.Save(ctx, &ViewState{Sight: domain.SightDay}))
	assert.Error(t, repo.Save(ctx, &ViewState{Dataset: "d", Sight: "decade"}))
}

func TestViewStateRepo_ListAndDeleteCascade(t *testing.T) {
	conn := testutil.NewTestDB(t)
	repo := NewSQLiteViewStateRepo(conn)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, &ViewState{Dataset: "a", Sight: domain.SightDay, Collapsed: []string{"x"}}))
	require.NoError(t, repo.Save(ctx, &ViewState{Dataset: "b", Sight: domain.SightDay}))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, repo.Delete(ctx, "a"))
	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM collapsed_tasks WHERE dataset = 'a'`).Scan(&n))
	assert.Zero(t, n, "collapsed rows cascade")

	all, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].Dataset)
}

func TestViewStateRepo_SaveRollsBackInUnitOfWork(t *testing.T) {
	conn := testutil.NewTestDB(t)
	boom := errors.New("disk full")
	uow := &testutil.FailOnNthExecUoW{DB: conn, FailOn: 3, Err: boom}

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return NewSQLiteViewStateRepo(tx).Save(ctx, &ViewState{Dataset: "d", Sight: domain.SightDay, Collapsed: []string{"a"}})
	})
	assert.ErrorIs(t, err, boom)

	_, err = NewSQLiteViewStateRepo(conn).Get(context.Background(), "d")
	assert.ErrorIs(t, err, ErrNotFound, "upsert is rolled back with the failed collapsed insert")
}

func TestViewStateRepo_SaveCommitsInUnitOfWork(t *testing.T) {
	conn := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(conn)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return NewSQLiteViewStateRepo(tx).Save(ctx, &ViewState{Dataset: "d", Sight: domain.SightWeek, Collapsed: []string{"g1"}})
	})
	require.NoError(t, err)

	got, err := NewSQLiteViewStateRepo(conn).Get(context.Background(), "d")
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, got.Collapsed)
}
