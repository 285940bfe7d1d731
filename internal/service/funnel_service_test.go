package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dvoicu/atelier/internal/contract"
	"github.com/dvoicu/atelier/internal/domain"
	"github.com/dvoicu/atelier/internal/repository"
	"github.com/dvoicu/atelier/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFunnelFixture(t *testing.T) (FunnelService, *repository.SQLiteFunnelRepo, *sql.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	stages := repository.NewSQLiteStageRepo(database)
	funnel := repository.NewSQLiteFunnelRepo(database)

	ctx := context.Background()
	require.NoError(t, stages.Create(ctx, testutil.NewTestStage("s-rec", "p1", "Receptie", 1)))
	require.NoError(t, stages.Create(ctx, testutil.NewTestStage("s-work", "p1", "In lucru", 2)))
	require.NoError(t, stages.Create(ctx, testutil.NewTestStage("s-done", "p1", "Finalizat", 3)))
	require.NoError(t, stages.Create(ctx, testutil.NewTestStage("s-picked", "p1", "Predat clientului", 4)))

	return NewFunnelService(funnel, stages, nil, nil), funnel, database
}

func countFunnelMoves(t *testing.T, database *sql.DB) int {
	t.Helper()
	var n int
	err := database.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM funnel_moves`).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestFunnel_RecordsQualifyingMove(t *testing.T) {
	svc, _, database := newFunnelFixture(t)
	from := "s-work"

	result, err := svc.RecordMove(context.Background(), contract.FunnelMoveRequest{
		TrayID:      "tray-1",
		PipelineID:  "p1",
		FromStageID: &from,
		ToStageID:   "s-done",
	})
	require.NoError(t, err)
	assert.True(t, result.Recorded)
	assert.False(t, result.Deduplicated)
	assert.Equal(t, 1, countFunnelMoves(t, database))
}

func TestFunnel_SkipsNonTerminalMove(t *testing.T) {
	svc, _, database := newFunnelFixture(t)
	from := "s-rec"

	result, err := svc.RecordMove(context.Background(), contract.FunnelMoveRequest{
		TrayID:      "tray-1",
		PipelineID:  "p1",
		FromStageID: &from,
		ToStageID:   "s-work",
	})
	require.NoError(t, err)
	assert.False(t, result.Recorded)
	assert.Equal(t, 0, countFunnelMoves(t, database))
}

func TestFunnel_SkipsDoneToDoneMove(t *testing.T) {
	svc, _, database := newFunnelFixture(t)
	from := "s-done"

	// "Predat clientului" is also a terminal name: shuffling between
	// terminal stages must not count the tray twice.
	result, err := svc.RecordMove(context.Background(), contract.FunnelMoveRequest{
		TrayID:      "tray-1",
		PipelineID:  "p1",
		FromStageID: &from,
		ToStageID:   "s-picked",
	})
	require.NoError(t, err)
	assert.False(t, result.Recorded)
	assert.Equal(t, 0, countFunnelMoves(t, database))
}

func TestFunnel_NilFromStageQualifies(t *testing.T) {
	svc, _, database := newFunnelFixture(t)

	result, err := svc.RecordMove(context.Background(), contract.FunnelMoveRequest{
		TrayID:     "tray-1",
		PipelineID: "p1",
		ToStageID:  "s-done",
	})
	require.NoError(t, err)
	assert.True(t, result.Recorded)
	assert.Equal(t, 1, countFunnelMoves(t, database))
}

func TestFunnel_DeduplicatesWithinWindow(t *testing.T) {
	svc, _, database := newFunnelFixture(t)
	from := "s-work"
	req := contract.FunnelMoveRequest{
		TrayID:      "tray-1",
		PipelineID:  "p1",
		FromStageID: &from,
		ToStageID:   "s-done",
	}
	ctx := context.Background()

	first, err := svc.RecordMove(ctx, req)
	require.NoError(t, err)
	assert.True(t, first.Recorded)

	second, err := svc.RecordMove(ctx, req)
	require.NoError(t, err)
	assert.False(t, second.Recorded)
	assert.True(t, second.Deduplicated)
	assert.Equal(t, 1, countFunnelMoves(t, database))
}

func TestFunnel_RecordsAgainOutsideWindow(t *testing.T) {
	svc, funnel, database := newFunnelFixture(t)
	ctx := context.Background()

	// Existing record older than the dedup window.
	require.NoError(t, funnel.Insert(ctx, &domain.FunnelMoveRecord{
		ID:         uuid.New().String(),
		TrayID:     "tray-1",
		PipelineID: "p1",
		ToStageID:  "s-done",
		RecordedAt: time.Now().UTC().Add(-10 * time.Minute),
	}))

	from := "s-work"
	result, err := svc.RecordMove(ctx, contract.FunnelMoveRequest{
		TrayID:      "tray-1",
		PipelineID:  "p1",
		FromStageID: &from,
		ToStageID:   "s-done",
	})
	require.NoError(t, err)
	assert.True(t, result.Recorded, "a re-entry past the window is a new conversion")
	assert.Equal(t, 2, countFunnelMoves(t, database))
}

func TestFunnel_CustomWindowAndPredicate(t *testing.T) {
	database := testutil.NewTestDB(t)
	stages := repository.NewSQLiteStageRepo(database)
	funnel := repository.NewSQLiteFunnelRepo(database)
	ctx := context.Background()
	require.NoError(t, stages.Create(ctx, testutil.NewTestStage("s-wait", "p1", "Asteptare piese", 1)))

	// Count every entry into a waiting stage instead of terminal outcomes.
	intoWaiting := func(from, to domain.StageCategory) bool {
		return to == domain.CategoryWaiting
	}
	svc := NewFunnelService(funnel, stages, nil, intoWaiting)

	require.NoError(t, funnel.Insert(ctx, &domain.FunnelMoveRecord{
		ID:         uuid.New().String(),
		TrayID:     "tray-1",
		PipelineID: "p1",
		ToStageID:  "s-wait",
		RecordedAt: time.Now().UTC().Add(-2 * time.Minute),
	}))

	// A one-minute window ignores the two-minute-old record.
	result, err := svc.RecordMove(ctx, contract.FunnelMoveRequest{
		TrayID:      "tray-1",
		PipelineID:  "p1",
		ToStageID:   "s-wait",
		DedupWindow: time.Minute,
	})
	require.NoError(t, err)
	assert.True(t, result.Recorded)
}

// brokenFindFunnelRepo fails every dedup lookup while counting inserts.
type brokenFindFunnelRepo struct {
	findErr error
	inserts int
}

func (r *brokenFindFunnelRepo) Insert(ctx context.Context, rec *domain.FunnelMoveRecord) error {
	r.inserts++
	return nil
}

func (r *brokenFindFunnelRepo) FindRecent(ctx context.Context, trayID, toStageID string, since time.Time) (*domain.FunnelMoveRecord, error) {
	return nil, r.findErr
}

func TestFunnel_DedupCheckFailureSkipsInsert(t *testing.T) {
	database := testutil.NewTestDB(t)
	stages := repository.NewSQLiteStageRepo(database)
	ctx := context.Background()
	require.NoError(t, stages.Create(ctx, testutil.NewTestStage("s-done", "p1", "Finalizat", 1)))

	boom := errors.New("database is locked")
	funnel := &brokenFindFunnelRepo{findErr: boom}
	svc := NewFunnelService(funnel, stages, nil, nil)

	result, err := svc.RecordMove(ctx, contract.FunnelMoveRequest{
		TrayID:     "tray-1",
		PipelineID: "p1",
		ToStageID:  "s-done",
	})
	require.NoError(t, err, "a failed dedup check degrades, it does not fail the call")
	assert.False(t, result.Recorded)
	assert.ErrorIs(t, result.DedupCheckErr, boom)
	assert.Zero(t, funnel.inserts, "cannot prove uniqueness, so nothing is written")
}
