package cli

import (
	"context"
	"testing"
	"time"

	"github.com/dvoicu/atelier/internal/repository"
	"github.com/dvoicu/atelier/internal/service"
	"github.com/dvoicu/atelier/internal/teatest"
	"github.com/dvoicu/atelier/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboardApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	transitions := repository.NewSQLiteTransitionRepo(database)
	sessions := repository.NewSQLiteWorkSessionRepo(database)
	stages := repository.NewSQLiteStageRepo(database)

	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, stages.Create(ctx, testutil.NewTestStage("s-work", "p1", "In lucru", 1)))
	require.NoError(t, transitions.Append(ctx,
		testutil.NewTestTransition("tray-1", "s-work", now.Add(-45*time.Minute))))
	// Open session started moments ago, so it always lands in today's window.
	require.NoError(t, sessions.Create(ctx, testutil.NewTestSession("tray-1", "ana",
		testutil.WithStartedAt(now.Add(-time.Minute)))))

	return &App{
		Reports: service.NewReportService(transitions, sessions, stages, nil),
	}
}

func TestDashboard_RendersLoadedData(t *testing.T) {
	d := teatest.New(t, newDashboardModel(newDashboardApp(t), []string{"tray-1"}))
	d.DrainInit()

	view := d.View()
	assert.Contains(t, view, "tray-1")
	assert.Contains(t, view, "In lucru")
	assert.Contains(t, view, "ana")
}

func TestDashboard_RefreshAndQuit(t *testing.T) {
	d := teatest.New(t, newDashboardModel(newDashboardApp(t), []string{"tray-1"}))
	d.DrainInit()

	d.Press('r')
	assert.Contains(t, d.View(), "tray-1")

	d.Press('q')
	assert.True(t, d.Quitting)
}

func TestDashboard_EmptyTrayStillRenders(t *testing.T) {
	d := teatest.New(t, newDashboardModel(newDashboardApp(t), []string{"tray-ghost"}))
	d.DrainInit()

	view := d.View()
	assert.Contains(t, view, "tray-ghost")
	assert.Contains(t, view, "no history")
}
