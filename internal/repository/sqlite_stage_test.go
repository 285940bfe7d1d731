package repository

import (
	"context"
	"testing"

	"github.com/dvoicu/atelier/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageRepo_ResolveNames(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteStageRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestStage("s1", "pipe-1", "In Lucru", 1)))
	require.NoError(t, repo.Create(ctx, testutil.NewTestStage("s2", "pipe-1", "Finalizat", 2)))

	names, err := repo.ResolveNames(ctx, []string{"s1", "s2", "s-missing"})
	require.NoError(t, err)
	assert.Equal(t, "In Lucru", names["s1"])
	assert.Equal(t, "Finalizat", names["s2"])

	// Unknown IDs are absent, not an error.
	_, ok := names["s-missing"]
	assert.False(t, ok)
}

func TestStageRepo_ResolveNames_Empty(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteStageRepo(database)

	names, err := repo.ResolveNames(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestStageRepo_ListByPipeline_OrderedByPosition(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteStageRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestStage("s2", "pipe-1", "In Lucru", 2)))
	require.NoError(t, repo.Create(ctx, testutil.NewTestStage("s1", "pipe-1", "Primit", 1)))
	require.NoError(t, repo.Create(ctx, testutil.NewTestStage("s9", "pipe-2", "Other Pipe", 1)))

	stages, err := repo.ListByPipeline(ctx, "pipe-1")
	require.NoError(t, err)
	require.Len(t, stages, 2)
	assert.Equal(t, "s1", stages[0].ID)
	assert.Equal(t, "s2", stages[1].ID)
}
