package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	history, err := Convert(validExport())
	require.NoError(t, err)

	require.Len(t, history.Stages, 2)
	assert.Equal(t, "p1", history.Stages[0].PipelineID)
	assert.Equal(t, "Receptie", history.Stages[0].Name)

	require.Len(t, history.Transitions, 2)
	assert.Nil(t, history.Transitions[0].FromStageID)
	require.NotNil(t, history.Transitions[1].FromStageID)
	assert.Equal(t, "s-rec", *history.Transitions[1].FromStageID)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 40, 0, 0, time.UTC), history.Transitions[1].OccurredAt.UTC())

	require.Len(t, history.Sessions, 1)
	s := history.Sessions[0]
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "ana", s.TechnicianID)
	require.NotNil(t, s.FinishedAt)
	assert.Equal(t, time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC), s.FinishedAt.UTC())
}

func TestConvert_OpenSession(t *testing.T) {
	schema := validExport()
	schema.Sessions[0].FinishedAt = nil

	history, err := Convert(schema)
	require.NoError(t, err)
	assert.Nil(t, history.Sessions[0].FinishedAt)
}

func TestConvert_EmptyFromStageBecomesNil(t *testing.T) {
	schema := validExport()
	empty := ""
	schema.Transitions[0].FromStageID = &empty

	history, err := Convert(schema)
	require.NoError(t, err)
	assert.Nil(t, history.Transitions[0].FromStageID)
}

func TestConvert_PreservesTransitionOrder(t *testing.T) {
	schema := validExport()
	// Tie on occurred_at: file order is the tiebreak downstream, so the
	// converter must not reorder.
	schema.Transitions[1].OccurredAt = schema.Transitions[0].OccurredAt

	history, err := Convert(schema)
	require.NoError(t, err)
	assert.Equal(t, "s-rec", history.Transitions[0].ToStageID)
	assert.Equal(t, "s-work", history.Transitions[1].ToStageID)
}
