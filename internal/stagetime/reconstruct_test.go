package stagetime

import (
	"testing"
	"time"

	"github.com/dvoicu/atelier/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transitionAt(trayID, toStage string, at time.Time, seq int64) domain.StageTransitionEvent {
	return domain.StageTransitionEvent{
		TrayID:     trayID,
		ToStageID:  toStage,
		OccurredAt: at,
		Seq:        seq,
	}
}

func TestReconstruct_Scenario(t *testing.T) {
	// Tray X: ->A at 09:00, A->B at 09:40, B->C at 10:15, now 10:30.
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	now := base.Add(90 * time.Minute)
	events := []domain.StageTransitionEvent{
		transitionAt("tray-x", "stage-a", base, 1),
		transitionAt("tray-x", "stage-b", base.Add(40*time.Minute), 2),
		transitionAt("tray-x", "stage-c", base.Add(75*time.Minute), 3),
	}

	intervals := Reconstruct(events, now)
	require.Len(t, intervals, 3)

	assert.Equal(t, "stage-a", intervals[0].StageID)
	assert.Equal(t, 40*time.Minute, intervals[0].Duration())
	assert.False(t, intervals[0].Open)

	assert.Equal(t, "stage-b", intervals[1].StageID)
	assert.Equal(t, 35*time.Minute, intervals[1].Duration())

	assert.Equal(t, "stage-c", intervals[2].StageID)
	assert.Equal(t, 15*time.Minute, intervals[2].Duration())
	assert.True(t, intervals[2].Open)

	current, ok := Current(events, now)
	require.True(t, ok)
	assert.Equal(t, "stage-c", current.StageID)
	assert.Equal(t, 15*time.Minute, current.Elapsed)
}

func TestReconstruct_Empty(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	assert.Empty(t, Reconstruct(nil, now))

	_, ok := Current(nil, now)
	assert.False(t, ok)
}

func TestReconstruct_SingleEventIsOpen(t *testing.T) {
	at := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	now := at.Add(2 * time.Hour)

	intervals := Reconstruct([]domain.StageTransitionEvent{transitionAt("tray-1", "stage-a", at, 1)}, now)
	require.Len(t, intervals, 1)
	assert.True(t, intervals[0].Open)
	assert.Equal(t, now, intervals[0].End)
	assert.Equal(t, 2*time.Hour, intervals[0].Duration())
}

func TestReconstruct_ContiguityAndCoverage(t *testing.T) {
	base := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	now := base.Add(6 * time.Hour)
	events := []domain.StageTransitionEvent{
		transitionAt("tray-1", "s1", base, 1),
		transitionAt("tray-1", "s2", base.Add(17*time.Minute), 2),
		transitionAt("tray-1", "s3", base.Add(90*time.Minute), 3),
		transitionAt("tray-1", "s1", base.Add(91*time.Minute), 4),
		transitionAt("tray-1", "s4", base.Add(240*time.Minute), 5),
	}

	intervals := Reconstruct(events, now)
	require.Len(t, intervals, len(events))

	// Contiguity: each interval ends where the next begins.
	for i := 0; i < len(intervals)-1; i++ {
		assert.Equal(t, intervals[i].End, intervals[i+1].Start, "interval %d", i)
	}
	assert.Equal(t, now, intervals[len(intervals)-1].End)

	// Coverage: total duration equals now minus the first event, exactly.
	var total time.Duration
	for _, iv := range intervals {
		total += iv.Duration()
	}
	assert.Equal(t, now.Sub(events[0].OccurredAt), total)
}

func TestReconstruct_TiedTimestamps(t *testing.T) {
	// Two events at the same instant: the later one in supplied order wins
	// the open interval; the earlier produces a zero-length interval.
	at := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	now := at.Add(time.Hour)
	events := []domain.StageTransitionEvent{
		transitionAt("tray-1", "stage-a", at, 1),
		transitionAt("tray-1", "stage-b", at, 2),
	}

	intervals := Reconstruct(events, now)
	require.Len(t, intervals, 2)
	assert.Equal(t, time.Duration(0), intervals[0].Duration())
	assert.Equal(t, "stage-b", intervals[1].StageID)
	assert.Equal(t, time.Hour, intervals[1].Duration())
}

func TestTotalsAndAverages_ShareGroupingKey(t *testing.T) {
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	now := base.Add(3 * time.Hour)
	events := []domain.StageTransitionEvent{
		transitionAt("tray-1", "s1", base, 1),
		transitionAt("tray-1", "s2", base.Add(30*time.Minute), 2),
		transitionAt("tray-1", "s1", base.Add(60*time.Minute), 3),
		transitionAt("tray-1", "s3", base.Add(150*time.Minute), 4),
	}
	intervals := Reconstruct(events, now)

	totals := TotalsBy(intervals, ByStage)
	averages := AveragesBy(intervals, ByStage)

	// s1 was visited twice: 30m + 90m.
	assert.Equal(t, 120*time.Minute, totals["s1"])
	assert.Equal(t, 60*time.Minute, averages["s1"])
	assert.Equal(t, 30*time.Minute, totals["s2"])
	assert.Equal(t, 30*time.Minute, averages["s2"])

	// Identical key sets for the two reports.
	assert.Len(t, averages, len(totals))
	for k := range totals {
		assert.Contains(t, averages, k)
	}
}

func TestTotalsBy_Category(t *testing.T) {
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	now := base.Add(2 * time.Hour)
	events := []domain.StageTransitionEvent{
		transitionAt("tray-1", "s1", base, 1),
		transitionAt("tray-1", "s2", base.Add(45*time.Minute), 2),
		transitionAt("tray-1", "s3", base.Add(105*time.Minute), 3),
	}
	intervals := Reconstruct(events, now)

	names := map[string]string{
		"s1": "În Lucru",
		"s2": "Așteptare piese",
		// s3 unresolved: degrades to other, never an error.
	}
	totals := TotalsBy(intervals, ByCategory(names, DefaultPatterns()))

	assert.Equal(t, 45*time.Minute, totals[string(domain.CategoryInProgress)])
	assert.Equal(t, 60*time.Minute, totals[string(domain.CategoryWaiting)])
	assert.Equal(t, 15*time.Minute, totals[string(domain.CategoryOther)])
}
