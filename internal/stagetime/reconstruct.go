package stagetime

import (
	"time"

	"github.com/dvoicu/atelier/internal/domain"
)

// StageInterval is one contiguous span a tray spent in a single stage,
// derived from the transition log. The last interval for a tray is open:
// its End is the supplied now and Open is true.
//
// For one tray the intervals are contiguous and non-overlapping by
// construction and together cover [first event time, now].
type StageInterval struct {
	TrayID  string
	StageID string
	Start   time.Time
	End     time.Time
	Open    bool
}

// Duration returns the interval's length.
func (i StageInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// CurrentStage describes the stage a tray is in right now.
type CurrentStage struct {
	StageID   string
	EnteredAt time.Time
	Elapsed   time.Duration
}

// Reconstruct turns one tray's ordered transition events into stage intervals.
// Events must be pre-filtered to a single tray and sorted ascending by
// OccurredAt with ties broken by insertion order (the store guarantees this).
// Each event opens an interval in its ToStageID; the interval closes at the
// next event's timestamp, or at now for the most recent event.
//
// An empty event list yields an empty result, not an error: a tray with no
// recorded moves is a normal state.
func Reconstruct(events []domain.StageTransitionEvent, now time.Time) []StageInterval {
	if len(events) == 0 {
		return nil
	}
	intervals := make([]StageInterval, 0, len(events))
	for i, ev := range events {
		interval := StageInterval{
			TrayID:  ev.TrayID,
			StageID: ev.ToStageID,
			Start:   ev.OccurredAt,
		}
		if i+1 < len(events) {
			interval.End = events[i+1].OccurredAt
		} else {
			interval.End = now
			interval.Open = true
		}
		intervals = append(intervals, interval)
	}
	return intervals
}

// Current returns the stage the tray occupies as of now, which is always the
// last reconstructed interval. The second return value is false when the tray
// has no events at all.
func Current(events []domain.StageTransitionEvent, now time.Time) (CurrentStage, bool) {
	intervals := Reconstruct(events, now)
	if len(intervals) == 0 {
		return CurrentStage{}, false
	}
	last := intervals[len(intervals)-1]
	return CurrentStage{
		StageID:   last.StageID,
		EnteredAt: last.Start,
		Elapsed:   last.Duration(),
	}, true
}

// GroupKey selects the grouping dimension for totals and averages. Totals and
// averages computed with the same key are always consistent with each other.
type GroupKey func(StageInterval) string

// ByStage groups intervals by raw stage ID.
func ByStage(i StageInterval) string {
	return i.StageID
}

// ByCategory groups intervals by the classified category of their stage name.
// Stages missing from names degrade to CategoryOther rather than failing.
func ByCategory(names map[string]string, table PatternTable) GroupKey {
	return func(i StageInterval) string {
		return string(Classify(names[i.StageID], table))
	}
}

// TotalsBy sums interval durations per group key.
func TotalsBy(intervals []StageInterval, key GroupKey) map[string]time.Duration {
	totals := make(map[string]time.Duration)
	for _, iv := range intervals {
		totals[key(iv)] += iv.Duration()
	}
	return totals
}

// AveragesBy divides each group's total duration by its interval count.
func AveragesBy(intervals []StageInterval, key GroupKey) map[string]time.Duration {
	totals := make(map[string]time.Duration)
	counts := make(map[string]int)
	for _, iv := range intervals {
		k := key(iv)
		totals[k] += iv.Duration()
		counts[k]++
	}
	averages := make(map[string]time.Duration, len(totals))
	for k, total := range totals {
		averages[k] = total / time.Duration(counts[k])
	}
	return averages
}
