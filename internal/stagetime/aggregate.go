package stagetime

import (
	"time"

	"github.com/dvoicu/atelier/internal/domain"
)

// DayKeyLayout formats a day bucket key as a calendar date in the reporting
// time zone.
const DayKeyLayout = "2006-01-02"

// RangeAggregate is the dashboard-ready summary of work sessions over one
// reporting window. It is recomputed from sessions on every call and never
// persisted. Minutes are fractional.
type RangeAggregate struct {
	MinutesByTechnician        map[string]float64
	MinutesByDay               map[string]float64
	MinutesByTechnicianAndTray map[string]map[string]float64
}

// TotalMinutes sums per-technician minutes across the aggregate.
func (a RangeAggregate) TotalMinutes() float64 {
	var total float64
	for _, m := range a.MinutesByTechnician {
		total += m
	}
	return total
}

// Aggregate clips every session to [rangeStart, rangeEnd] and accumulates the
// clipped minutes per technician, per calendar day in loc, and per
// (technician, tray). Open sessions extend to now before clipping. Sessions
// falling entirely outside the window contribute nothing.
//
// Day buckets split at local midnight: a session crossing midnight credits
// each day exactly the minutes spent inside it. Concurrent sessions from
// different technicians on the same tray are summed independently; collab
// work counts as additive labor, never as one shared timer.
func Aggregate(sessions []*domain.WorkSession, rangeStart, rangeEnd, now time.Time, loc *time.Location) RangeAggregate {
	agg := RangeAggregate{
		MinutesByTechnician:        make(map[string]float64),
		MinutesByDay:               make(map[string]float64),
		MinutesByTechnicianAndTray: make(map[string]map[string]float64),
	}
	if loc == nil {
		loc = time.Local
	}

	for _, s := range sessions {
		end := now
		if s.FinishedAt != nil {
			end = *s.FinishedAt
		}

		start := s.StartedAt
		if start.Before(rangeStart) {
			start = rangeStart
		}
		if end.After(rangeEnd) {
			end = rangeEnd
		}
		if !end.After(start) {
			continue
		}

		minutes := end.Sub(start).Minutes()
		agg.MinutesByTechnician[s.TechnicianID] += minutes

		perTray := agg.MinutesByTechnicianAndTray[s.TechnicianID]
		if perTray == nil {
			perTray = make(map[string]float64)
			agg.MinutesByTechnicianAndTray[s.TechnicianID] = perTray
		}
		perTray[s.TrayID] += minutes

		bucketByDay(agg.MinutesByDay, start, end, loc)
	}

	return agg
}

// bucketByDay walks the clipped interval midnight by midnight, crediting each
// calendar day the overlap actually inside it.
func bucketByDay(buckets map[string]float64, start, end time.Time, loc *time.Location) {
	cursor := start
	for cursor.Before(end) {
		local := cursor.In(loc)
		next := nextMidnight(local)
		sliceEnd := end
		if next.Before(end) {
			sliceEnd = next
		}
		buckets[local.Format(DayKeyLayout)] += sliceEnd.Sub(cursor).Minutes()
		cursor = sliceEnd
	}
}

func nextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}
