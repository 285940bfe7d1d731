// Package contract holds the plain request/response types the analytics
// engine exposes to the dashboard/report layer. No UI or storage types cross
// this boundary.
package contract

import (
	"time"

	"github.com/dvoicu/atelier/internal/domain"
	"github.com/dvoicu/atelier/internal/stagetime"
)

// GroupBy selects the grouping dimension for stage reports.
type GroupBy string

const (
	GroupByStage    GroupBy = "stage"
	GroupByCategory GroupBy = "category"
)

// TimelineEntry is one reconstructed stage visit on a tray's timeline.
type TimelineEntry struct {
	StageID   string
	StageName string
	Category  domain.StageCategory
	Start     time.Time
	End       time.Time
	Open      bool
	Minutes   float64
}

// TrayTimeline is the full stage history of one tray plus its current stage.
type TrayTimeline struct {
	TrayID         string
	Entries        []TimelineEntry
	CurrentStageID string
	CurrentStage   string
	ElapsedMinutes float64
}

// StageReportRequest asks for total/average stage time across trays.
// A nil Patterns falls back to the default vocabulary.
type StageReportRequest struct {
	TrayIDs  []string
	GroupBy  GroupBy
	Patterns stagetime.PatternTable
}

// StageReport carries totals and averages over the same grouping key, so the
// two breakdowns are always consistent with each other.
type StageReport struct {
	GroupBy        GroupBy
	TotalMinutes   map[string]float64
	AverageMinutes map[string]float64
}

// RangeReportRequest asks for aggregated work-session minutes over a
// reporting window. A nil Location buckets days in the local time zone.
type RangeReportRequest struct {
	TrayIDs    []string
	RangeStart time.Time
	RangeEnd   time.Time
	Location   *time.Location
}

// RangeReport is the dashboard-ready aggregate for one window.
type RangeReport struct {
	RangeStart time.Time
	RangeEnd   time.Time
	Aggregate  stagetime.RangeAggregate
}
