package service

import (
	"context"
	"time"

	"github.com/dvoicu/atelier/internal/cache"
	"github.com/dvoicu/atelier/internal/contract"
	"github.com/dvoicu/atelier/internal/repository"
	"github.com/dvoicu/atelier/internal/stagetime"
)

// stageNameTTL bounds how long a resolved stage name is served from cache
// before the store is consulted again.
const stageNameTTL = 5 * time.Minute

type reportService struct {
	transitions repository.TransitionRepo
	sessions    repository.WorkSessionRepo
	stages      repository.StageRepo
	names       *cache.Lookup[string]
	patterns    stagetime.PatternTable
	observer    UseCaseObserver
}

// NewReportService creates a ReportService. A nil patterns table falls back
// to the default stage vocabulary.
func NewReportService(
	transitions repository.TransitionRepo,
	sessions repository.WorkSessionRepo,
	stages repository.StageRepo,
	patterns stagetime.PatternTable,
	observers ...UseCaseObserver,
) ReportService {
	if patterns == nil {
		patterns = stagetime.DefaultPatterns()
	}
	return &reportService{
		transitions: transitions,
		sessions:    sessions,
		stages:      stages,
		names:       cache.New[string](stageNameTTL),
		patterns:    patterns,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *reportService) TrayTimeline(ctx context.Context, trayID string) (timeline *contract.TrayTimeline, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "tray-timeline",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"tray": trayID},
		})
	}()

	events, err := s.transitions.ListByTray(ctx, trayID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	intervals := stagetime.Reconstruct(events, now)
	names, err := s.resolveNames(ctx, stageIDsOf(intervals))
	if err != nil {
		return nil, err
	}

	timeline = &contract.TrayTimeline{TrayID: trayID}
	for _, iv := range intervals {
		timeline.Entries = append(timeline.Entries, contract.TimelineEntry{
			StageID:   iv.StageID,
			StageName: names[iv.StageID],
			Category:  stagetime.Classify(names[iv.StageID], s.patterns),
			Start:     iv.Start,
			End:       iv.End,
			Open:      iv.Open,
			Minutes:   iv.Duration().Minutes(),
		})
	}
	if current, ok := stagetime.Current(events, now); ok {
		timeline.CurrentStageID = current.StageID
		timeline.CurrentStage = names[current.StageID]
		timeline.ElapsedMinutes = current.Elapsed.Minutes()
	}
	return timeline, nil
}

func (s *reportService) StageReport(ctx context.Context, req contract.StageReportRequest) (report *contract.StageReport, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "stage-report",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"trays": len(req.TrayIDs), "group_by": string(req.GroupBy)},
		})
	}()

	events, err := s.transitions.ListByTrays(ctx, req.TrayIDs, nil, nil)
	if err != nil {
		return nil, err
	}

	// Reconstruct per tray; events arrive grouped by tray in order.
	now := time.Now().UTC()
	var intervals []stagetime.StageInterval
	for start := 0; start < len(events); {
		end := start
		for end < len(events) && events[end].TrayID == events[start].TrayID {
			end++
		}
		intervals = append(intervals, stagetime.Reconstruct(events[start:end], now)...)
		start = end
	}

	key := stagetime.ByStage
	if req.GroupBy == contract.GroupByCategory {
		patterns := req.Patterns
		if patterns == nil {
			patterns = s.patterns
		}
		names, resolveErr := s.resolveNames(ctx, stageIDsOf(intervals))
		if resolveErr != nil {
			return nil, resolveErr
		}
		key = stagetime.ByCategory(names, patterns)
	}

	report = &contract.StageReport{
		GroupBy:        req.GroupBy,
		TotalMinutes:   toMinutes(stagetime.TotalsBy(intervals, key)),
		AverageMinutes: toMinutes(stagetime.AveragesBy(intervals, key)),
	}
	return report, nil
}

func (s *reportService) RangeReport(ctx context.Context, req contract.RangeReportRequest) (report *contract.RangeReport, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "range-report",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"trays": len(req.TrayIDs)},
		})
	}()

	sessions, err := s.sessions.ListOverlapping(ctx, req.TrayIDs, req.RangeStart, req.RangeEnd)
	if err != nil {
		return nil, err
	}

	loc := req.Location
	if loc == nil {
		loc = time.Local
	}
	report = &contract.RangeReport{
		RangeStart: req.RangeStart,
		RangeEnd:   req.RangeEnd,
		Aggregate:  stagetime.Aggregate(sessions, req.RangeStart, req.RangeEnd, time.Now().UTC(), loc),
	}
	return report, nil
}

func (s *reportService) InvalidateStageCache() {
	s.names.InvalidateAll()
}

// resolveNames resolves stage display names through the lookup cache, one
// single-flight load per stage ID. Unknown stages stay absent and classify
// as the other category downstream.
func (s *reportService) resolveNames(ctx context.Context, stageIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(stageIDs))
	for _, id := range stageIDs {
		name, err := s.names.GetOrLoad(ctx, id, func(ctx context.Context) (string, error) {
			resolved, loadErr := s.stages.ResolveNames(ctx, []string{id})
			if loadErr != nil {
				return "", loadErr
			}
			return resolved[id], nil
		})
		if err != nil {
			return nil, err
		}
		if name != "" {
			names[id] = name
		}
	}
	return names, nil
}

func stageIDsOf(intervals []stagetime.StageInterval) []string {
	seen := make(map[string]bool, len(intervals))
	var ids []string
	for _, iv := range intervals {
		if !seen[iv.StageID] {
			seen[iv.StageID] = true
			ids = append(ids, iv.StageID)
		}
	}
	return ids
}

func toMinutes(durations map[string]time.Duration) map[string]float64 {
	minutes := make(map[string]float64, len(durations))
	for k, d := range durations {
		minutes[k] = d.Minutes()
	}
	return minutes
}
