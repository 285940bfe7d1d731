package service

import (
	"context"
	"time"

	"github.com/dvoicu/atelier/internal/contract"
	"github.com/dvoicu/atelier/internal/domain"
	"github.com/dvoicu/atelier/internal/repository"
	"github.com/google/uuid"
)

type pipelineService struct {
	stages      repository.StageRepo
	transitions repository.TransitionRepo
	funnel      FunnelService
	observer    UseCaseObserver
}

// NewPipelineService creates a PipelineService. The funnel may be nil, in
// which case moves are appended without funnel recording.
func NewPipelineService(
	stages repository.StageRepo,
	transitions repository.TransitionRepo,
	funnel FunnelService,
	observers ...UseCaseObserver,
) PipelineService {
	return &pipelineService{
		stages:      stages,
		transitions: transitions,
		funnel:      funnel,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *pipelineService) AddStage(ctx context.Context, pipelineID, name string, position int) (*domain.Stage, error) {
	stage := &domain.Stage{
		ID:         uuid.New().String(),
		PipelineID: pipelineID,
		Name:       name,
		Position:   position,
	}
	if err := s.stages.Create(ctx, stage); err != nil {
		return nil, err
	}
	return stage, nil
}

func (s *pipelineService) ListStages(ctx context.Context, pipelineID string) ([]*domain.Stage, error) {
	return s.stages.ListByPipeline(ctx, pipelineID)
}

func (s *pipelineService) MoveTray(ctx context.Context, req contract.TrayMoveRequest) (result *contract.TrayMoveResult, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "tray-move",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"tray": req.TrayID, "to_stage": req.ToStageID},
		})
	}()

	history, err := s.transitions.ListByTray(ctx, req.TrayID)
	if err != nil {
		return nil, err
	}
	var fromStageID *string
	if len(history) > 0 {
		last := history[len(history)-1].ToStageID
		fromStageID = &last
	}

	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	ev := &domain.StageTransitionEvent{
		TrayID:      req.TrayID,
		FromStageID: fromStageID,
		ToStageID:   req.ToStageID,
		OccurredAt:  occurredAt,
	}
	if req.TechnicianID != "" {
		ev.TechnicianID = &req.TechnicianID
	}
	if err = s.transitions.Append(ctx, ev); err != nil {
		return nil, err
	}

	result = &contract.TrayMoveResult{FromStageID: fromStageID}
	if s.funnel != nil {
		funnelReq := contract.FunnelMoveRequest{
			TrayID:      req.TrayID,
			PipelineID:  req.PipelineID,
			FromStageID: fromStageID,
			ToStageID:   req.ToStageID,
		}
		if req.TechnicianID != "" {
			funnelReq.ActorID = &req.TechnicianID
		}
		funnelRes, funnelErr := s.funnel.RecordMove(ctx, funnelReq)
		if funnelErr != nil {
			return nil, funnelErr
		}
		result.Funnel = funnelRes
	}
	return result, nil
}
