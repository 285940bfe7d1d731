package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dvoicu/atelier/internal/contract"
	"github.com/dvoicu/atelier/internal/db"
	"github.com/dvoicu/atelier/internal/importer"
	"github.com/dvoicu/atelier/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewImportService creates an ImportService.
func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// ImportHistory loads, validates, and persists a CRM export in one
// transaction, so a half-written backfill never survives a failure.
func (s *importService) ImportHistory(ctx context.Context, path string) (result *contract.ImportResult, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-history",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"path": path},
		})
	}()

	schema, err := importer.LoadExportSchema(path)
	if err != nil {
		return nil, err
	}
	if errs := importer.ValidateExportSchema(schema); len(errs) > 0 {
		return nil, fmt.Errorf("invalid export file: %w", joinErrors(errs))
	}
	history, err := importer.Convert(schema)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		stages := repository.NewSQLiteStageRepo(tx)
		transitions := repository.NewSQLiteTransitionRepo(tx)
		sessions := repository.NewSQLiteWorkSessionRepo(tx)

		for _, stage := range history.Stages {
			if err := stages.Create(ctx, stage); err != nil {
				return err
			}
		}
		for _, ev := range history.Transitions {
			if err := transitions.Append(ctx, ev); err != nil {
				return err
			}
		}
		for _, session := range history.Sessions {
			if err := sessions.Create(ctx, session); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &contract.ImportResult{
		Stages:      len(history.Stages),
		Transitions: len(history.Transitions),
		Sessions:    len(history.Sessions),
	}, nil
}

func joinErrors(errs []error) error {
	err := errs[0]
	for _, next := range errs[1:] {
		err = fmt.Errorf("%w; %w", err, next)
	}
	return err
}
