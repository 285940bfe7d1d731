package repository

import (
	"context"
	"fmt"

	"github.com/dvoicu/atelier/internal/db"
	"github.com/dvoicu/atelier/internal/domain"
)

// SQLiteStageRepo implements StageRepo using a SQLite database.
type SQLiteStageRepo struct {
	db db.DBTX
}

// NewSQLiteStageRepo creates a new SQLiteStageRepo.
func NewSQLiteStageRepo(db db.DBTX) *SQLiteStageRepo {
	return &SQLiteStageRepo{db: db}
}

func (r *SQLiteStageRepo) Create(ctx context.Context, s *domain.Stage) error {
	query := `INSERT INTO stages (id, pipeline_id, name, position) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.PipelineID, s.Name, s.Position)
	if err != nil {
		return fmt.Errorf("inserting stage: %w", err)
	}
	return nil
}

// ResolveNames maps stage IDs to display names. IDs with no stored stage are
// simply absent from the result; callers degrade them to the other category.
func (r *SQLiteStageRepo) ResolveNames(ctx context.Context, stageIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(stageIDs))
	if len(stageIDs) == 0 {
		return names, nil
	}

	query := `SELECT id, name FROM stages WHERE id IN (` + inPlaceholders(len(stageIDs)) + `)`
	args := make([]any, len(stageIDs))
	for i, id := range stageIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("resolving stage names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scanning stage name: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stage names: %w", err)
	}
	return names, nil
}

func (r *SQLiteStageRepo) ListByPipeline(ctx context.Context, pipelineID string) ([]*domain.Stage, error) {
	query := `SELECT id, pipeline_id, name, position FROM stages
		WHERE pipeline_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, pipelineID)
	if err != nil {
		return nil, fmt.Errorf("listing stages by pipeline: %w", err)
	}
	defer rows.Close()

	var stages []*domain.Stage
	for rows.Next() {
		var s domain.Stage
		if err := rows.Scan(&s.ID, &s.PipelineID, &s.Name, &s.Position); err != nil {
			return nil, fmt.Errorf("scanning stage row: %w", err)
		}
		stages = append(stages, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stages: %w", err)
	}
	return stages, nil
}
