package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dvoicu/atelier/internal/db"
	"github.com/dvoicu/atelier/internal/domain"
)

// SQLiteFunnelRepo implements FunnelRepo using a SQLite database.
type SQLiteFunnelRepo struct {
	db db.DBTX
}

// NewSQLiteFunnelRepo creates a new SQLiteFunnelRepo.
func NewSQLiteFunnelRepo(db db.DBTX) *SQLiteFunnelRepo {
	return &SQLiteFunnelRepo{db: db}
}

func (r *SQLiteFunnelRepo) Insert(ctx context.Context, rec *domain.FunnelMoveRecord) error {
	query := `INSERT INTO funnel_moves (id, tray_id, pipeline_id, from_stage_id, to_stage_id, actor_id, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.TrayID,
		rec.PipelineID,
		nullableStrToValue(rec.FromStageID),
		rec.ToStageID,
		nullableStrToValue(rec.ActorID),
		timeToDB(rec.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting funnel move: %w", err)
	}
	return nil
}

func (r *SQLiteFunnelRepo) FindRecent(ctx context.Context, trayID, toStageID string, since time.Time) (*domain.FunnelMoveRecord, error) {
	query := `SELECT id, tray_id, pipeline_id, from_stage_id, to_stage_id, actor_id, recorded_at
		FROM funnel_moves
		WHERE tray_id = ? AND to_stage_id = ? AND recorded_at >= ?
		ORDER BY recorded_at DESC LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, trayID, toStageID, timeToDB(since))

	var rec domain.FunnelMoveRecord
	var fromStage, actor sql.NullString
	var recordedAtStr string
	err := row.Scan(&rec.ID, &rec.TrayID, &rec.PipelineID, &fromStage, &rec.ToStageID, &actor, &recordedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("funnel move: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning funnel move: %w", err)
	}

	rec.FromStageID = strPtrFromNull(fromStage)
	rec.ActorID = strPtrFromNull(actor)
	rec.RecordedAt, err = time.Parse(time.RFC3339, recordedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing recorded_at: %w", err)
	}
	return &rec, nil
}
