package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dvoicu/atelier/internal/db"
	"github.com/dvoicu/atelier/internal/domain"
)

// SQLiteTransitionRepo implements TransitionRepo using a SQLite database.
type SQLiteTransitionRepo struct {
	db db.DBTX
}

// NewSQLiteTransitionRepo creates a new SQLiteTransitionRepo.
func NewSQLiteTransitionRepo(db db.DBTX) *SQLiteTransitionRepo {
	return &SQLiteTransitionRepo{db: db}
}

func (r *SQLiteTransitionRepo) Append(ctx context.Context, ev *domain.StageTransitionEvent) error {
	query := `INSERT INTO stage_transitions (tray_id, from_stage_id, to_stage_id, technician_id, occurred_at)
		VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		ev.TrayID,
		nullableStrToValue(ev.FromStageID),
		ev.ToStageID,
		nullableStrToValue(ev.TechnicianID),
		timeToDB(ev.OccurredAt),
	)
	if err != nil {
		return fmt.Errorf("inserting stage transition: %w", err)
	}
	if seq, err := res.LastInsertId(); err == nil {
		ev.Seq = seq
	}
	return nil
}

func (r *SQLiteTransitionRepo) ListByTray(ctx context.Context, trayID string) ([]domain.StageTransitionEvent, error) {
	query := `SELECT rowid, tray_id, from_stage_id, to_stage_id, technician_id, occurred_at
		FROM stage_transitions
		WHERE tray_id = ?
		ORDER BY occurred_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, trayID)
	if err != nil {
		return nil, fmt.Errorf("listing transitions by tray: %w", err)
	}
	defer rows.Close()
	return r.scanTransitions(rows)
}

func (r *SQLiteTransitionRepo) ListByTrays(ctx context.Context, trayIDs []string, rangeStart, rangeEnd *time.Time) ([]domain.StageTransitionEvent, error) {
	if len(trayIDs) == 0 {
		return nil, nil
	}

	query := `SELECT rowid, tray_id, from_stage_id, to_stage_id, technician_id, occurred_at
		FROM stage_transitions
		WHERE tray_id IN (` + inPlaceholders(len(trayIDs)) + `)`
	args := make([]any, 0, len(trayIDs)+2)
	for _, id := range trayIDs {
		args = append(args, id)
	}
	if rangeStart != nil {
		query += ` AND occurred_at >= ?`
		args = append(args, timeToDB(*rangeStart))
	}
	if rangeEnd != nil {
		query += ` AND occurred_at < ?`
		args = append(args, timeToDB(*rangeEnd))
	}
	query += ` ORDER BY tray_id, occurred_at, rowid`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transitions by trays: %w", err)
	}
	defer rows.Close()
	return r.scanTransitions(rows)
}

func (r *SQLiteTransitionRepo) scanTransitions(rows *sql.Rows) ([]domain.StageTransitionEvent, error) {
	var events []domain.StageTransitionEvent
	for rows.Next() {
		var ev domain.StageTransitionEvent
		var fromStage, technician sql.NullString
		var occurredAtStr string

		err := rows.Scan(&ev.Seq, &ev.TrayID, &fromStage, &ev.ToStageID, &technician, &occurredAtStr)
		if err != nil {
			return nil, fmt.Errorf("scanning transition row: %w", err)
		}

		ev.FromStageID = strPtrFromNull(fromStage)
		ev.TechnicianID = strPtrFromNull(technician)
		ev.OccurredAt, err = time.Parse(time.RFC3339, occurredAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing occurred_at: %w", err)
		}

		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transitions: %w", err)
	}
	return events, nil
}
