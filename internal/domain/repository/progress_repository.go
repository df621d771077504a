package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storygame/internal/domain/model"
)

type ProgressRepository interface {
	// MarkCompleted upserts the (user, level) progress row to completed=TRUE
	// and reports whether the row had already been completed before this call.
	MarkCompleted(ctx context.Context, tx *sql.Tx, userID, levelID int64) (alreadyCompleted bool, err error)
	CountCompleted(ctx context.Context, tx *sql.Tx, userID int64) (int, error)
	ListByUser(ctx context.Context, userID int64) ([]model.LevelCompletion, error)
}

type pgProgressRepository struct {
	db *sql.DB
}

func NewPgProgressRepository(db *sql.DB) ProgressRepository {
	return &pgProgressRepository{db: db}
}

// MarkCompleted relies on the unique (user_id, level_id) constraint so the
// already-completed check and the completion transition are one statement.
// The conditional DO UPDATE returns no row when the progress row is already
// completed, which is how concurrent duplicate submissions are kept from
// double-awarding.
func (r *pgProgressRepository) MarkCompleted(ctx context.Context, tx *sql.Tx, userID, levelID int64) (bool, error) {
	query := `INSERT INTO user_progress (user_id, level_id, completed, score, completed_at)
	          VALUES ($1, $2, TRUE, 0, NOW())
	          ON CONFLICT (user_id, level_id)
	          DO UPDATE SET completed = TRUE, completed_at = NOW()
	          WHERE user_progress.completed = FALSE
	          RETURNING id`

	var row *sql.Row
	if tx != nil {
		row = tx.QueryRowContext(ctx, query, userID, levelID)
	} else {
		row = r.db.QueryRowContext(ctx, query, userID, levelID)
	}

	var id int64
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Row exists and was completed before; nothing changed.
			return true, nil
		}
		return false, fmt.Errorf("pgProgressRepository.MarkCompleted: %w", err)
	}
	return false, nil
}

func (r *pgProgressRepository) CountCompleted(ctx context.Context, tx *sql.Tx, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM user_progress WHERE user_id = $1 AND completed = TRUE`

	var row *sql.Row
	if tx != nil {
		row = tx.QueryRowContext(ctx, query, userID)
	} else {
		row = r.db.QueryRowContext(ctx, query, userID)
	}

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("pgProgressRepository.CountCompleted: %w", err)
	}
	return count, nil
}

// ListByUser projects every level with the user's completion state. Users
// with no progress rows simply read as zero completions.
func (r *pgProgressRepository) ListByUser(ctx context.Context, userID int64) ([]model.LevelCompletion, error) {
	query := `SELECT l.id, l.level_number, l.title,
	                 COALESCE(up.completed, FALSE) AS completed,
	                 up.completed_at
	          FROM levels l
	          LEFT JOIN user_progress up ON up.level_id = l.id AND up.user_id = $1
	          ORDER BY l.level_number ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgProgressRepository.ListByUser query: %w", err)
	}
	defer rows.Close()

	progress := []model.LevelCompletion{}
	for rows.Next() {
		var lc model.LevelCompletion
		if err := rows.Scan(&lc.LevelID, &lc.LevelNumber, &lc.Title, &lc.Completed, &lc.CompletedAt); err != nil {
			return nil, fmt.Errorf("pgProgressRepository.ListByUser scan: %w", err)
		}
		progress = append(progress, lc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProgressRepository.ListByUser rows.Err: %w", err)
	}
	return progress, nil
}
