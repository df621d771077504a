package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storygame/internal/common"
	"storygame/internal/domain/model"
)

type LevelRepository interface {
	List(ctx context.Context) ([]model.Level, error)
	FindByID(ctx context.Context, id int64) (*model.Level, error)
	FindByNumber(ctx context.Context, levelNumber int) (*model.Level, error)
}

type pgLevelRepository struct {
	db *sql.DB
}

func NewPgLevelRepository(db *sql.DB) LevelRepository {
	return &pgLevelRepository{db: db}
}

func (r *pgLevelRepository) List(ctx context.Context) ([]model.Level, error) {
	query := `SELECT id, level_number, title, slug, description, key_code, reward_credits, created_at
	          FROM levels ORDER BY level_number ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgLevelRepository.List query: %w", err)
	}
	defer rows.Close()

	levels := []model.Level{}
	for rows.Next() {
		var l model.Level
		if err := rows.Scan(&l.ID, &l.LevelNumber, &l.Title, &l.Slug, &l.Description,
			&l.KeyCode, &l.RewardCredits, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgLevelRepository.List scan: %w", err)
		}
		levels = append(levels, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgLevelRepository.List rows.Err: %w", err)
	}
	return levels, nil
}

func (r *pgLevelRepository) FindByID(ctx context.Context, id int64) (*model.Level, error) {
	query := `SELECT id, level_number, title, slug, description, key_code, reward_credits, created_at
	          FROM levels WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), "FindByID")
}

func (r *pgLevelRepository) FindByNumber(ctx context.Context, levelNumber int) (*model.Level, error) {
	query := `SELECT id, level_number, title, slug, description, key_code, reward_credits, created_at
	          FROM levels WHERE level_number = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, levelNumber), "FindByNumber")
}

func (r *pgLevelRepository) scanOne(row *sql.Row, op string) (*model.Level, error) {
	level := &model.Level{}
	err := row.Scan(&level.ID, &level.LevelNumber, &level.Title, &level.Slug,
		&level.Description, &level.KeyCode, &level.RewardCredits, &level.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgLevelRepository.%s: %w", op, err)
	}
	return level, nil
}
