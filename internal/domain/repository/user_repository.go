package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storygame/internal/common"
	"storygame/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByCredentials(ctx context.Context, email, username string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	AddCredits(ctx context.Context, tx *sql.Tx, userID int64, amount int) (int, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (email, username, credits)
	          VALUES ($1, $2, $3)
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, user.Email, user.Username, user.Credits).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("user with given email or username already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByCredentials(ctx context.Context, email, username string) (*model.User, error) {
	query := `SELECT id, email, username, credits, created_at
	          FROM users WHERE email = $1 AND username = $2`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, email, username).Scan(
		&user.ID, &user.Email, &user.Username, &user.Credits, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByCredentials: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, email, username, credits, created_at
	          FROM users WHERE id = $1`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.Username, &user.Credits, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByID: %w", err)
	}
	return user, nil
}

// AddCredits atomically increments a user's balance and returns the new
// value. A zero amount still round-trips so callers always get the balance.
func (r *pgUserRepository) AddCredits(ctx context.Context, tx *sql.Tx, userID int64, amount int) (int, error) {
	query := `UPDATE users SET credits = credits + $1 WHERE id = $2 RETURNING credits`

	var row *sql.Row
	if tx != nil {
		row = tx.QueryRowContext(ctx, query, amount, userID)
	} else {
		row = r.db.QueryRowContext(ctx, query, amount, userID)
	}

	var credits int
	if err := row.Scan(&credits); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrNotFound
		}
		return 0, fmt.Errorf("pgUserRepository.AddCredits: %w", err)
	}
	return credits, nil
}
