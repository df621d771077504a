package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"storygame/internal/common"
	"storygame/internal/domain/model"
	"storygame/internal/domain/repository"

	"go.uber.org/zap"
)

// ProgressService is the progress engine: it validates submitted key
// phrases, applies the at-most-once reward, and recomputes unlock state.
type ProgressService struct {
	userRepo     repository.UserRepository
	levelRepo    repository.LevelRepository
	progressRepo repository.ProgressRepository
	db           *sql.DB // For transactions
	logger       *zap.Logger
}

func NewProgressService(
	userRepo repository.UserRepository,
	levelRepo repository.LevelRepository,
	progressRepo repository.ProgressRepository,
	db *sql.DB,
	logger *zap.Logger,
) *ProgressService {
	return &ProgressService{
		userRepo:     userRepo,
		levelRepo:    levelRepo,
		progressRepo: progressRepo,
		db:           db,
		logger:       logger,
	}
}

type SubmitKeyResult struct {
	Correct              bool   `json:"correct"`
	RewardCreditsAwarded int    `json:"reward_credits_awarded"`
	NewCredits           int    `json:"new_credits"`
	KeysCollected        int    `json:"keys_collected"`
	CompletedLevels      int    `json:"completed_levels"`
	NextLevelID          *int64 `json:"next_level_id"`
}

type CompleteLevelResult struct {
	UserID          int64 `json:"user_id"`
	CompletedLevels int   `json:"completed_levels"`
	KeysCollected   int   `json:"keys_collected"`
}

type UserProgressResult struct {
	UserID                  int64                   `json:"user_id"`
	Levels                  []model.LevelCompletion `json:"levels"`
	CompletedLevels         int                     `json:"completed_levels"`
	KeysCollected           int                     `json:"keys_collected"`
	NextUnlockedLevelNumber int                     `json:"next_unlocked_level_number"`
}

// NormalizeKey strips surrounding whitespace and uppercases, so " human ",
// "Human" and "HUMAN" all compare equal. Stored key codes are already in
// this form.
func NormalizeKey(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// SubmitKey checks a key phrase against a level's expected key code. A wrong
// guess mutates nothing. A correct guess marks the level completed and, the
// first time only, awards the level's reward credits; the completion upsert,
// credit update and recount commit as one transaction.
func (s *ProgressService) SubmitKey(ctx context.Context, userID, levelID int64, rawKey string) (*SubmitKeyResult, error) {
	key := NormalizeKey(rawKey)
	if key == "" {
		return nil, common.Errorf("submitted key must not be empty: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, common.Errorf("user not found: %w", err)
	}

	level, err := s.levelRepo.FindByID(ctx, levelID)
	if err != nil {
		return nil, common.Errorf("level not found: %w", err)
	}

	if strings.TrimSpace(level.KeyCode) == "" {
		s.logger.Error("level has no key code configured",
			zap.Int64("level_id", level.ID),
			zap.Int("level_number", level.LevelNumber),
		)
		return nil, common.Errorf("level has no key configured: %w", common.ErrDataIntegrity)
	}

	if key != level.KeyCode {
		return &SubmitKeyResult{
			Correct:    false,
			NewCredits: user.Credits,
		}, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	alreadyCompleted, err := s.progressRepo.MarkCompleted(ctx, tx, userID, levelID)
	if err != nil {
		return nil, common.Errorf("failed to upsert progress: %w", err)
	}

	awarded := 0
	if !alreadyCompleted && level.RewardCredits > 0 {
		awarded = level.RewardCredits
	}

	// A zero award still runs so the response carries the current balance
	// read under the same transaction.
	newCredits, err := s.userRepo.AddCredits(ctx, tx, userID, awarded)
	if err != nil {
		return nil, common.Errorf("failed to update credits: %w", err)
	}

	completedLevels, err := s.progressRepo.CountCompleted(ctx, tx, userID)
	if err != nil {
		return nil, common.Errorf("failed to count completed levels: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	nextLevelID, err := s.nextLevelID(ctx, level.LevelNumber)
	if err != nil {
		return nil, err
	}

	return &SubmitKeyResult{
		Correct:              true,
		RewardCreditsAwarded: awarded,
		NewCredits:           newCredits,
		KeysCollected:        completedLevels,
		CompletedLevels:      completedLevels,
		NextLevelID:          nextLevelID,
	}, nil
}

// CompleteLevel is the reward-free completion marker: same idempotent upsert
// as SubmitKey, no key check, credits untouched.
func (s *ProgressService) CompleteLevel(ctx context.Context, userID, levelID int64) (*CompleteLevelResult, error) {
	if _, err := s.levelRepo.FindByID(ctx, levelID); err != nil {
		return nil, common.Errorf("level not found: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.progressRepo.MarkCompleted(ctx, tx, userID, levelID); err != nil {
		return nil, common.Errorf("failed to upsert progress: %w", err)
	}

	completedLevels, err := s.progressRepo.CountCompleted(ctx, tx, userID)
	if err != nil {
		return nil, common.Errorf("failed to count completed levels: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	return &CompleteLevelResult{
		UserID:          userID,
		CompletedLevels: completedLevels,
		KeysCollected:   completedLevels,
	}, nil
}

// GetUserProgress lists every level with the user's completed flag and
// derives the highest unlocked level number: completed count + 1, clamped to
// [1, total]. Level 1 is always unlocked; the count never points past the
// last level.
func (s *ProgressService) GetUserProgress(ctx context.Context, userID int64) (*UserProgressResult, error) {
	rows, err := s.progressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, row := range rows {
		if row.Completed {
			completed++
		}
	}

	next := completed + 1
	if total := len(rows); total > 0 && next > total {
		next = total
	}
	if next < 1 {
		next = 1
	}

	return &UserProgressResult{
		UserID:                  userID,
		Levels:                  rows,
		CompletedLevels:         completed,
		KeysCollected:           completed,
		NextUnlockedLevelNumber: next,
	}, nil
}

func (s *ProgressService) nextLevelID(ctx context.Context, currentNumber int) (*int64, error) {
	next, err := s.levelRepo.FindByNumber(ctx, currentNumber+1)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil // Last level; no wraparound.
		}
		return nil, fmt.Errorf("failed to resolve next level: %w", err)
	}
	return &next.ID, nil
}
