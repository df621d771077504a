package service

import (
	"context"

	"storygame/internal/common"
	"storygame/internal/domain/model"
	"storygame/internal/domain/repository"
)

// LevelService serves the read-only level catalog and dialogue projections.
type LevelService struct {
	levelRepo    repository.LevelRepository
	dialogueRepo repository.DialogueRepository
}

func NewLevelService(levelRepo repository.LevelRepository, dialogueRepo repository.DialogueRepository) *LevelService {
	return &LevelService{levelRepo: levelRepo, dialogueRepo: dialogueRepo}
}

func (s *LevelService) ListLevels(ctx context.Context) ([]model.Level, error) {
	return s.levelRepo.List(ctx)
}

// GetDialogue returns a level's conversation lines in display order. A level
// with zero dialogue rows (including an unknown level id) reads as not found.
func (s *LevelService) GetDialogue(ctx context.Context, levelID int64) ([]model.DialogueLine, error) {
	lines, err := s.dialogueRepo.ListByLevel(ctx, levelID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, common.Errorf("no dialogue found for level: %w", common.ErrNotFound)
	}
	return lines, nil
}
