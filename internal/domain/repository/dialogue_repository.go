package repository

import (
	"context"
	"database/sql"
	"fmt"

	"storygame/internal/domain/model"
)

type DialogueRepository interface {
	ListByLevel(ctx context.Context, levelID int64) ([]model.DialogueLine, error)
}

type pgDialogueRepository struct {
	db *sql.DB
}

func NewPgDialogueRepository(db *sql.DB) DialogueRepository {
	return &pgDialogueRepository{db: db}
}

func (r *pgDialogueRepository) ListByLevel(ctx context.Context, levelID int64) ([]model.DialogueLine, error) {
	query := `SELECT d.id, d.level_id, d.character_id, d.sequence, d.speaker, d.text, d.gives_key,
	                 c.name AS character_name, c.title AS character_title
	          FROM dialogues d
	          JOIN characters c ON d.character_id = c.id
	          WHERE d.level_id = $1
	          ORDER BY d.sequence ASC`
	rows, err := r.db.QueryContext(ctx, query, levelID)
	if err != nil {
		return nil, fmt.Errorf("pgDialogueRepository.ListByLevel query: %w", err)
	}
	defer rows.Close()

	lines := []model.DialogueLine{}
	for rows.Next() {
		var d model.DialogueLine
		if err := rows.Scan(&d.ID, &d.LevelID, &d.CharacterID, &d.Sequence, &d.Speaker,
			&d.Text, &d.GivesKey, &d.CharacterName, &d.CharacterTitle); err != nil {
			return nil, fmt.Errorf("pgDialogueRepository.ListByLevel scan: %w", err)
		}
		lines = append(lines, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgDialogueRepository.ListByLevel rows.Err: %w", err)
	}
	return lines, nil
}
