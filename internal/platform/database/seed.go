package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

type seedLine struct {
	sequence int
	speaker  string
	text     string
	givesKey bool
}

type seedLevel struct {
	number        int
	title         string
	description   string
	keyCode       string
	rewardCredits int
	npcName       string
	npcTitle      string
	lines         []seedLine
}

// The fixed campaign content. The sixth line of every level is the one that
// narratively reveals the key phrase.
var seedLevels = []seedLevel{
	{
		number:        1,
		title:         "The Pyramids of Giza",
		description:   "Enter the ancient pyramids and solve the riddle of the Sphinx to find your first sacred key.",
		keyCode:       "HUMAN",
		rewardCredits: 25,
		npcName:       "Sphinx Guardian",
		npcTitle:      "Riddle Keeper of Giza",
		lines: []seedLine{
			{1, "npc", "Traveler, you stand before the pyramids. Speak your purpose.", false},
			{2, "player", "I am stranded in time. I need the first sacred key.", false},
			{3, "npc", "Then earn it. My riddle guards the path.", false},
			{4, "npc", "What walks on four legs in the morning, two at noon, and three in the evening?", false},
			{5, "player", "A HUMAN: crawling, walking, then using a staff.", false},
			{6, "npc", "Correct. Remember the answer. It is the key word.", true},
		},
	},
	{
		number:        2,
		title:         "The Nile River",
		description:   "Navigate the mighty Nile and uncover the secrets hidden in the river's ancient temples.",
		keyCode:       "NILE",
		rewardCredits: 25,
		npcName:       "River Priestess",
		npcTitle:      "Keeper of the Flow",
		lines: []seedLine{
			{1, "npc", "The river decides who may pass.", false},
			{2, "player", "I seek the second key.", false},
			{3, "npc", "Then listen. The key is the name of the lifeline itself.", false},
			{4, "npc", "It feeds the fields, it carries the boats, it shapes the kingdom.", false},
			{5, "player", "You mean the NILE.", false},
			{6, "npc", "Hold that word. You will need to enter it to claim the key.", true},
		},
	},
	{
		number:        3,
		title:         "The Valley of Kings",
		description:   "Explore the tombs of pharaohs and decipher hieroglyphs to reveal the path forward.",
		keyCode:       "PHARAOH",
		rewardCredits: 30,
		npcName:       "Tomb Scribe",
		npcTitle:      "Reader of Stone",
		lines: []seedLine{
			{1, "npc", "These walls speak in silence.", false},
			{2, "player", "I need the third key. What is your hint?", false},
			{3, "npc", "The ruler of rulers. Say the title carried through dynasties.", false},
			{4, "npc", "Not a name. A rank.", false},
			{5, "player", "PHARAOH.", false},
			{6, "npc", "Yes. Enter that title to unlock your key.", true},
		},
	},
	{
		number:        4,
		title:         "The Temple of Karnak",
		description:   "Traverse the grand temple complex and solve the puzzle of the sacred obelisks.",
		keyCode:       "KARNAK",
		rewardCredits: 30,
		npcName:       "Obelisk Sentinel",
		npcTitle:      "Guardian of the Temple",
		lines: []seedLine{
			{1, "npc", "The stones remember every footstep.", false},
			{2, "player", "I want the fourth key.", false},
			{3, "npc", "Then name this sacred place of pillars and sun.", false},
			{4, "npc", "It begins with the temple you stand within.", false},
			{5, "player", "KARNAK.", false},
			{6, "npc", "Good. Prove it by entering the word.", true},
		},
	},
	{
		number:        5,
		title:         "The Final Chamber",
		description:   "Face the ultimate challenge in the hidden chamber to repair your time machine.",
		keyCode:       "CHRONOS",
		rewardCredits: 50,
		npcName:       "Time Warden",
		npcTitle:      "Keeper of the Final Seal",
		lines: []seedLine{
			{1, "npc", "Five keys. One escape.", false},
			{2, "player", "This is the last chamber. I need the final key.", false},
			{3, "npc", "Then speak the name of time itself - not hours, but the ancient force.", false},
			{4, "npc", "A word older than empires.", false},
			{5, "player", "CHRONOS.", false},
			{6, "npc", "Enter it, and the time machine will awaken.", true},
		},
	},
}

// Seed inserts the fixed sample content: five levels with key codes and
// rewards, one NPC per level, and the scripted dialogue. Safe to run on
// every startup; existing content is left untouched.
func Seed(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	seeded := 0
	for _, lvl := range seedLevels {
		created, err := seedOneLevel(ctx, tx, lvl)
		if err != nil {
			return fmt.Errorf("seed level %d: %w", lvl.number, err)
		}
		if created {
			seeded++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: failed to commit transaction: %w", err)
	}

	logger.Info("database seed complete",
		zap.Int("levels_total", len(seedLevels)),
		zap.Int("levels_seeded", seeded),
	)
	return nil
}

func seedOneLevel(ctx context.Context, tx *sql.Tx, lvl seedLevel) (bool, error) {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO levels (level_number, title, slug, description, key_code, reward_credits)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (level_number) DO NOTHING`,
		lvl.number, lvl.title, slug.Make(lvl.title), lvl.description, lvl.keyCode, lvl.rewardCredits)
	if err != nil {
		return false, fmt.Errorf("insert level: %w", err)
	}

	var levelID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM levels WHERE level_number = $1`, lvl.number).Scan(&levelID)
	if err != nil {
		return false, fmt.Errorf("resolve level id: %w", err)
	}

	var characterID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM characters WHERE level_id = $1 AND name = $2`, levelID, lvl.npcName).Scan(&characterID)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowContext(ctx,
			`INSERT INTO characters (level_id, name, title) VALUES ($1, $2, $3) RETURNING id`,
			levelID, lvl.npcName, lvl.npcTitle).Scan(&characterID)
	}
	if err != nil {
		return false, fmt.Errorf("resolve character: %w", err)
	}

	var dialogueCount int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dialogues WHERE level_id = $1`, levelID).Scan(&dialogueCount)
	if err != nil {
		return false, fmt.Errorf("count dialogues: %w", err)
	}
	if dialogueCount > 0 {
		return false, nil
	}

	for _, line := range lvl.lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO dialogues (level_id, character_id, sequence, speaker, text, gives_key)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			levelID, characterID, line.sequence, line.speaker, line.text, line.givesKey)
		if err != nil {
			return false, fmt.Errorf("insert dialogue line %d: %w", line.sequence, err)
		}
	}
	return true, nil
}
