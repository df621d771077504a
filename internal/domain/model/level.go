package model

import (
	"time"
)

type Level struct {
	ID          int64   `json:"id"`
	LevelNumber int     `json:"level_number"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	// The expected key phrase and its reward are never serialized; players
	// only learn them through the dialogue and the submit-key response.
	KeyCode       string    `json:"-"`
	RewardCredits int       `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}
