package model

import (
	"time"
)

// UserProgress tracks completion of one level by one user. At most one row
// exists per (user, level); completion never reverts once set.
type UserProgress struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	LevelID     int64      `json:"level_id"`
	Completed   bool       `json:"completed"`
	Score       int        `json:"score"`
	CompletedAt *time.Time `json:"completed_at"`
}

// LevelCompletion is one row of a user's progress listing: a level joined
// with that user's completion state.
type LevelCompletion struct {
	LevelID     int64      `json:"level_id"`
	LevelNumber int        `json:"level_number"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
