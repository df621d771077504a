package model

import (
	"time"
)

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Credits   int       `json:"credits"`
	CreatedAt time.Time `json:"created_at"`
}
