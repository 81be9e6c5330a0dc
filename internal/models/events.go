package models

import "time"

// UserRegisteredEvent is published after a successful signup.
type UserRegisteredEvent struct {
	UserID     string    `json:"userId"`
	Role       Role      `json:"role"`
	Department string    `json:"department"`
	OccurredAt time.Time `json:"occurredAt"`
}
