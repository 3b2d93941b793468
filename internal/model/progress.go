package model

import (
	"time"
)

// Progress is the persisted mirror of a user's progression state: the drip
// ratchet, the gamification tally, and the earned badge set. Habits are
// stored separately (see Habit); badges in their own table, loaded into
// Badges.
type Progress struct {
	UserID        string    `db:"user_id"`
	UnlockRatchet int       `db:"unlock_ratchet"`
	NextUnlockAt  time.Time `db:"next_unlock_at"`
	Points        int       `db:"points"`
	Level         int       `db:"level"`
	UpdatedAt     time.Time `db:"updated_at"`

	Badges []string `db:"-"`
}
