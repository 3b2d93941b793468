package model

import (
	"time"
)

type Profile struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	Gamified  bool      `db:"gamified"`   // opt-in to points/levels/badges
	AvatarKey string    `db:"avatar_key"` // storage object key; empty when no avatar
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
