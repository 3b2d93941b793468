package model

import (
	"time"
)

type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

func (r ChatRole) Valid() bool {
	return r == ChatRoleUser || r == ChatRoleModel
}

// ChatMessage is one entry in a user's append-only conversation log with
// the companion.
type ChatMessage struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Role      ChatRole  `db:"role"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
}
