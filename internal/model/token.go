package model

import (
	"time"
)

const (
	TokenTypeEmailVerify   = "email_verify"
	TokenTypeEmailChange   = "email_change"
	TokenTypeMagicLink     = "magic_link"
	TokenTypePasswordReset = "password_reset"
)

type Token struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	Type      string     `db:"type"`
	Token     string     `db:"token"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
	CreatedAt time.Time  `db:"created_at"`
}
