package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mentecalma/server/internal/model"
)

type ChatRepository interface {
	Create(msg *model.ChatMessage) error
	History(userID string, limit int) ([]model.ChatMessage, error)
	CountUserMessagesSince(userID string, since time.Time) (int, error)
}

type chatRepository struct {
	db *sqlx.DB
}

func NewChatRepository(db *sqlx.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(msg *model.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, user_id, role, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(query, msg.ID, msg.UserID, msg.Role, msg.Text, msg.CreatedAt)
	return err
}

// History returns the most recent messages in chronological order.
func (r *chatRepository) History(userID string, limit int) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	query := `
		SELECT * FROM (
			SELECT * FROM chat_messages WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2
		) recent ORDER BY created_at, id
	`

	err := r.db.Select(&msgs, query, userID, limit)
	return msgs, err
}

// CountUserMessagesSince counts messages the user sent since the given time.
// Model replies are excluded.
func (r *chatRepository) CountUserMessagesSince(userID string, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM chat_messages WHERE user_id = $1 AND role = $2 AND created_at >= $3`

	err := r.db.Get(&count, query, userID, model.ChatRoleUser, since)
	return count, err
}
