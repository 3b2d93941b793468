package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mentecalma/server/internal/model"
)

var ErrProgressNotFound = errors.New("progress not found")

type ProgressRepository interface {
	Create(p *model.Progress) error
	ByUserID(userID string) (*model.Progress, error)
	// Save overwrites the whole progress row and reconciles the badge set.
	// Badges are only ever added, never revoked.
	Save(p *model.Progress) error
}

type progressRepository struct {
	db *sqlx.DB
}

func NewProgressRepository(db *sqlx.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Create(p *model.Progress) error {
	query := `
		INSERT INTO progress (user_id, unlock_ratchet, next_unlock_at, points, level, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(query, p.UserID, p.UnlockRatchet, p.NextUnlockAt, p.Points, p.Level, p.UpdatedAt)
	return err
}

func (r *progressRepository) ByUserID(userID string) (*model.Progress, error) {
	p := &model.Progress{}
	query := `SELECT * FROM progress WHERE user_id = $1`

	err := r.db.Get(p, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProgressNotFound
	}
	if err != nil {
		return nil, err
	}

	err = r.db.Select(&p.Badges, `SELECT badge_id FROM user_badges WHERE user_id = $1 ORDER BY earned_at`, userID)
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *progressRepository) Save(p *model.Progress) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE progress
		SET unlock_ratchet = $1, next_unlock_at = $2, points = $3, level = $4, updated_at = $5
		WHERE user_id = $6
	`
	result, err := tx.Exec(query, p.UnlockRatchet, p.NextUnlockAt, p.Points, p.Level, p.UpdatedAt, p.UserID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProgressNotFound
	}

	badgeQuery := `
		INSERT INTO user_badges (user_id, badge_id, earned_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, badge_id) DO NOTHING
	`
	for _, badgeID := range p.Badges {
		_, err = tx.Exec(badgeQuery, p.UserID, badgeID, time.Now())
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
