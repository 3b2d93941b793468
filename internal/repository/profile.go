package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/mentecalma/server/internal/model"
)

type ProfileRepository interface {
	Create(profile *model.Profile) error
	ByUserID(userID string) (*model.Profile, error)
	Update(profile *model.Profile) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *model.Profile) error {
	query := `INSERT INTO profiles (id, user_id, name, gamified, avatar_key, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query, profile.ID, profile.UserID, profile.Name, profile.Gamified, profile.AvatarKey, profile.CreatedAt, profile.UpdatedAt)
	return err
}

func (r *profileRepository) ByUserID(userID string) (*model.Profile, error) {
	profile := &model.Profile{}
	query := `SELECT * FROM profiles WHERE user_id = $1`

	err := r.db.Get(profile, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}

	return profile, err
}

func (r *profileRepository) Update(profile *model.Profile) error {
	query := `UPDATE profiles SET name = $1, gamified = $2, avatar_key = $3, updated_at = $4 WHERE user_id = $5`

	result, err := r.db.Exec(query, profile.Name, profile.Gamified, profile.AvatarKey, profile.UpdatedAt, profile.UserID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}
