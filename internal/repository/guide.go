package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
)

type GuideRepository interface {
	MarkCompleted(userID, slug string) error
	CompletedSlugs(userID string) ([]string, error)
	IsCompleted(userID, slug string) (bool, error)
}

type guideRepository struct {
	db *sqlx.DB
}

func NewGuideRepository(db *sqlx.DB) GuideRepository {
	return &guideRepository{db: db}
}

// MarkCompleted is idempotent: completing a guide twice records it once.
func (r *guideRepository) MarkCompleted(userID, slug string) error {
	query := `
		INSERT INTO completed_guides (user_id, guide_slug, completed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, guide_slug) DO NOTHING
	`
	_, err := r.db.Exec(query, userID, slug, time.Now())
	return err
}

func (r *guideRepository) CompletedSlugs(userID string) ([]string, error) {
	var slugs []string
	query := `SELECT guide_slug FROM completed_guides WHERE user_id = $1 ORDER BY completed_at`

	err := r.db.Select(&slugs, query, userID)
	return slugs, err
}

func (r *guideRepository) IsCompleted(userID, slug string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM completed_guides WHERE user_id = $1 AND guide_slug = $2`

	err := r.db.Get(&count, query, userID, slug)
	return count > 0, err
}
