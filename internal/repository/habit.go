package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/mentecalma/server/internal/model"
)

var ErrHabitNotFound = errors.New("habit not found")

type HabitRepository interface {
	ByUserID(userID string) ([]model.Habit, error)
	ByID(id string) (*model.Habit, error)
	// ReplaceAll swaps the user's full habit list in one transaction.
	// The lifecycle engine produces whole-list results, so persistence
	// mirrors them wholesale instead of diffing.
	ReplaceAll(userID string, habits []model.Habit) error
}

type habitRepository struct {
	db *sqlx.DB
}

func NewHabitRepository(db *sqlx.DB) HabitRepository {
	return &habitRepository{db: db}
}

func (r *habitRepository) ByUserID(userID string) ([]model.Habit, error) {
	var habits []model.Habit
	query := `SELECT * FROM habits WHERE user_id = $1 ORDER BY created_at, id`

	err := r.db.Select(&habits, query, userID)
	return habits, err
}

func (r *habitRepository) ByID(id string) (*model.Habit, error) {
	habit := &model.Habit{}
	query := `SELECT * FROM habits WHERE id = $1`

	err := r.db.Get(habit, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrHabitNotFound
	}

	return habit, err
}

func (r *habitRepository) ReplaceAll(userID string, habits []model.Habit) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM habits WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO habits (id, user_id, title, description, importance, status, created_at, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, h := range habits {
		_, err = tx.Exec(query, h.ID, userID, h.Title, h.Description, h.Importance, h.Status, h.CreatedAt, h.DueDate)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
