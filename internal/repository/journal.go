package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/mentecalma/server/internal/model"
)

type JournalRepository interface {
	CreateMoodLog(log *model.MoodLog) error
	MoodLogs(userID string, limit int) ([]model.MoodLog, error)
	MoodLogOnDate(userID string, date model.Date) (*model.MoodLog, error)

	CreateSleepLog(log *model.SleepLog) error
	SleepLogs(userID string, limit int) ([]model.SleepLog, error)
}

type journalRepository struct {
	db *sqlx.DB
}

func NewJournalRepository(db *sqlx.DB) JournalRepository {
	return &journalRepository{db: db}
}

func (r *journalRepository) CreateMoodLog(log *model.MoodLog) error {
	query := `
		INSERT INTO mood_logs (id, user_id, date, mood, note, energy, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(query, log.ID, log.UserID, log.Date, log.Mood, log.Note, log.Energy, log.CreatedAt)
	return err
}

func (r *journalRepository) MoodLogs(userID string, limit int) ([]model.MoodLog, error) {
	var logs []model.MoodLog
	query := `SELECT * FROM mood_logs WHERE user_id = $1 ORDER BY date DESC, created_at DESC LIMIT $2`

	err := r.db.Select(&logs, query, userID, limit)
	return logs, err
}

// MoodLogOnDate returns the latest check-in for the day, or nil if there is none.
func (r *journalRepository) MoodLogOnDate(userID string, date model.Date) (*model.MoodLog, error) {
	var logs []model.MoodLog
	query := `SELECT * FROM mood_logs WHERE user_id = $1 AND date = $2 ORDER BY created_at DESC LIMIT 1`

	err := r.db.Select(&logs, query, userID, date)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, nil
	}
	return &logs[0], nil
}

func (r *journalRepository) CreateSleepLog(log *model.SleepLog) error {
	query := `
		INSERT INTO sleep_logs (id, user_id, date, quality, hours, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(query, log.ID, log.UserID, log.Date, log.Quality, log.Hours, log.CreatedAt)
	return err
}

func (r *journalRepository) SleepLogs(userID string, limit int) ([]model.SleepLog, error) {
	var logs []model.SleepLog
	query := `SELECT * FROM sleep_logs WHERE user_id = $1 ORDER BY date DESC, created_at DESC LIMIT $2`

	err := r.db.Select(&logs, query, userID, limit)
	return logs, err
}
