package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mentecalma/server/internal/model"
	"github.com/mentecalma/server/internal/progression"
	"github.com/mentecalma/server/internal/repository"
	"github.com/mentecalma/server/internal/validation"
)

var (
	ErrInvalidMood    = errors.New("invalid mood")
	ErrInvalidQuality = errors.New("invalid sleep quality")
)

// JournalService records mood check-ins and sleep logs and credits the
// matching point awards.
type JournalService struct {
	journalRepo         repository.JournalRepository
	gamificationService *GamificationService
	clock               progression.Clock
}

func NewJournalService(journalRepo repository.JournalRepository, gamificationService *GamificationService, clock progression.Clock) *JournalService {
	return &JournalService{
		journalRepo:         journalRepo,
		gamificationService: gamificationService,
		clock:               clock,
	}
}

func (s *JournalService) LogMood(userID string, mood model.Mood, note string, energy int) (*model.MoodLog, []progression.Event, error) {
	if !mood.Valid() {
		return nil, nil, ErrInvalidMood
	}
	err := validation.ValidateEnergy(energy)
	if err != nil {
		return nil, nil, err
	}

	now := s.clock.Now()
	log := &model.MoodLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Date:      model.DateOf(now),
		Mood:      mood,
		Note:      strings.TrimSpace(note),
		Energy:    energy,
		CreatedAt: now,
	}

	err = s.journalRepo.CreateMoodLog(log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to save mood log: %w", err)
	}

	_, events, err := s.gamificationService.Award(userID, progression.ActionMoodLogged)
	if err != nil {
		return nil, nil, err
	}

	return log, events, nil
}

func (s *JournalService) LogSleep(userID string, quality model.SleepQuality, hours float64) (*model.SleepLog, []progression.Event, error) {
	if !quality.Valid() {
		return nil, nil, ErrInvalidQuality
	}
	err := validation.ValidateSleepHours(hours)
	if err != nil {
		return nil, nil, err
	}

	now := s.clock.Now()
	log := &model.SleepLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Date:      model.DateOf(now),
		Quality:   quality,
		Hours:     hours,
		CreatedAt: now,
	}

	err = s.journalRepo.CreateSleepLog(log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to save sleep log: %w", err)
	}

	_, events, err := s.gamificationService.Award(userID, progression.ActionSleepLogged)
	if err != nil {
		return nil, nil, err
	}

	return log, events, nil
}

func (s *JournalService) MoodHistory(userID string, limit int) ([]model.MoodLog, error) {
	if limit <= 0 || limit > 365 {
		limit = 30
	}
	return s.journalRepo.MoodLogs(userID, limit)
}

func (s *JournalService) SleepHistory(userID string, limit int) ([]model.SleepLog, error) {
	if limit <= 0 || limit > 365 {
		limit = 30
	}
	return s.journalRepo.SleepLogs(userID, limit)
}

// TodayMood returns the latest check-in for today, or nil.
func (s *JournalService) TodayMood(userID string) (*model.MoodLog, error) {
	today := model.DateOf(s.clock.Now())
	return s.journalRepo.MoodLogOnDate(userID, today)
}

func (s *JournalService) LastCheckInDate(userID string) (model.Date, error) {
	logs, err := s.journalRepo.MoodLogs(userID, 1)
	if err != nil {
		return "", err
	}
	if len(logs) == 0 {
		return "", nil
	}
	return logs[0].Date, nil
}
