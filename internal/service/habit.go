package service

import (
	"strings"

	"github.com/mentecalma/server/internal/model"
	"github.com/mentecalma/server/internal/progression"
	"github.com/mentecalma/server/internal/validation"
)

// HabitService runs habit lifecycle operations through the progression
// dispatcher: every mutation is a whole-list replacement applied under the
// user's lock.
type HabitService struct {
	gamificationService *GamificationService
	clock               progression.Clock
}

func NewHabitService(gamificationService *GamificationService, clock progression.Clock) *HabitService {
	return &HabitService{
		gamificationService: gamificationService,
		clock:               clock,
	}
}

func (s *HabitService) List(userID string) ([]model.Habit, error) {
	state, err := s.gamificationService.Snapshot(userID)
	if err != nil {
		return nil, err
	}
	return state.Habits, nil
}

func (s *HabitService) Create(userID, title, description string, importance model.HabitImportance) (*model.Habit, error) {
	title = strings.TrimSpace(title)
	err := validation.ValidateHabitTitle(title)
	if err != nil {
		return nil, err
	}

	if !importance.Valid() {
		importance = model.ImportanceMedium
	}

	today := model.DateOf(s.clock.Now())
	habit := progression.NewHabit(userID, title, strings.TrimSpace(description), importance, today)

	_, _, err = s.gamificationService.Apply(userID, func(state progression.State) (progression.State, []progression.Event) {
		state.Habits = append(state.Habits, habit)
		return state, nil
	})
	if err != nil {
		return nil, err
	}

	return &habit, nil
}

func (s *HabitService) Update(userID string, updated model.Habit) error {
	updated.Title = strings.TrimSpace(updated.Title)
	err := validation.ValidateHabitTitle(updated.Title)
	if err != nil {
		return err
	}

	_, _, err = s.gamificationService.Apply(userID, func(state progression.State) (progression.State, []progression.Event) {
		state.Habits = progression.UpdateHabit(state.Habits, updated)
		return state, nil
	})
	return err
}

// SetStatus toggles a habit's lifecycle state. Unknown IDs are a silent
// no-op: a stale client toggling a deleted habit must not fail the request.
func (s *HabitService) SetStatus(userID, habitID string, status model.HabitStatus) error {
	_, _, err := s.gamificationService.Apply(userID, func(state progression.State) (progression.State, []progression.Event) {
		state.Habits = progression.SetStatus(state.Habits, habitID, status)
		return state, nil
	})
	return err
}

func (s *HabitService) Delete(userID, habitID string) error {
	_, _, err := s.gamificationService.Apply(userID, func(state progression.State) (progression.State, []progression.Event) {
		state.Habits = progression.DeleteHabit(state.Habits, habitID)
		return state, nil
	})
	return err
}
