package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mentecalma/server/internal/model"
	"github.com/mentecalma/server/internal/progression"
	"github.com/mentecalma/server/internal/repository"
)

// GamificationService owns the persisted progression state: the guide drip
// ratchet, habit lifecycle, points, levels, and badges. All mutations go
// through a per-user dispatcher so concurrent requests never interleave a
// load-modify-store cycle.
type GamificationService struct {
	progressRepo repository.ProgressRepository
	habitRepo    repository.HabitRepository
	profileRepo  repository.ProfileRepository
	dispatcher   *progression.Dispatcher
	policy       progression.Policy
	clock        progression.Clock

	// totalUnlockable is the number of guides in the daily drip. The
	// ratchet clamps here; it is set once at startup from the catalog.
	totalUnlockable int
}

func NewGamificationService(
	progressRepo repository.ProgressRepository,
	habitRepo repository.HabitRepository,
	profileRepo repository.ProfileRepository,
	clock progression.Clock,
	totalUnlockable int,
) *GamificationService {
	s := &GamificationService{
		progressRepo:    progressRepo,
		habitRepo:       habitRepo,
		profileRepo:     profileRepo,
		policy:          progression.DefaultPolicy(),
		clock:           clock,
		totalUnlockable: totalUnlockable,
	}
	s.dispatcher = progression.NewDispatcher(func(userID string, ev progression.Event) {
		slog.Info("progression event", "user_id", userID, "kind", ev.Kind, "ratchet", ev.Ratchet, "badge", ev.BadgeID, "level", ev.Level)
	})
	return s
}

// Bootstrap creates the initial progression row for a new user: the first
// guide unlocked and the next drip due in 24 hours.
func (s *GamificationService) Bootstrap(userID string) error {
	now := s.clock.Now()
	p := &model.Progress{
		UserID:        userID,
		UnlockRatchet: 1,
		NextUnlockAt:  now.AddDate(0, 0, 1),
		Points:        0,
		Level:         1,
		UpdatedAt:     now,
	}

	err := s.progressRepo.Create(p)
	if err != nil {
		return fmt.Errorf("failed to create progress: %w", err)
	}

	return nil
}

func (s *GamificationService) load(userID string) (progression.State, error) {
	p, err := s.progressRepo.ByUserID(userID)
	if err != nil {
		return progression.State{}, fmt.Errorf("failed to load progress: %w", err)
	}

	habits, err := s.habitRepo.ByUserID(userID)
	if err != nil {
		return progression.State{}, fmt.Errorf("failed to load habits: %w", err)
	}

	gamified := false
	profile, err := s.profileRepo.ByUserID(userID)
	if err == nil {
		gamified = profile.Gamified
	} else if !errors.Is(err, repository.ErrProfileNotFound) {
		return progression.State{}, fmt.Errorf("failed to load profile: %w", err)
	}

	return progression.State{
		UnlockRatchet: p.UnlockRatchet,
		NextUnlockAt:  p.NextUnlockAt,
		Points:        p.Points,
		Level:         p.Level,
		Gamified:      gamified,
		Badges:        p.Badges,
		Habits:        habits,
	}, nil
}

func (s *GamificationService) store(userID string) func(progression.State) error {
	return func(state progression.State) error {
		p := &model.Progress{
			UserID:        userID,
			UnlockRatchet: state.UnlockRatchet,
			NextUnlockAt:  state.NextUnlockAt,
			Points:        state.Points,
			Level:         state.Level,
			UpdatedAt:     time.Now(),
			Badges:        state.Badges,
		}

		err := s.progressRepo.Save(p)
		if err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}

		err = s.habitRepo.ReplaceAll(userID, state.Habits)
		if err != nil {
			return fmt.Errorf("failed to save habits: %w", err)
		}

		return nil
	}
}

// Apply runs one progression step for the user under the per-user lock.
func (s *GamificationService) Apply(userID string, step progression.Step) (progression.State, []progression.Event, error) {
	return s.dispatcher.Apply(userID,
		func() (progression.State, error) { return s.load(userID) },
		step,
		s.store(userID),
	)
}

// StartSession runs the app-open evaluation: at most one drip advance per
// call regardless of elapsed days, then habit aging for the current date.
func (s *GamificationService) StartSession(userID string) (progression.State, []progression.Event, error) {
	now := s.clock.Now()
	today := model.DateOf(now)

	return s.Apply(userID, func(state progression.State) (progression.State, []progression.Event) {
		state, events := progression.EvaluateUnlock(state, now, s.totalUnlockable)
		state.Habits = progression.AgeHabits(state.Habits, today)
		return state, events
	})
}

// Award credits points for an action. A no-op for users who opted out of
// gamification or for unknown actions.
func (s *GamificationService) Award(userID string, action progression.Action) (progression.State, []progression.Event, error) {
	return s.Apply(userID, func(state progression.State) (progression.State, []progression.Event) {
		return s.policy.AwardPoints(state, action)
	})
}

// Snapshot returns the current state without mutating it.
func (s *GamificationService) Snapshot(userID string) (progression.State, error) {
	return s.load(userID)
}

// Policy exposes the active level table and badge rules for display.
func (s *GamificationService) Policy() progression.Policy {
	return s.policy
}
