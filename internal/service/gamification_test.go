package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentecalma/server/internal/model"
	"github.com/mentecalma/server/internal/progression"
)

func TestBootstrapCreatesInitialProgress(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)

	state, err := f.gamification.Snapshot(userID)
	require.NoError(t, err)

	assert.Equal(t, 1, state.UnlockRatchet)
	assert.Equal(t, 0, state.Points)
	assert.Equal(t, 1, state.Level)
	assert.True(t, state.Gamified)
	assert.Empty(t, state.Badges)
	assert.WithinDuration(t, f.clock.Now().AddDate(0, 0, 1), state.NextUnlockAt, time.Second)
}

func TestStartSessionBeforeScheduleDoesNotAdvance(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)

	state, events, err := f.gamification.StartSession(userID)
	require.NoError(t, err)

	assert.Empty(t, events)
	assert.Equal(t, 1, state.UnlockRatchet)
}

func TestStartSessionAdvancesOncePerCall(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)

	// A week away still yields a single advance on return.
	f.clock.Advance(7 * 24 * time.Hour)

	state, events, err := f.gamification.StartSession(userID)
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, progression.EventGuideUnlocked, events[0].Kind)
	assert.Equal(t, 2, events[0].Ratchet)
	assert.Equal(t, 2, state.UnlockRatchet)
	assert.WithinDuration(t, f.clock.Now().AddDate(0, 0, 1), state.NextUnlockAt, time.Second)

	// The same session re-evaluated does not advance again.
	state, events, err = f.gamification.StartSession(userID)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 2, state.UnlockRatchet)
}

func TestStartSessionClampsAtCatalogSize(t *testing.T) {
	f := newFixture(t, 3)
	userID := f.seedUser(t)

	for range 5 {
		f.clock.Advance(25 * time.Hour)
		_, _, err := f.gamification.StartSession(userID)
		require.NoError(t, err)
	}

	state, err := f.gamification.Snapshot(userID)
	require.NoError(t, err)
	assert.Equal(t, 3, state.UnlockRatchet)
}

func TestStartSessionAgesOverdueHabits(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)

	habits := NewHabitService(f.gamification, f.clock)
	habit, err := habits.Create(userID, "Meditar 10 minutos", "", model.ImportanceHigh)
	require.NoError(t, err)

	// Due today is not overdue yet.
	state, _, err := f.gamification.StartSession(userID)
	require.NoError(t, err)
	require.Len(t, state.Habits, 1)
	assert.Equal(t, model.HabitStatusTodo, state.Habits[0].Status)

	f.clock.Advance(48 * time.Hour)

	state, _, err = f.gamification.StartSession(userID)
	require.NoError(t, err)
	require.Len(t, state.Habits, 1)
	assert.Equal(t, habit.ID, state.Habits[0].ID)
	assert.Equal(t, model.HabitStatusPending, state.Habits[0].Status)
}

func TestAwardPersistsPointsAndBadges(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)

	state, events, err := f.gamification.Award(userID, progression.ActionMoodLogged)
	require.NoError(t, err)

	assert.Equal(t, 10, state.Points)
	assert.Contains(t, state.Badges, model.BadgeFirstSteps)
	assert.Contains(t, state.Badges, model.BadgeMoodDiary)
	require.Len(t, events, 2)

	// Persisted, not just in the returned state.
	state, err = f.gamification.Snapshot(userID)
	require.NoError(t, err)
	assert.Equal(t, 10, state.Points)
	assert.Contains(t, state.Badges, model.BadgeMoodDiary)

	// Badges are granted once.
	_, events, err = f.gamification.Award(userID, progression.ActionMoodLogged)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestAwardLevelsUpAtThreshold(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)

	// 100 points crosses the level 2 floor on the second guide completion.
	_, _, err := f.gamification.Award(userID, progression.ActionGuideCompleted)
	require.NoError(t, err)

	state, events, err := f.gamification.Award(userID, progression.ActionGuideCompleted)
	require.NoError(t, err)

	assert.Equal(t, 100, state.Points)
	assert.Equal(t, 2, state.Level)

	var levelUps []progression.Event
	for _, ev := range events {
		if ev.Kind == progression.EventLevelUp {
			levelUps = append(levelUps, ev)
		}
	}
	require.Len(t, levelUps, 1)
	assert.Equal(t, 2, levelUps[0].Level)
}

func TestAwardIsNoOpWhenGamificationOff(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)

	profile, err := f.profiles.ByUserID(userID)
	require.NoError(t, err)
	profile.Gamified = false
	require.NoError(t, f.profiles.Update(profile))

	state, events, err := f.gamification.Award(userID, progression.ActionMoodLogged)
	require.NoError(t, err)

	assert.Empty(t, events)
	assert.Equal(t, 0, state.Points)
	assert.Empty(t, state.Badges)
}
