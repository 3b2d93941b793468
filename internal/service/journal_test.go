package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentecalma/server/internal/model"
	"github.com/mentecalma/server/internal/progression"
)

func newJournalService(f *fixture) *JournalService {
	return NewJournalService(f.journal, f.gamification, f.clock)
}

func TestLogMoodAwardsPoints(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)
	journal := newJournalService(f)

	log, events, err := journal.LogMood(userID, model.MoodGood, "  dia tranquilo  ", 4)
	require.NoError(t, err)

	assert.Equal(t, model.MoodGood, log.Mood)
	assert.Equal(t, "dia tranquilo", log.Note)
	assert.Equal(t, model.DateOf(f.clock.Now()), log.Date)

	var badges []string
	for _, ev := range events {
		if ev.Kind == progression.EventBadgeEarned {
			badges = append(badges, ev.BadgeID)
		}
	}
	assert.Contains(t, badges, model.BadgeMoodDiary)

	state, err := f.gamification.Snapshot(userID)
	require.NoError(t, err)
	assert.Equal(t, 10, state.Points)
}

func TestLogMoodRejectsInvalidInput(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)
	journal := newJournalService(f)

	_, _, err := journal.LogMood(userID, model.Mood("furious"), "", 3)
	assert.ErrorIs(t, err, ErrInvalidMood)

	_, _, err = journal.LogMood(userID, model.MoodSad, "", 0)
	assert.Error(t, err)

	_, _, err = journal.LogMood(userID, model.MoodSad, "", 6)
	assert.Error(t, err)
}

func TestLogSleep(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)
	journal := newJournalService(f)

	log, _, err := journal.LogSleep(userID, model.SleepGood, 7.5)
	require.NoError(t, err)
	assert.Equal(t, 7.5, log.Hours)

	_, _, err = journal.LogSleep(userID, model.SleepQuality("terrible"), 7)
	assert.ErrorIs(t, err, ErrInvalidQuality)

	_, _, err = journal.LogSleep(userID, model.SleepPoor, 25)
	assert.Error(t, err)

	history, err := journal.SleepHistory(userID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestTodayMood(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)
	journal := newJournalService(f)

	log, err := journal.TodayMood(userID)
	require.NoError(t, err)
	assert.Nil(t, log)

	_, _, err = journal.LogMood(userID, model.MoodNeutral, "", 3)
	require.NoError(t, err)

	log, err = journal.TodayMood(userID)
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Equal(t, model.MoodNeutral, log.Mood)

	// Yesterday's check-in does not count as today's.
	f.clock.Advance(24 * time.Hour)
	log, err = journal.TodayMood(userID)
	require.NoError(t, err)
	assert.Nil(t, log)
}

func TestMoodHistoryOrderAndLimit(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)
	journal := newJournalService(f)

	for _, mood := range []model.Mood{model.MoodSad, model.MoodNeutral, model.MoodGreat} {
		_, _, err := journal.LogMood(userID, mood, "", 3)
		require.NoError(t, err)
		f.clock.Advance(24 * time.Hour)
	}

	history, err := journal.MoodHistory(userID, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.MoodGreat, history[0].Mood)
	assert.Equal(t, model.MoodNeutral, history[1].Mood)
}
