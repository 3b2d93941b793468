package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentecalma/server/internal/model"
)

func TestAwardPointsFixedValues(t *testing.T) {
	policy := DefaultPolicy()

	cases := []struct {
		action Action
		value  int
	}{
		{ActionMoodLogged, 10},
		{ActionSleepLogged, 10},
		{ActionGuideCompleted, 50},
		{ActionChatMessageSent, 5},
	}

	for _, tc := range cases {
		t.Run(string(tc.action), func(t *testing.T) {
			s := State{Gamified: true, Points: 100, Level: 2}
			next, _ := policy.AwardPoints(s, tc.action)
			assert.Equal(t, 100+tc.value, next.Points)
		})
	}
}

func TestAwardPointsSleepLogged(t *testing.T) {
	policy := DefaultPolicy()
	s := State{Gamified: true, Points: 100, Level: 2}

	next, _ := policy.AwardPoints(s, ActionSleepLogged)
	assert.Equal(t, 110, next.Points)
}

func TestAwardPointsOptedOut(t *testing.T) {
	policy := DefaultPolicy()
	s := State{Gamified: false, Points: 40, Level: 1}

	for _, action := range []Action{ActionMoodLogged, ActionSleepLogged, ActionGuideCompleted, ActionChatMessageSent} {
		next, events := policy.AwardPoints(s, action)
		assert.Equal(t, 40, next.Points, "opted-out user must accrue nothing for %s", action)
		assert.Equal(t, 1, next.Level)
		assert.Empty(t, next.Badges)
		assert.Empty(t, events)
	}
}

func TestAwardPointsUnknownAction(t *testing.T) {
	policy := DefaultPolicy()
	s := State{Gamified: true, Points: 40}

	next, events := policy.AwardPoints(s, Action("planted_a_tree"))
	assert.Equal(t, 40, next.Points)
	assert.Empty(t, events)
}

func TestLevelUpAtThreshold(t *testing.T) {
	policy := DefaultPolicy()
	s := State{Gamified: true, Points: 95, Level: 1}

	next, events := policy.AwardPoints(s, ActionMoodLogged)
	assert.Equal(t, 105, next.Points)
	assert.Equal(t, 2, next.Level)

	var sawLevelUp bool
	for _, ev := range events {
		if ev.Kind == EventLevelUp {
			sawLevelUp = true
			assert.Equal(t, 2, ev.Level)
		}
	}
	assert.True(t, sawLevelUp)
}

func TestLevelMonotoneInPoints(t *testing.T) {
	table := DefaultPolicy().Levels

	prev := 0
	for points := 0; points <= 1200; points += 5 {
		level := table.LevelFor(points)
		assert.GreaterOrEqual(t, level, prev, "level dropped at %d points", points)
		assert.GreaterOrEqual(t, level, 1)
		prev = level
	}
}

func TestBadgesGrantedAtMostOnce(t *testing.T) {
	policy := DefaultPolicy()
	s := State{Gamified: true}

	next, events := policy.AwardPoints(s, ActionChatMessageSent)
	require.Contains(t, next.Badges, model.BadgeFriendlyChat)
	require.Contains(t, next.Badges, model.BadgeFirstSteps)

	badgeEvents := 0
	for _, ev := range events {
		if ev.Kind == EventBadgeEarned {
			badgeEvents++
		}
	}
	assert.Equal(t, 2, badgeEvents)

	// Further chat messages keep awarding points but never re-grant.
	again, events := policy.AwardPoints(next, ActionChatMessageSent)
	assert.Equal(t, next.Points+5, again.Points)
	assert.ElementsMatch(t, next.Badges, again.Badges)
	for _, ev := range events {
		assert.NotEqual(t, EventBadgeEarned, ev.Kind)
	}
}

func TestMoodDiaryBadgeOnFirstMoodLog(t *testing.T) {
	policy := DefaultPolicy()
	s := State{Gamified: true}

	afterSleep, _ := policy.AwardPoints(s, ActionSleepLogged)
	assert.NotContains(t, afterSleep.Badges, model.BadgeMoodDiary)

	afterMood, _ := policy.AwardPoints(afterSleep, ActionMoodLogged)
	assert.Contains(t, afterMood.Badges, model.BadgeMoodDiary)
}

func TestCustomLevelTable(t *testing.T) {
	policy := Policy{
		Levels: LevelTable{
			{MinPoints: 0, Level: 1},
			{MinPoints: 30, Level: 2},
		},
	}
	s := State{Gamified: true, Points: 25, Level: 1}

	next, _ := policy.AwardPoints(s, ActionChatMessageSent)
	assert.Equal(t, 2, next.Level)
}
