package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentecalma/server/internal/model"
)

func dripCatalog(days int) []model.Guide {
	guides := make([]model.Guide, days)
	for i := range guides {
		guides[i] = model.Guide{Slug: string(rune('a' + i)), UnlockDay: i + 1}
	}
	return guides
}

func TestEvaluateUnlockAdvancesOneStep(t *testing.T) {
	now := time.Date(2024, 7, 26, 9, 0, 0, 0, time.UTC)
	state := State{
		UnlockRatchet: 1,
		NextUnlockAt:  now.AddDate(0, 0, -1), // yesterday
	}

	next, events := EvaluateUnlock(state, now, 7)

	assert.Equal(t, 2, next.UnlockRatchet)
	assert.Equal(t, now.AddDate(0, 0, 1), next.NextUnlockAt)
	require.Len(t, events, 1)
	assert.Equal(t, EventGuideUnlocked, events[0].Kind)
	assert.Equal(t, 2, events[0].Ratchet)

	guides := dripCatalog(7)
	assert.True(t, IsUnlocked(&guides[1], next), "day-2 guide should open")
	assert.False(t, IsUnlocked(&guides[2], next), "day-3 guide should stay locked")
	assert.Equal(t, 1, DaysUntilUnlock(&guides[2], next))
}

func TestEvaluateUnlockNoOpBeforeInterval(t *testing.T) {
	now := time.Date(2024, 7, 26, 9, 0, 0, 0, time.UTC)
	state := State{
		UnlockRatchet: 3,
		NextUnlockAt:  now.Add(6 * time.Hour),
	}

	// Repeated evaluation with the same clock must be a stable no-op.
	for range 5 {
		next, events := EvaluateUnlock(state, now, 7)
		assert.Equal(t, state, next)
		assert.Empty(t, events)
	}
}

func TestEvaluateUnlockSingleStepAfterLongAbsence(t *testing.T) {
	now := time.Date(2024, 8, 10, 12, 0, 0, 0, time.UTC)
	state := State{
		UnlockRatchet: 2,
		NextUnlockAt:  now.AddDate(0, 0, -14),
	}

	// Two weeks away is still exactly one advance per evaluation.
	next, events := EvaluateUnlock(state, now, 7)
	assert.Equal(t, 3, next.UnlockRatchet)
	assert.Len(t, events, 1)

	// A second call the same instant is gated by the fresh NextUnlockAt.
	again, events := EvaluateUnlock(next, now, 7)
	assert.Equal(t, next, again)
	assert.Empty(t, events)
}

func TestEvaluateUnlockClampsAtCatalogSize(t *testing.T) {
	now := time.Date(2024, 7, 26, 9, 0, 0, 0, time.UTC)
	nextUnlockAt := now.AddDate(0, 0, -3)
	state := State{
		UnlockRatchet: 7,
		NextUnlockAt:  nextUnlockAt,
	}

	for i := range 4 {
		next, events := EvaluateUnlock(state, now.AddDate(0, 0, i*30), 7)
		assert.Equal(t, 7, next.UnlockRatchet, "ratchet must never pass the catalog size")
		assert.Equal(t, nextUnlockAt, next.NextUnlockAt, "exhausted schedule is not rescheduled")
		assert.Empty(t, events)
		state = next
	}
}

func TestEvaluateUnlockZeroCatalog(t *testing.T) {
	now := time.Now()
	state := State{NextUnlockAt: now.AddDate(0, 0, -1)}

	next, events := EvaluateUnlock(state, now, 0)
	assert.Equal(t, 0, next.UnlockRatchet)
	assert.Empty(t, events)
}

func TestIsUnlockedMonotonicInRatchet(t *testing.T) {
	g := model.Guide{Slug: "respiracao", UnlockDay: 3}

	unlockedAt := -1
	for ratchet := 0; ratchet <= 10; ratchet++ {
		s := State{UnlockRatchet: ratchet}
		if IsUnlocked(&g, s) {
			if unlockedAt == -1 {
				unlockedAt = ratchet
			}
		} else {
			assert.Equal(t, -1, unlockedAt, "guide re-locked at ratchet %d", ratchet)
		}
	}
	assert.Equal(t, 3, unlockedAt)
}

func TestIsUnlockedForcedOverride(t *testing.T) {
	premium := model.Guide{Slug: "metodo-3xr", Unlocked: true, Premium: true}
	offDrip := model.Guide{Slug: "bonus"}

	s := State{UnlockRatchet: 0}
	assert.True(t, IsUnlocked(&premium, s))
	assert.False(t, IsUnlocked(&offDrip, s))
	assert.Equal(t, 0, DaysUntilUnlock(&premium, s))
	assert.Equal(t, 0, DaysUntilUnlock(&offDrip, s))
}
