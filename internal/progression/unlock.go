package progression

import (
	"time"

	"github.com/mentecalma/server/internal/model"
)

// EvaluateUnlock advances the drip ratchet by at most one step per call.
// Deliberately not one step per elapsed day: a user who has been away a week
// gets one unlock on return, not seven at once.
//
// totalUnlockable is the count of catalog guides participating in the drip.
// Once the ratchet reaches it, the schedule is exhausted: the ratchet stays
// clamped and NextUnlockAt is left alone rather than rescheduled.
func EvaluateUnlock(s State, now time.Time, totalUnlockable int) (State, []Event) {
	if now.Before(s.NextUnlockAt) {
		return s, nil
	}

	candidate := s.UnlockRatchet + 1
	if candidate > totalUnlockable {
		return s, nil
	}

	out := s.Clone()
	out.UnlockRatchet = candidate
	out.NextUnlockAt = now.AddDate(0, 0, 1)
	return out, []Event{{Kind: EventGuideUnlocked, Ratchet: candidate}}
}

// IsUnlocked is the visibility predicate for a catalog guide: a forced
// unlock wins outright, otherwise the guide must be in the drip schedule
// with its day already reached. Monotonic in the ratchet.
func IsUnlocked(g *model.Guide, s State) bool {
	if g.Unlocked {
		return true
	}
	return g.InDrip() && g.UnlockDay <= s.UnlockRatchet
}

// DaysUntilUnlock reports how many more drip steps until the guide opens;
// zero for guides outside the drip schedule or already reachable.
func DaysUntilUnlock(g *model.Guide, s State) int {
	if !g.InDrip() {
		return 0
	}
	return max(0, g.UnlockDay-s.UnlockRatchet)
}
