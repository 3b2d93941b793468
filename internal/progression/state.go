package progression

import (
	"slices"
	"time"

	"github.com/mentecalma/server/internal/model"
)

// State is the in-memory progression snapshot for one user: the drip
// ratchet, the gamification tally, and the habit set. All rule functions in
// this package treat State as immutable and return a derived copy; the only
// place a user's state is replaced is the dispatcher's apply point.
type State struct {
	UnlockRatchet int       // count of drip guides unlocked so far; never decreases
	NextUnlockAt  time.Time // earliest moment the ratchet may advance again
	Points        int
	Level         int
	Gamified      bool // opted in to points/levels/badges
	Badges        []string
	Habits        []model.Habit
}

// Clone returns a State whose slices do not alias the receiver's.
func (s State) Clone() State {
	out := s
	out.Badges = slices.Clone(s.Badges)
	out.Habits = slices.Clone(s.Habits)
	return out
}

func (s State) HasBadge(id string) bool {
	return slices.Contains(s.Badges, id)
}

// Event is emitted by a rule function for the caller to surface to the
// user; the engine never renders events.
type Event struct {
	Kind    EventKind
	Ratchet int    // EventGuideUnlocked: ratchet value after the advance
	BadgeID string // EventBadgeEarned
	Level   int    // EventLevelUp: new level
}

type EventKind string

const (
	EventGuideUnlocked EventKind = "guide_unlocked"
	EventBadgeEarned   EventKind = "badge_earned"
	EventLevelUp       EventKind = "level_up"
)
