package progression

import "github.com/mentecalma/server/internal/model"

// Action is a qualifying user action the ledger may award points for.
type Action string

const (
	ActionMoodLogged      Action = "mood_logged"
	ActionSleepLogged     Action = "sleep_logged"
	ActionGuideCompleted  Action = "guide_completed"
	ActionChatMessageSent Action = "chat_message_sent"
)

// pointValues are fixed per action; the caller is responsible for invoking
// AwardPoints exactly once per logical action.
var pointValues = map[Action]int{
	ActionMoodLogged:      10,
	ActionSleepLogged:     10,
	ActionGuideCompleted:  50,
	ActionChatMessageSent: 5,
}

// LevelStep maps a points floor to a level. A LevelTable is ordered by
// ascending MinPoints with the first step at 0 points.
type LevelStep struct {
	MinPoints int
	Level     int
}

type LevelTable []LevelStep

// LevelFor returns the level for a points total. Because points only grow
// and steps are ascending, the result is monotone in points.
func (t LevelTable) LevelFor(points int) int {
	level := 1
	for _, step := range t {
		if points >= step.MinPoints {
			level = step.Level
		}
	}
	return level
}

// BadgeRule grants its badge the first time Earned reports true for an
// award; the grant is an idempotent union into the badge set.
type BadgeRule struct {
	ID     string
	Earned func(s State, a Action) bool
}

// Policy bundles the product-tunable parts of the ledger: level thresholds
// and badge conditions. The fixed point values are not tunable.
type Policy struct {
	Levels LevelTable
	Badges []BadgeRule
}

// DefaultPolicy is the shipped gamification policy. The first-chat badge is
// a one-time bonus granted alongside the regular per-message award, not a
// gate on it.
func DefaultPolicy() Policy {
	return Policy{
		Levels: LevelTable{
			{MinPoints: 0, Level: 1},
			{MinPoints: 100, Level: 2},
			{MinPoints: 250, Level: 3},
			{MinPoints: 500, Level: 4},
			{MinPoints: 1000, Level: 5},
		},
		Badges: []BadgeRule{
			{ID: model.BadgeFirstSteps, Earned: func(State, Action) bool { return true }},
			{ID: model.BadgeFriendlyChat, Earned: func(_ State, a Action) bool { return a == ActionChatMessageSent }},
			{ID: model.BadgeMoodDiary, Earned: func(_ State, a Action) bool { return a == ActionMoodLogged }},
		},
	}
}

// AwardPoints accrues the fixed value for the action and re-derives level
// and badges. A user who opted out of gamification accrues nothing, and an
// unrecognized action is ignored.
func (p Policy) AwardPoints(s State, action Action) (State, []Event) {
	if !s.Gamified {
		return s, nil
	}
	value, ok := pointValues[action]
	if !ok {
		return s, nil
	}

	out := s.Clone()
	out.Points += value

	var events []Event

	if level := p.Levels.LevelFor(out.Points); level > out.Level {
		out.Level = level
		events = append(events, Event{Kind: EventLevelUp, Level: level})
	}

	for _, rule := range p.Badges {
		if out.HasBadge(rule.ID) {
			continue
		}
		if rule.Earned(s, action) {
			out.Badges = append(out.Badges, rule.ID)
			events = append(events, Event{Kind: EventBadgeEarned, BadgeID: rule.ID})
		}
	}

	return out, events
}
