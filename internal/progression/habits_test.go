package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentecalma/server/internal/model"
)

func TestNewHabit(t *testing.T) {
	today := model.Date("2024-07-25")

	h := NewHabit("user-1", "5 minutos de meditação", "Usar o app de meditação guiada.", model.ImportanceHigh, today)

	assert.NotEmpty(t, h.ID)
	assert.Equal(t, "user-1", h.UserID)
	assert.Equal(t, model.HabitStatusTodo, h.Status)
	assert.Equal(t, today, h.CreatedAt)
	assert.Equal(t, today, h.DueDate)

	other := NewHabit("user-1", "Beber 2L de água", "", model.ImportanceLow, today)
	assert.NotEqual(t, h.ID, other.ID)
}

func TestAgeHabitsMarksOverdueAsPending(t *testing.T) {
	habits := []model.Habit{
		{ID: "h1", Status: model.HabitStatusTodo, DueDate: "2024-07-20"},
		{ID: "h2", Status: model.HabitStatusTodo, DueDate: "2024-07-25"},
		{ID: "h3", Status: model.HabitStatusCompleted, DueDate: "2024-07-01"},
		{ID: "h4", Status: model.HabitStatusPending, DueDate: "2024-07-19"},
	}

	aged := AgeHabits(habits, "2024-07-25")

	assert.Equal(t, model.HabitStatusPending, aged[0].Status, "overdue todo ages to pending")
	assert.Equal(t, model.HabitStatusTodo, aged[1].Status, "due today is not overdue")
	assert.Equal(t, model.HabitStatusCompleted, aged[2].Status, "completed habits never age")
	assert.Equal(t, model.HabitStatusPending, aged[3].Status)

	// Input is untouched.
	assert.Equal(t, model.HabitStatusTodo, habits[0].Status)
}

func TestAgeHabitsIdempotent(t *testing.T) {
	habits := []model.Habit{
		{ID: "h1", Status: model.HabitStatusTodo, DueDate: "2024-07-20"},
		{ID: "h2", Status: model.HabitStatusCompleted, DueDate: "2024-07-10"},
	}
	today := model.Date("2024-07-25")

	once := AgeHabits(habits, today)
	twice := AgeHabits(once, today)

	assert.Equal(t, once, twice)
}

func TestAgeHabitsNeverTouchesCompleted(t *testing.T) {
	h := model.Habit{ID: "h1", Status: model.HabitStatusCompleted, DueDate: "2000-01-01"}

	for _, today := range []model.Date{"1999-12-31", "2000-01-01", "2030-06-15"} {
		aged := AgeHabits([]model.Habit{h}, today)
		assert.Equal(t, model.HabitStatusCompleted, aged[0].Status, "today=%s", today)
	}
}

func TestSetStatus(t *testing.T) {
	habits := []model.Habit{
		{ID: "h1", Status: model.HabitStatusPending},
		{ID: "h2", Status: model.HabitStatusTodo},
	}

	updated := SetStatus(habits, "h1", model.HabitStatusCompleted)
	assert.Equal(t, model.HabitStatusCompleted, updated[0].Status)
	assert.Equal(t, model.HabitStatusTodo, updated[1].Status)
}

func TestSetStatusUnknownIDIsNoOp(t *testing.T) {
	habits := []model.Habit{
		{ID: "h1", Status: model.HabitStatusTodo},
	}

	require.NotPanics(t, func() {
		updated := SetStatus(habits, "unknown-id", model.HabitStatusCompleted)
		assert.Equal(t, habits, updated)
	})
}

func TestUpdateHabitReplacesMutableFields(t *testing.T) {
	habits := []model.Habit{
		{
			ID:          "h1",
			UserID:      "user-1",
			Title:       "Caminhada leve",
			Importance:  model.ImportanceMedium,
			Status:      model.HabitStatusPending,
			CreatedAt:   "2024-07-20",
			DueDate:     "2024-07-20",
		},
	}

	updated := UpdateHabit(habits, model.Habit{
		ID:          "h1",
		UserID:      "someone-else", // must not take effect
		Title:       "Caminhada de 30 minutos",
		Description: "No parque",
		Importance:  model.ImportanceHigh,
		Status:      model.HabitStatusCompleted, // status is lifecycle-managed, not editable
		CreatedAt:   "2020-01-01",
		DueDate:     "2024-07-28",
	})

	h := updated[0]
	assert.Equal(t, "Caminhada de 30 minutos", h.Title)
	assert.Equal(t, "No parque", h.Description)
	assert.Equal(t, model.ImportanceHigh, h.Importance)
	assert.Equal(t, model.Date("2024-07-28"), h.DueDate)
	assert.Equal(t, "user-1", h.UserID)
	assert.Equal(t, model.HabitStatusPending, h.Status)
	assert.Equal(t, model.Date("2024-07-20"), h.CreatedAt)
}

func TestUpdateHabitUnknownIDIsNoOp(t *testing.T) {
	habits := []model.Habit{{ID: "h1", Title: "Original"}}

	updated := UpdateHabit(habits, model.Habit{ID: "nope", Title: "Changed"})
	assert.Equal(t, habits, updated)
}

func TestDeleteHabit(t *testing.T) {
	habits := []model.Habit{{ID: "h1"}, {ID: "h2"}, {ID: "h3"}}

	remaining := DeleteHabit(habits, "h2")
	require.Len(t, remaining, 2)
	assert.Equal(t, "h1", remaining[0].ID)
	assert.Equal(t, "h3", remaining[1].ID)

	assert.Equal(t, remaining, DeleteHabit(remaining, "h2"), "double delete is a no-op")
	assert.Len(t, habits, 3, "input is untouched")
}
