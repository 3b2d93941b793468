package progression

import (
	"slices"

	"github.com/google/uuid"
	"github.com/mentecalma/server/internal/model"
)

// NewHabit builds a fresh habit owned by userID. New habits always start as
// todo with createdAt = dueDate = today.
func NewHabit(userID, title, description string, importance model.HabitImportance, today model.Date) model.Habit {
	return model.Habit{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Importance:  importance,
		Status:      model.HabitStatusTodo,
		CreatedAt:   today,
		DueDate:     today,
	}
}

// AgeHabits marks every non-completed habit whose due date has passed as
// pending. Strict calendar comparison: a habit due today is not yet overdue.
// Idempotent; already-pending and completed habits are untouched.
func AgeHabits(habits []model.Habit, today model.Date) []model.Habit {
	out := slices.Clone(habits)
	for i, h := range out {
		if h.Status != model.HabitStatusCompleted && h.DueDate.Before(today) {
			out[i].Status = model.HabitStatusPending
		}
	}
	return out
}

// SetStatus replaces the status of the habit with the given id. An unknown
// id is a no-op, not an error: the UI may race a toggle against a delete.
func SetStatus(habits []model.Habit, id string, status model.HabitStatus) []model.Habit {
	out := slices.Clone(habits)
	for i := range out {
		if out[i].ID == id {
			out[i].Status = status
			break
		}
	}
	return out
}

// UpdateHabit replaces the mutable fields of the habit matching updated.ID.
// Identity and lifecycle fields (id, owner, status, createdAt) are kept;
// unknown ids are a no-op.
func UpdateHabit(habits []model.Habit, updated model.Habit) []model.Habit {
	out := slices.Clone(habits)
	for i := range out {
		if out[i].ID == updated.ID {
			out[i].Title = updated.Title
			out[i].Description = updated.Description
			out[i].Importance = updated.Importance
			out[i].DueDate = updated.DueDate
			break
		}
	}
	return out
}

// DeleteHabit removes the habit with the given id; no-op if not found.
func DeleteHabit(habits []model.Habit, id string) []model.Habit {
	return slices.DeleteFunc(slices.Clone(habits), func(h model.Habit) bool {
		return h.ID == id
	})
}
