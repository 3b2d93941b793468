package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentecalma/server/internal/model"
)

func TestHabitCreate(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)
	habits := NewHabitService(f.gamification, f.clock)

	habit, err := habits.Create(userID, "  Beber água  ", "2 litros por dia", model.ImportanceHigh)
	require.NoError(t, err)

	assert.Equal(t, "Beber água", habit.Title)
	assert.Equal(t, model.HabitStatusTodo, habit.Status)
	assert.Equal(t, model.DateOf(f.clock.Now()), habit.DueDate)

	list, err := habits.List(userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, habit.ID, list[0].ID)
}

func TestHabitCreateRejectsBlankTitle(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)
	habits := NewHabitService(f.gamification, f.clock)

	_, err := habits.Create(userID, "   ", "", model.ImportanceLow)
	assert.Error(t, err)
}

func TestHabitCreateDefaultsImportance(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)
	habits := NewHabitService(f.gamification, f.clock)

	habit, err := habits.Create(userID, "Alongar", "", model.HabitImportance("urgent"))
	require.NoError(t, err)
	assert.Equal(t, model.ImportanceMedium, habit.Importance)
}

func TestHabitSetStatus(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)
	habits := NewHabitService(f.gamification, f.clock)

	habit, err := habits.Create(userID, "Caminhar", "", model.ImportanceMedium)
	require.NoError(t, err)

	err = habits.SetStatus(userID, habit.ID, model.HabitStatusCompleted)
	require.NoError(t, err)

	list, err := habits.List(userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.HabitStatusCompleted, list[0].Status)

	// Unknown IDs are tolerated so stale clients do not error.
	err = habits.SetStatus(userID, "missing", model.HabitStatusTodo)
	assert.NoError(t, err)
}

func TestHabitUpdateKeepsIdentityFields(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)
	habits := NewHabitService(f.gamification, f.clock)

	habit, err := habits.Create(userID, "Ler", "", model.ImportanceLow)
	require.NoError(t, err)

	err = habits.SetStatus(userID, habit.ID, model.HabitStatusCompleted)
	require.NoError(t, err)

	updated := *habit
	updated.Title = "Ler 20 páginas"
	updated.Importance = model.ImportanceHigh
	updated.Status = model.HabitStatusTodo // must not be applied
	err = habits.Update(userID, updated)
	require.NoError(t, err)

	list, err := habits.List(userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ler 20 páginas", list[0].Title)
	assert.Equal(t, model.ImportanceHigh, list[0].Importance)
	assert.Equal(t, model.HabitStatusCompleted, list[0].Status)
}

func TestHabitDelete(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)
	habits := NewHabitService(f.gamification, f.clock)

	habit, err := habits.Create(userID, "Meditar", "", model.ImportanceMedium)
	require.NoError(t, err)

	err = habits.Delete(userID, habit.ID)
	require.NoError(t, err)

	list, err := habits.List(userID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
