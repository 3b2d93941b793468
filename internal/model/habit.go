package model

// HabitStatus is the lifecycle state of a habit. Valid transitions:
// todo → completed (toggle on), completed → todo (toggle off),
// todo → pending (automatic aging past the due date),
// pending → completed (toggle on). Nothing else moves a habit between
// states except explicit deletion.
type HabitStatus string

const (
	HabitStatusTodo      HabitStatus = "todo"
	HabitStatusPending   HabitStatus = "pending"
	HabitStatusCompleted HabitStatus = "completed"
)

func (s HabitStatus) Valid() bool {
	switch s {
	case HabitStatusTodo, HabitStatusPending, HabitStatusCompleted:
		return true
	}
	return false
}

// HabitImportance is a display/priority hint only; it has no scheduling
// effect.
type HabitImportance string

const (
	ImportanceHigh   HabitImportance = "high"
	ImportanceMedium HabitImportance = "medium"
	ImportanceLow    HabitImportance = "low"
)

func (i HabitImportance) Valid() bool {
	switch i {
	case ImportanceHigh, ImportanceMedium, ImportanceLow:
		return true
	}
	return false
}

type Habit struct {
	ID          string          `db:"id"`
	UserID      string          `db:"user_id"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	Importance  HabitImportance `db:"importance"`
	Status      HabitStatus     `db:"status"`
	CreatedAt   Date            `db:"created_at"`
	DueDate     Date            `db:"due_date"`
}
