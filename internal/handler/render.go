package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/mentecalma/server/internal/model"
	"github.com/mentecalma/server/internal/progression"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorResponse struct {
	Error string `json:"error"`
}

// respond writes v as a JSON response with the given status.
func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, errorResponse{Error: message})
}

var errInvalidBody = errors.New("invalid request body")

// decode parses the JSON body into dst and runs struct validation.
func decode(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		return errInvalidBody
	}

	err = validate.Struct(dst)
	if err != nil {
		return errInvalidBody
	}

	return nil
}

// eventJSON is the wire shape of a progression event.
type eventJSON struct {
	Kind    string `json:"kind"`
	Ratchet int    `json:"ratchet,omitempty"`
	BadgeID string `json:"badge_id,omitempty"`
	Level   int    `json:"level,omitempty"`
}

func toEventJSON(events []progression.Event) []eventJSON {
	out := make([]eventJSON, 0, len(events))
	for _, ev := range events {
		out = append(out, eventJSON{
			Kind:    string(ev.Kind),
			Ratchet: ev.Ratchet,
			BadgeID: ev.BadgeID,
			Level:   ev.Level,
		})
	}
	return out
}

// habitJSON is the wire shape of a habit.
type habitJSON struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Importance  string `json:"importance"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	DueDate     string `json:"due_date"`
}

func toHabitJSON(h *model.Habit) habitJSON {
	return habitJSON{
		ID:          h.ID,
		Title:       h.Title,
		Description: h.Description,
		Importance:  string(h.Importance),
		Status:      string(h.Status),
		CreatedAt:   string(h.CreatedAt),
		DueDate:     string(h.DueDate),
	}
}

func toHabitListJSON(habits []model.Habit) []habitJSON {
	out := make([]habitJSON, 0, len(habits))
	for i := range habits {
		out = append(out, toHabitJSON(&habits[i]))
	}
	return out
}
