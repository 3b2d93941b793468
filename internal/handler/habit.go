package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mentecalma/server/internal/ctxkeys"
	"github.com/mentecalma/server/internal/model"
	"github.com/mentecalma/server/internal/service"
)

type habitHandler struct {
	habitService *service.HabitService
}

func NewHabitHandler(habitService *service.HabitService) *habitHandler {
	return &habitHandler{
		habitService: habitService,
	}
}

func (h *habitHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	habits, err := h.habitService.List(user.ID)
	if err != nil {
		slog.Error("failed to list habits", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Não foi possível carregar os hábitos")
		return
	}

	respond(w, http.StatusOK, map[string]any{"habits": toHabitListJSON(habits)})
}

type createHabitRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Importance  string `json:"importance"`
}

func (h *habitHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req createHabitRequest
	err := decode(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Informe o título do hábito")
		return
	}

	habit, err := h.habitService.Create(user.ID, strings.TrimSpace(req.Title), req.Description, model.HabitImportance(req.Importance))
	if err != nil {
		slog.Warn("failed to create habit", "error", err, "user_id", user.ID)
		respondError(w, http.StatusBadRequest, "Não foi possível criar o hábito")
		return
	}

	respond(w, http.StatusCreated, toHabitJSON(habit))
}

type updateHabitRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Importance  string `json:"importance"`
	DueDate     string `json:"due_date"`
}

func (h *habitHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")

	var req updateHabitRequest
	err := decode(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Informe o título do hábito")
		return
	}

	updated := model.Habit{
		ID:          habitID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Importance:  model.HabitImportance(req.Importance),
		DueDate:     model.Date(req.DueDate),
	}

	err = h.habitService.Update(user.ID, updated)
	if err != nil {
		slog.Warn("failed to update habit", "error", err, "user_id", user.ID, "habit_id", habitID)
		respondError(w, http.StatusBadRequest, "Não foi possível atualizar o hábito")
		return
	}

	respond(w, http.StatusOK, map[string]bool{"ok": true})
}

type setHabitStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *habitHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")

	var req setHabitStatusRequest
	err := decode(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Informe o status do hábito")
		return
	}

	status := model.HabitStatus(req.Status)
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "Status inválido")
		return
	}

	err = h.habitService.SetStatus(user.ID, habitID, status)
	if err != nil {
		slog.Error("failed to set habit status", "error", err, "user_id", user.ID, "habit_id", habitID)
		respondError(w, http.StatusInternalServerError, "Não foi possível atualizar o hábito")
		return
	}

	respond(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *habitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")

	err := h.habitService.Delete(user.ID, habitID)
	if err != nil {
		slog.Error("failed to delete habit", "error", err, "user_id", user.ID, "habit_id", habitID)
		respondError(w, http.StatusInternalServerError, "Não foi possível excluir o hábito")
		return
	}

	respond(w, http.StatusOK, map[string]bool{"ok": true})
}
