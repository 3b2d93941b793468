package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mentecalma/server/internal/ctxkeys"
	"github.com/mentecalma/server/internal/model"
	"github.com/mentecalma/server/internal/service"
)

type journalHandler struct {
	journalService *service.JournalService
}

func NewJournalHandler(journalService *service.JournalService) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

type moodLogJSON struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Mood   string `json:"mood"`
	Note   string `json:"note"`
	Energy int    `json:"energy"`
}

func toMoodLogJSON(log *model.MoodLog) moodLogJSON {
	return moodLogJSON{
		ID:     log.ID,
		Date:   string(log.Date),
		Mood:   string(log.Mood),
		Note:   log.Note,
		Energy: log.Energy,
	}
}

type sleepLogJSON struct {
	ID      string  `json:"id"`
	Date    string  `json:"date"`
	Quality string  `json:"quality"`
	Hours   float64 `json:"hours"`
}

func toSleepLogJSON(log *model.SleepLog) sleepLogJSON {
	return sleepLogJSON{
		ID:      log.ID,
		Date:    string(log.Date),
		Quality: string(log.Quality),
		Hours:   log.Hours,
	}
}

type logMoodRequest struct {
	Mood   string `json:"mood" validate:"required"`
	Note   string `json:"note"`
	Energy int    `json:"energy" validate:"required"`
}

func (h *journalHandler) LogMood(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req logMoodRequest
	err := decode(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Informe como você está se sentindo")
		return
	}

	log, events, err := h.journalService.LogMood(user.ID, model.Mood(req.Mood), req.Note, req.Energy)
	if err != nil {
		slog.Warn("failed to log mood", "error", err, "user_id", user.ID)
		respondError(w, http.StatusBadRequest, "Registro de humor inválido")
		return
	}

	respond(w, http.StatusCreated, map[string]any{
		"log":    toMoodLogJSON(log),
		"events": toEventJSON(events),
	})
}

type logSleepRequest struct {
	Quality string  `json:"quality" validate:"required"`
	Hours   float64 `json:"hours" validate:"required"`
}

func (h *journalHandler) LogSleep(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req logSleepRequest
	err := decode(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Informe a qualidade do sono")
		return
	}

	log, events, err := h.journalService.LogSleep(user.ID, model.SleepQuality(req.Quality), req.Hours)
	if err != nil {
		slog.Warn("failed to log sleep", "error", err, "user_id", user.ID)
		respondError(w, http.StatusBadRequest, "Registro de sono inválido")
		return
	}

	respond(w, http.StatusCreated, map[string]any{
		"log":    toSleepLogJSON(log),
		"events": toEventJSON(events),
	})
}

func (h *journalHandler) MoodHistory(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	limit := parseLimit(r)

	logs, err := h.journalService.MoodHistory(user.ID, limit)
	if err != nil {
		slog.Error("failed to load mood history", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Não foi possível carregar o histórico")
		return
	}

	out := make([]moodLogJSON, 0, len(logs))
	for i := range logs {
		out = append(out, toMoodLogJSON(&logs[i]))
	}
	respond(w, http.StatusOK, map[string]any{"logs": out})
}

func (h *journalHandler) SleepHistory(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	limit := parseLimit(r)

	logs, err := h.journalService.SleepHistory(user.ID, limit)
	if err != nil {
		slog.Error("failed to load sleep history", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Não foi possível carregar o histórico")
		return
	}

	out := make([]sleepLogJSON, 0, len(logs))
	for i := range logs {
		out = append(out, toSleepLogJSON(&logs[i]))
	}
	respond(w, http.StatusOK, map[string]any{"logs": out})
}

// TodayMood returns the mood logged today, if any. The client uses this to
// avoid prompting twice for the daily check-in.
func (h *journalHandler) TodayMood(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	log, err := h.journalService.TodayMood(user.ID)
	if err != nil {
		slog.Error("failed to load today's mood", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Não foi possível carregar o registro de hoje")
		return
	}

	if log == nil {
		respond(w, http.StatusOK, map[string]any{"log": nil})
		return
	}

	respond(w, http.StatusOK, map[string]any{"log": toMoodLogJSON(log)})
}

func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
