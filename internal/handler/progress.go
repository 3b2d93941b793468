package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mentecalma/server/internal/ctxkeys"
	"github.com/mentecalma/server/internal/model"
	"github.com/mentecalma/server/internal/progression"
	"github.com/mentecalma/server/internal/service"
)

type progressHandler struct {
	gamificationService *service.GamificationService
}

func NewProgressHandler(gamificationService *service.GamificationService) *progressHandler {
	return &progressHandler{
		gamificationService: gamificationService,
	}
}

type badgeJSON struct {
	model.Badge
	Earned bool `json:"earned"`
}

func toStateJSON(state progression.State) map[string]any {
	badges := make([]badgeJSON, 0, len(model.Badges))
	for _, b := range model.Badges {
		badges = append(badges, badgeJSON{
			Badge:  b,
			Earned: state.HasBadge(b.ID),
		})
	}

	return map[string]any{
		"unlock_ratchet": state.UnlockRatchet,
		"next_unlock_at": state.NextUnlockAt.Format(time.RFC3339),
		"points":         state.Points,
		"level":          state.Level,
		"gamified":       state.Gamified,
		"badges":         badges,
	}
}

// StartSession runs the daily evaluation: drip unlock plus habit aging.
// The client calls it once when the app opens.
func (h *progressHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	state, events, err := h.gamificationService.StartSession(user.ID)
	if err != nil {
		slog.Error("failed to start session", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Não foi possível iniciar a sessão")
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"progress": toStateJSON(state),
		"habits":   toHabitListJSON(state.Habits),
		"events":   toEventJSON(events),
	})
}

// Snapshot returns the progression state without evaluating anything.
func (h *progressHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	state, err := h.gamificationService.Snapshot(user.ID)
	if err != nil {
		slog.Error("failed to load progress", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Não foi possível carregar o progresso")
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"progress": toStateJSON(state),
	})
}
