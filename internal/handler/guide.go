package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mentecalma/server/internal/ctxkeys"
	"github.com/mentecalma/server/internal/service"
)

type guideHandler struct {
	guideService        *service.GuideService
	gamificationService *service.GamificationService
}

func NewGuideHandler(guideService *service.GuideService, gamificationService *service.GamificationService) *guideHandler {
	return &guideHandler{
		guideService:        guideService,
		gamificationService: gamificationService,
	}
}

type guideJSON struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content,omitempty"`
	UnlockDay   int    `json:"unlock_day,omitempty"`
	Premium     bool   `json:"premium"`
	Entitlement string `json:"entitlement,omitempty"`
	Unlocked    bool   `json:"unlocked"`
	DaysUntil   int    `json:"days_until,omitempty"`
	Completed   bool   `json:"completed"`
	MockupURL   string `json:"mockup_url,omitempty"`
}

func toGuideJSON(v *service.GuideView, includeContent bool) guideJSON {
	out := guideJSON{
		Slug:        v.Slug,
		Title:       v.Title,
		Description: v.Description,
		UnlockDay:   v.UnlockDay,
		Premium:     v.Premium,
		Entitlement: v.Entitlement,
		Unlocked:    v.UnlockedForUser,
		DaysUntil:   v.DaysUntil,
		Completed:   v.Completed,
		MockupURL:   v.MockupURL,
	}
	// Body content only ships for unlocked guides
	if includeContent && v.UnlockedForUser {
		out.Content = v.HTMLContent
	}
	return out
}

func (h *guideHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	state, err := h.gamificationService.Snapshot(user.ID)
	if err != nil {
		slog.Error("failed to load progression state", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Não foi possível carregar os guias")
		return
	}

	views, err := h.guideService.ListForUser(user.ID, state)
	if err != nil {
		slog.Error("failed to list guides", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Não foi possível carregar os guias")
		return
	}

	out := make([]guideJSON, 0, len(views))
	for i := range views {
		out = append(out, toGuideJSON(&views[i], false))
	}
	respond(w, http.StatusOK, map[string]any{"guides": out})
}

func (h *guideHandler) Detail(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	slug := r.PathValue("slug")

	state, err := h.gamificationService.Snapshot(user.ID)
	if err != nil {
		slog.Error("failed to load progression state", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Não foi possível carregar o guia")
		return
	}

	views, err := h.guideService.ListForUser(user.ID, state)
	if err != nil {
		slog.Error("failed to list guides", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Não foi possível carregar o guia")
		return
	}

	for i := range views {
		if views[i].Slug == slug {
			respond(w, http.StatusOK, toGuideJSON(&views[i], true))
			return
		}
	}

	respondError(w, http.StatusNotFound, "Guia não encontrado")
}

// PDFURL returns a short-lived download link for an accessible guide.
func (h *guideHandler) PDFURL(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	slug := r.PathValue("slug")

	url, err := h.guideService.PDFURL(user.ID, slug)
	if errors.Is(err, service.ErrGuideNotFound) {
		respondError(w, http.StatusNotFound, "Guia não encontrado")
		return
	}
	if errors.Is(err, service.ErrGuideLocked) {
		respondError(w, http.StatusForbidden, "Este guia ainda está bloqueado")
		return
	}
	if err != nil {
		slog.Error("failed to presign guide pdf", "error", err, "user_id", user.ID, "slug", slug)
		respondError(w, http.StatusInternalServerError, "Não foi possível gerar o link do PDF")
		return
	}

	respond(w, http.StatusOK, map[string]string{"url": url})
}

func (h *guideHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	slug := r.PathValue("slug")

	events, err := h.guideService.Complete(user.ID, slug)
	if errors.Is(err, service.ErrGuideNotFound) {
		respondError(w, http.StatusNotFound, "Guia não encontrado")
		return
	}
	if errors.Is(err, service.ErrGuideLocked) {
		respondError(w, http.StatusForbidden, "Este guia ainda está bloqueado")
		return
	}
	if err != nil {
		slog.Error("failed to complete guide", "error", err, "user_id", user.ID, "slug", slug)
		respondError(w, http.StatusInternalServerError, "Não foi possível concluir o guia")
		return
	}

	respond(w, http.StatusOK, map[string]any{"events": toEventJSON(events)})
}
