package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mentecalma/server/internal/service"
)

type communityHandler struct {
	communityService *service.CommunityService
}

func NewCommunityHandler(communityService *service.CommunityService) *communityHandler {
	return &communityHandler{
		communityService: communityService,
	}
}

func (h *communityHandler) List(w http.ResponseWriter, r *http.Request) {
	pages, err := h.communityService.Pages()
	if err != nil {
		slog.Error("failed to load community pages", "error", err)
		respondError(w, http.StatusInternalServerError, "Não foi possível carregar o conteúdo")
		return
	}

	// Listing omits bodies
	summaries := make([]map[string]string, 0, len(pages))
	for _, p := range pages {
		summaries = append(summaries, map[string]string{
			"slug":         p.Slug,
			"title":        p.Title,
			"summary":      p.Summary,
			"last_updated": p.LastUpdated,
		})
	}
	respond(w, http.StatusOK, map[string]any{"pages": summaries})
}

func (h *communityHandler) Show(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	page, err := h.communityService.Page(slug)
	if errors.Is(err, service.ErrPageNotFound) {
		respondError(w, http.StatusNotFound, "Página não encontrada")
		return
	}
	if err != nil {
		slog.Error("failed to load community page", "error", err, "slug", slug)
		respondError(w, http.StatusInternalServerError, "Não foi possível carregar a página")
		return
	}

	respond(w, http.StatusOK, page)
}
