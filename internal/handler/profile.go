package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mentecalma/server/internal/ctxkeys"
	"github.com/mentecalma/server/internal/service"
)

type profileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *profileHandler {
	return &profileHandler{
		profileService: profileService,
	}
}

// Me returns the authenticated user's account snapshot.
func (h *profileHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	profile := ctxkeys.Profile(r.Context())
	subscription := ctxkeys.Subscription(r.Context())

	respond(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":             user.ID,
			"email":          user.Email,
			"has_password":   user.HasPassword(),
			"email_verified": user.EmailVerifiedAt != nil,
		},
		"profile": map[string]any{
			"name":       profile.Name,
			"gamified":   profile.Gamified,
			"avatar_url": h.profileService.AvatarURL(profile),
		},
		"subscription": map[string]any{
			"plan":    subscription.PlanID,
			"status":  subscription.Status,
			"premium": subscription.IsPremium(),
			"price":   subscription.FormatPrice(),
		},
	})
}

type updateNameRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *profileHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req updateNameRequest
	err := decode(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Informe seu nome")
		return
	}

	name := strings.TrimSpace(req.Name)
	err = h.profileService.UpdateName(user.ID, name)
	if err != nil {
		slog.Warn("failed to update name", "error", err, "user_id", user.ID)
		respondError(w, http.StatusBadRequest, "Não foi possível atualizar o nome")
		return
	}

	respond(w, http.StatusOK, map[string]string{"name": name})
}

type setGamifiedRequest struct {
	Gamified *bool `json:"gamified" validate:"required"`
}

// SetGamified flips the points/levels/badges opt-in.
func (h *profileHandler) SetGamified(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req setGamifiedRequest
	err := decode(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Informe o valor de gamified")
		return
	}

	err = h.profileService.SetGamified(user.ID, *req.Gamified)
	if err != nil {
		slog.Error("failed to update gamified flag", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Algo deu errado. Tente novamente.")
		return
	}

	slog.Info("gamification preference updated", "user_id", user.ID, "gamified", *req.Gamified)
	respond(w, http.StatusOK, map[string]bool{"gamified": *req.Gamified})
}
