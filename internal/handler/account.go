package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mentecalma/server/internal/ctxkeys"
	"github.com/mentecalma/server/internal/service"
	"github.com/mentecalma/server/internal/validation"
)

// maxAvatarSize limits avatar uploads to 5MB.
const maxAvatarSize = 5 << 20

type accountHandler struct {
	authService    *service.AuthService
	userService    *service.UserService
	profileService *service.ProfileService
}

func NewAccountHandler(authService *service.AuthService, userService *service.UserService, profileService *service.ProfileService) *accountHandler {
	return &accountHandler{
		authService:    authService,
		userService:    userService,
		profileService: profileService,
	}
}

type changeEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *accountHandler) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req changeEmailRequest
	err := decode(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Informe um email válido")
		return
	}

	newEmail := strings.TrimSpace(req.Email)
	err = validation.ValidateEmail(newEmail)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Informe um email válido")
		return
	}

	err = h.authService.RequestEmailChange(user.ID, newEmail)
	if errors.Is(err, service.ErrEmailAlreadyExists) {
		respondError(w, http.StatusConflict, "Este email já está em uso")
		return
	}
	if err != nil {
		slog.Error("email change request failed", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Algo deu errado. Tente novamente.")
		return
	}

	slog.Info("email change requested", "user_id", user.ID, "new_email", newEmail)
	respond(w, http.StatusOK, map[string]bool{"verification_sent": true})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

func (h *accountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req changePasswordRequest
	err := decode(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Senha atual e nova senha são obrigatórias")
		return
	}

	err = h.userService.UpdatePassword(user.ID, req.CurrentPassword, req.NewPassword)
	if errors.Is(err, service.ErrInvalidCurrentPassword) {
		respondError(w, http.StatusUnauthorized, "Senha atual incorreta")
		return
	}
	if err != nil {
		slog.Warn("password change failed", "error", err, "user_id", user.ID)
		respondError(w, http.StatusBadRequest, "A nova senha precisa ter pelo menos 8 caracteres")
		return
	}

	slog.Info("password changed", "user_id", user.ID)
	respond(w, http.StatusOK, map[string]bool{"ok": true})
}

type setPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

func (h *accountHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req setPasswordRequest
	err := decode(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Informe a nova senha")
		return
	}

	err = h.authService.SetPassword(user.ID, req.Password)
	if err != nil {
		slog.Warn("set password failed", "error", err, "user_id", user.ID)
		respondError(w, http.StatusBadRequest, "A senha precisa ter pelo menos 8 caracteres")
		return
	}

	slog.Info("password set", "user_id", user.ID)
	respond(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *accountHandler) RemovePassword(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.authService.RemovePassword(user.ID)
	if err != nil {
		slog.Error("remove password failed", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Algo deu errado. Tente novamente.")
		return
	}

	slog.Info("password removed", "user_id", user.ID)
	respond(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *accountHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)
	err := r.ParseMultipartForm(maxAvatarSize)
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "A imagem precisa ter no máximo 5MB")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Envie uma imagem no campo avatar")
		return
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close uploaded file", "error", closeErr)
		}
	}()

	contentType := header.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/webp" {
		respondError(w, http.StatusBadRequest, "Formato não suportado. Use JPEG, PNG ou WebP.")
		return
	}

	profile, err := h.profileService.SetAvatar(user.ID, file, header)
	if err != nil {
		slog.Error("failed to upload avatar", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Não foi possível salvar a imagem")
		return
	}

	respond(w, http.StatusOK, map[string]string{
		"avatar_url": h.profileService.AvatarURL(profile),
	})
}

func (h *accountHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.profileService.DeleteAvatar(user.ID)
	if err != nil {
		slog.Error("failed to delete avatar", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Não foi possível remover a imagem")
		return
	}

	respond(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *accountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.userService.DeleteAccount(user.ID)
	if errors.Is(err, service.ErrActiveSubscription) {
		respondError(w, http.StatusConflict, "Cancele sua assinatura antes de excluir a conta")
		return
	}
	if err != nil {
		slog.Error("account deletion failed", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Algo deu errado. Tente novamente.")
		return
	}

	h.authService.ClearJWTCookie(w)
	slog.Info("account deleted", "user_id", user.ID)
	respond(w, http.StatusOK, map[string]bool{"deleted": true})
}
