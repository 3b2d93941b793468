package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mentecalma/server/internal/config"
	"github.com/mentecalma/server/internal/ctxkeys"
	"github.com/mentecalma/server/internal/service"
	"github.com/mentecalma/server/internal/validation"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const sessionDuration = 7 * 24 * time.Hour

type authHandler struct {
	authService       *service.AuthService
	userService       *service.UserService
	googleOAuthConfig *oauth2.Config
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService, cfg *config.Config) *authHandler {
	return &authHandler{
		authService: authService,
		userService: userService,
		googleOAuthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/google/callback",
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	respond(w, http.StatusOK, map[string]bool{"ok": true})
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *authHandler) SendMagicLink(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	err := decode(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Informe um email válido")
		return
	}

	email := strings.TrimSpace(req.Email)
	err = validation.ValidateEmail(email)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Informe um email válido")
		return
	}

	err = h.authService.SendMagicLink(email)
	if err != nil {
		// Don't reveal specific errors to prevent email enumeration
		slog.Warn("magic link send failed", "error", err, "email", email)
	}

	// Always report success to prevent email enumeration
	respond(w, http.StatusOK, map[string]bool{"sent": true})
}

func (h *authHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	err := decode(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Informe um email válido")
		return
	}

	email := strings.TrimSpace(req.Email)
	err = validation.ValidateEmail(email)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Informe um email válido")
		return
	}

	err = h.authService.SendForgotPasswordLink(email)
	if err != nil {
		// Don't reveal specific errors to user
		slog.Warn("forgot password link send failed", "error", err, "email", email)
	}

	respond(w, http.StatusOK, map[string]bool{"sent": true})
}

func (h *authHandler) VerifyMagicLink(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	user, err := h.authService.VerifyMagicLink(token)
	if err != nil {
		slog.Warn("magic link verification failed", "error", err, "token", token)
		respondError(w, http.StatusUnauthorized, "Link inválido ou expirado. Tente novamente.")
		return
	}

	jwtToken, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Algo deu errado. Tente novamente.")
		return
	}

	h.authService.SetJWTCookie(w, jwtToken, time.Now().Add(sessionDuration))

	needsOnboarding, err := h.authService.NeedsOnboarding(user.ID)
	if err != nil {
		slog.Warn("failed to check onboarding status", "error", err, "user_id", user.ID)
	}

	slog.Info("user logged in via magic link", "user_id", user.ID, "email", user.Email)
	respond(w, http.StatusOK, map[string]any{
		"user_id":          user.ID,
		"email":            user.Email,
		"needs_onboarding": needsOnboarding,
	})
}

// VerifyForgotPassword logs the user in from a reset link and removes the
// old password so a new one can be set.
func (h *authHandler) VerifyForgotPassword(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	user, err := h.authService.VerifyMagicLink(token)
	if err != nil {
		slog.Warn("forgot password verification failed", "error", err, "token", token)
		respondError(w, http.StatusUnauthorized, "Link inválido ou expirado. Tente novamente.")
		return
	}

	if user.HasPassword() {
		err = h.authService.RemovePassword(user.ID)
		if err != nil {
			slog.Error("failed to remove password during forgot password flow", "error", err, "user_id", user.ID)
			respondError(w, http.StatusInternalServerError, "Algo deu errado. Tente novamente.")
			return
		}
		slog.Info("password removed via forgot password flow", "user_id", user.ID)
	}

	jwtToken, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Algo deu errado. Tente novamente.")
		return
	}

	h.authService.SetJWTCookie(w, jwtToken, time.Now().Add(sessionDuration))

	slog.Info("user logged in via forgot password flow", "user_id", user.ID, "email", user.Email)
	respond(w, http.StatusOK, map[string]any{
		"user_id":          user.ID,
		"password_removed": true,
	})
}

func (h *authHandler) VerifyEmailChange(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	user, err := h.authService.VerifyEmailChange(token)
	if err != nil {
		slog.Warn("email change verification failed", "error", err, "token", token)
		respondError(w, http.StatusUnauthorized, "Link de verificação inválido ou expirado")
		return
	}

	jwtToken, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT after email change", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Algo deu errado. Tente novamente.")
		return
	}

	h.authService.SetJWTCookie(w, jwtToken, time.Now().Add(sessionDuration))

	slog.Info("email changed", "user_id", user.ID, "new_email", user.Email)
	respond(w, http.StatusOK, map[string]string{"email": user.Email})
}

type passwordAuthRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *authHandler) PasswordAuth(w http.ResponseWriter, r *http.Request) {
	var req passwordAuthRequest
	err := decode(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Email e senha são obrigatórios")
		return
	}

	email := strings.TrimSpace(req.Email)
	err = validation.ValidateEmail(email)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Informe um email válido")
		return
	}

	user, err := h.authService.Login(email, req.Password)
	if err != nil {
		slog.Warn("password login failed", "error", err, "email", email)
		respondError(w, http.StatusUnauthorized, "Email ou senha incorretos")
		return
	}

	jwtToken, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Algo deu errado. Tente novamente.")
		return
	}

	h.authService.SetJWTCookie(w, jwtToken, time.Now().Add(sessionDuration))

	needsOnboarding, err := h.authService.NeedsOnboarding(user.ID)
	if err != nil {
		slog.Warn("failed to check onboarding status", "error", err, "user_id", user.ID)
	}

	slog.Info("user logged in with password", "user_id", user.ID, "email", user.Email)
	respond(w, http.StatusOK, map[string]any{
		"user_id":          user.ID,
		"email":            user.Email,
		"needs_onboarding": needsOnboarding,
	})
}

type onboardingRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *authHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req onboardingRequest
	err := decode(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Informe seu nome")
		return
	}

	name := strings.TrimSpace(req.Name)
	err = h.authService.CompleteOnboarding(user.ID, name)
	if err != nil {
		slog.Error("onboarding failed", "error", err, "user_id", user.ID)
		respondError(w, http.StatusBadRequest, "Informe seu nome")
		return
	}

	slog.Info("onboarding completed", "user_id", user.ID, "name", name)
	respond(w, http.StatusOK, map[string]string{"name": name})
}

// GoogleAuth redirects user to Google OAuth consent screen
func (h *authHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	// Generate secure state token for CSRF protection
	state := generateOAuthState()

	cfg := ctxkeys.Config(r.Context())
	isProduction := cfg != nil && cfg.IsProduction()

	// Store state in secure cookie
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction, // Secure flag based on APP_ENV (safer than r.TLS behind load balancers)
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	url := h.googleOAuthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GoogleCallback handles the OAuth callback from Google
func (h *authHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	// Validate state parameter for CSRF protection
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie("oauth_state")
	if err != nil || cookie.Value != state || state == "" {
		slog.Warn("google oauth state validation failed", "error", err)
		respondError(w, http.StatusUnauthorized, "Falha na autenticação. Tente novamente.")
		return
	}

	// Clear state cookie
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("google oauth callback missing code")
		respondError(w, http.StatusUnauthorized, "Falha na autenticação. Tente novamente.")
		return
	}

	// Exchange code for token
	token, err := h.googleOAuthConfig.Exchange(context.Background(), code)
	if err != nil {
		slog.Error("google oauth token exchange failed", "error", err)
		respondError(w, http.StatusUnauthorized, "Falha na autenticação. Tente novamente.")
		return
	}

	// Get user info from Google
	client := h.googleOAuthConfig.Client(context.Background(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		slog.Error("failed to get google user info", "error", err)
		respondError(w, http.StatusUnauthorized, "Falha na autenticação. Tente novamente.")
		return
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	var userInfo struct {
		Email string `json:"email"`
	}
	err = json.NewDecoder(resp.Body).Decode(&userInfo)
	if err != nil {
		slog.Error("failed to decode google user info", "error", err)
		respondError(w, http.StatusUnauthorized, "Falha na autenticação. Tente novamente.")
		return
	}

	// Authenticate or create user
	user, err := h.authService.AuthenticateOAuth(userInfo.Email, "google")
	if err != nil {
		slog.Error("oauth authentication failed", "error", err, "email", userInfo.Email)
		respondError(w, http.StatusUnauthorized, "Falha na autenticação. Tente novamente.")
		return
	}

	// Generate JWT
	jwtToken, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Algo deu errado. Tente novamente.")
		return
	}

	h.authService.SetJWTCookie(w, jwtToken, time.Now().Add(sessionDuration))

	slog.Info("user logged in with google oauth", "user_id", user.ID, "email", user.Email)

	// Check if user needs onboarding
	needsOnboarding, err := h.authService.NeedsOnboarding(user.ID)
	if err != nil {
		slog.Warn("failed to check onboarding status", "error", err, "user_id", user.ID)
	}

	// The callback lands in a browser tab opened by the client; send it
	// back into the app.
	cfg := ctxkeys.Config(r.Context())
	appURL := ""
	if cfg != nil {
		appURL = cfg.AppURL
	}
	if needsOnboarding {
		http.Redirect(w, r, appURL+"/boas-vindas", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, appURL+"/inicio", http.StatusSeeOther)
}

// generateOAuthState creates cryptographically secure random state token for OAuth CSRF protection
func generateOAuthState() string {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		panic("failed to generate oauth state: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}
