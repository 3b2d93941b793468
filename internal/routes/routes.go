package routes

import (
	"net/http"

	"github.com/mentecalma/server/internal/app"
	"github.com/mentecalma/server/internal/handler"
	"github.com/mentecalma/server/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService, app.UserService, app.Cfg)
	account := handler.NewAccountHandler(app.AuthService, app.UserService, app.ProfileService)
	profile := handler.NewProfileHandler(app.ProfileService)
	habit := handler.NewHabitHandler(app.HabitService)
	journal := handler.NewJournalHandler(app.JournalService)
	guide := handler.NewGuideHandler(app.GuideService, app.GamificationService)
	chat := handler.NewChatHandler(app.ChatService)
	progress := handler.NewProgressHandler(app.GamificationService)
	billing := handler.NewBillingHandler(app.SubscriptionService, app.PaymentService)
	community := handler.NewCommunityHandler(app.CommunityService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /health", health.Health)

	// Community content
	mux.HandleFunc("GET /community", community.List)
	mux.HandleFunc("GET /community/{slug}", community.Show)

	// Auth - Authentication flow (rate limited)
	rateLimiter := middleware.RateLimitAuth()

	// OAuth
	mux.HandleFunc("GET /auth/google", rateLimiter(middleware.RequireGuest(auth.GoogleAuth)))
	mux.HandleFunc("GET /auth/google/callback", rateLimiter(auth.GoogleCallback))

	// Token Verifications
	mux.HandleFunc("POST /auth/magic-link/{token}", auth.VerifyMagicLink)
	mux.HandleFunc("POST /auth/forgot-password/{token}", auth.VerifyForgotPassword)
	mux.HandleFunc("POST /auth/verify-email-change/{token}", auth.VerifyEmailChange)

	// Auth Actions
	mux.HandleFunc("POST /auth/magic-link", rateLimiter(middleware.RequireGuest(auth.SendMagicLink)))
	mux.HandleFunc("POST /auth/password", rateLimiter(middleware.RequireGuest(auth.PasswordAuth)))
	mux.HandleFunc("POST /auth/forgot-password", rateLimiter(middleware.RequireGuest(auth.ForgotPassword)))
	mux.HandleFunc("POST /auth/onboarding", middleware.RequireAuth(auth.CompleteOnboarding))
	mux.HandleFunc("POST /auth/logout", auth.Logout)

	// ============================================================================
	// PROTECTED ROUTES (/app/*)
	// ============================================================================

	// Session + progress
	mux.HandleFunc("POST /app/session", middleware.RequireAuth(progress.StartSession))
	mux.HandleFunc("GET /app/progress", middleware.RequireAuth(progress.Snapshot))

	// Profile
	mux.HandleFunc("GET /app/me", middleware.RequireAuth(profile.Me))
	mux.HandleFunc("PATCH /app/profile/name", middleware.RequireAuth(profile.UpdateName))
	mux.HandleFunc("PATCH /app/profile/gamified", middleware.RequireAuth(profile.SetGamified))

	// Account (Security & Identity)
	mux.HandleFunc("PATCH /app/account/email", middleware.RequireAuth(account.ChangeEmail))
	mux.HandleFunc("POST /app/account/password", middleware.RequireAuth(account.ChangePassword))
	mux.HandleFunc("POST /app/account/password/set", middleware.RequireAuth(account.SetPassword))
	mux.HandleFunc("DELETE /app/account/password", middleware.RequireAuth(account.RemovePassword))
	mux.HandleFunc("POST /app/account/avatar", middleware.RequireAuth(account.UploadAvatar))
	mux.HandleFunc("DELETE /app/account/avatar", middleware.RequireAuth(account.DeleteAvatar))
	mux.HandleFunc("DELETE /app/account", middleware.RequireAuth(account.DeleteAccount))

	// Habits
	mux.HandleFunc("GET /app/habits", middleware.RequireAuth(habit.List))
	mux.HandleFunc("POST /app/habits", middleware.RequireAuth(habit.Create))
	mux.HandleFunc("PUT /app/habits/{id}", middleware.RequireAuth(habit.Update))
	mux.HandleFunc("PATCH /app/habits/{id}/status", middleware.RequireAuth(habit.SetStatus))
	mux.HandleFunc("DELETE /app/habits/{id}", middleware.RequireAuth(habit.Delete))

	// Journal
	mux.HandleFunc("POST /app/journal/mood", middleware.RequireAuth(journal.LogMood))
	mux.HandleFunc("GET /app/journal/mood", middleware.RequireAuth(journal.MoodHistory))
	mux.HandleFunc("GET /app/journal/mood/today", middleware.RequireAuth(journal.TodayMood))
	mux.HandleFunc("POST /app/journal/sleep", middleware.RequireAuth(journal.LogSleep))
	mux.HandleFunc("GET /app/journal/sleep", middleware.RequireAuth(journal.SleepHistory))

	// Guides
	mux.HandleFunc("GET /app/guides", middleware.RequireAuth(guide.List))
	mux.HandleFunc("GET /app/guides/{slug}", middleware.RequireAuth(guide.Detail))
	mux.HandleFunc("GET /app/guides/{slug}/pdf", middleware.RequireAuth(guide.PDFURL))
	mux.HandleFunc("POST /app/guides/{slug}/complete", middleware.RequireAuth(guide.Complete))

	// Companion chat (rate limited)
	chatLimiter := middleware.RateLimitChat()
	mux.HandleFunc("GET /app/chat", middleware.RequireAuth(chat.History))
	mux.HandleFunc("POST /app/chat", chatLimiter(middleware.RequireAuth(chat.Send)))
	mux.HandleFunc("GET /app/chat/tip", middleware.RequireAuth(chat.DailyTip))

	// Billing
	mux.HandleFunc("GET /app/billing", middleware.RequireAuth(billing.Subscription))
	mux.HandleFunc("POST /app/billing/checkout", middleware.RequireAuth(billing.CreateCheckout))
	mux.HandleFunc("POST /app/billing/checkout/entitlement", middleware.RequireAuth(billing.CreateEntitlementCheckout))
	mux.HandleFunc("GET /app/billing/portal", middleware.RequireAuth(billing.CustomerPortal))

	// ============================================================================
	// WEBHOOKS
	// ============================================================================

	// Payment provider webhook (works with both Polar and Stripe)
	mux.HandleFunc("POST /webhooks/payment", billing.Webhook)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // Config must be first (needed by SecurityHeaders and CSRF)
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.CSRFProtection, // CSRF protection for all state-changing requests
		middleware.AuthMiddleware(app.AuthService, app.UserService, app.ProfileService, app.SubscriptionService),
	)

	return handler
}
