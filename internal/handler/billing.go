package handler

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mentecalma/server/internal/ctxkeys"
	"github.com/mentecalma/server/internal/model"
	"github.com/mentecalma/server/internal/service"
	"github.com/mentecalma/server/internal/service/payment"
)

type billingHandler struct {
	subscriptionService *service.SubscriptionService
	paymentService      payment.Provider
}

func NewBillingHandler(subscriptionService *service.SubscriptionService, paymentService payment.Provider) *billingHandler {
	return &billingHandler{
		subscriptionService: subscriptionService,
		paymentService:      paymentService,
	}
}

// Subscription returns the caller's plan and entitlements.
func (h *billingHandler) Subscription(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	subscription := ctxkeys.Subscription(r.Context())

	entitlements, err := h.subscriptionService.Entitlements(user.ID)
	if err != nil {
		slog.Error("failed to load entitlements", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Não foi possível carregar a assinatura")
		return
	}

	keys := make([]string, 0, len(entitlements))
	for _, e := range entitlements {
		keys = append(keys, e.Key)
	}

	resp := map[string]any{
		"plan":         subscription.PlanID,
		"status":       subscription.Status,
		"premium":      subscription.IsPremium(),
		"price":        subscription.FormatPrice(),
		"entitlements": keys,
	}
	if subscription.CurrentPeriodEnd != nil {
		resp["current_period_end"] = subscription.CurrentPeriodEnd.Format(time.RFC3339)
	}

	respond(w, http.StatusOK, resp)
}

type checkoutRequest struct {
	Interval string `json:"interval"`
}

// CreateCheckout starts a premium subscription checkout and returns the
// provider's hosted checkout URL.
func (h *billingHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	profile := ctxkeys.Profile(r.Context())
	if profile == nil {
		respondError(w, http.StatusInternalServerError, "Perfil não encontrado")
		return
	}

	var req checkoutRequest
	err := decode(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Requisição inválida")
		return
	}

	interval := req.Interval
	if interval == "" {
		interval = model.SubscriptionIntervalMonthly
	}

	checkoutURL, err := h.paymentService.CreateCheckoutURL(user.ID, model.SubscriptionPlanPremium, interval, user.Email, profile.Name)
	if err != nil {
		slog.Error("failed to create checkout", "error", err, "user_id", user.ID, "provider", h.paymentService.Name())
		respondError(w, http.StatusInternalServerError, "Não foi possível iniciar o pagamento")
		return
	}

	slog.Info("checkout created", "user_id", user.ID, "provider", h.paymentService.Name(), "interval", interval)
	respond(w, http.StatusOK, map[string]string{"checkout_url": checkoutURL})
}

type entitlementCheckoutRequest struct {
	Entitlement string `json:"entitlement" validate:"required"`
}

// CreateEntitlementCheckout starts a one-off purchase checkout for a paid
// program (detox21, codigo_mental).
func (h *billingHandler) CreateEntitlementCheckout(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	profile := ctxkeys.Profile(r.Context())
	if profile == nil {
		respondError(w, http.StatusInternalServerError, "Perfil não encontrado")
		return
	}

	var req entitlementCheckoutRequest
	err := decode(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Informe o programa desejado")
		return
	}

	if req.Entitlement != model.EntitlementDetox21 && req.Entitlement != model.EntitlementCodigoMental {
		respondError(w, http.StatusBadRequest, "Programa desconhecido")
		return
	}

	has, err := h.subscriptionService.HasEntitlement(user.ID, req.Entitlement)
	if err != nil {
		slog.Error("failed to check entitlement", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Não foi possível iniciar o pagamento")
		return
	}
	if has {
		respondError(w, http.StatusConflict, "Você já tem acesso a este programa")
		return
	}

	checkoutURL, err := h.paymentService.CreateEntitlementCheckoutURL(user.ID, req.Entitlement, user.Email, profile.Name)
	if err != nil {
		slog.Error("failed to create entitlement checkout", "error", err, "user_id", user.ID, "entitlement", req.Entitlement, "provider", h.paymentService.Name())
		respondError(w, http.StatusInternalServerError, "Não foi possível iniciar o pagamento")
		return
	}

	slog.Info("entitlement checkout created", "user_id", user.ID, "entitlement", req.Entitlement, "provider", h.paymentService.Name())
	respond(w, http.StatusOK, map[string]string{"checkout_url": checkoutURL})
}

func (h *billingHandler) CustomerPortal(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	portalURL, err := h.paymentService.CustomerPortalURL(user.ID)
	if err != nil {
		slog.Error("failed to get customer portal", "error", err, "user_id", user.ID, "provider", h.paymentService.Name())
		respondError(w, http.StatusInternalServerError, "Não foi possível abrir o portal de pagamentos")
		return
	}

	respond(w, http.StatusOK, map[string]string{"portal_url": portalURL})
}

func (h *billingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("failed to read webhook payload", "error", err)
		respondError(w, http.StatusBadRequest, "Failed to read payload")
		return
	}
	defer func() {
		closeErr := r.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close request body", "error", closeErr)
		}
	}()

	err = h.paymentService.HandleWebhook(payload, r.Header)
	if err != nil {
		slog.Error("failed to handle webhook", "error", err, "provider", h.paymentService.Name())
		respondError(w, http.StatusBadRequest, "Failed to process webhook")
		return
	}

	respond(w, http.StatusOK, map[string]bool{"received": true})
}
