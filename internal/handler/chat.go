package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mentecalma/server/internal/ctxkeys"
	"github.com/mentecalma/server/internal/model"
	"github.com/mentecalma/server/internal/service"
)

type chatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *chatHandler {
	return &chatHandler{
		chatService: chatService,
	}
}

type chatMessageJSON struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

func toChatMessageJSON(m *model.ChatMessage) chatMessageJSON {
	return chatMessageJSON{
		ID:        m.ID,
		Role:      string(m.Role),
		Text:      m.Text,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

func (h *chatHandler) History(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	limit := parseLimit(r)

	msgs, err := h.chatService.History(user.ID, limit)
	if err != nil {
		slog.Error("failed to load chat history", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Não foi possível carregar a conversa")
		return
	}

	out := make([]chatMessageJSON, 0, len(msgs))
	for i := range msgs {
		out = append(out, toChatMessageJSON(&msgs[i]))
	}
	respond(w, http.StatusOK, map[string]any{"messages": out})
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

func (h *chatHandler) Send(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req sendMessageRequest
	err := decode(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Escreva uma mensagem")
		return
	}

	reply, events, err := h.chatService.Send(r.Context(), user.ID, req.Text)
	if errors.Is(err, service.ErrEmptyMessage) {
		respondError(w, http.StatusBadRequest, "Escreva uma mensagem")
		return
	}
	if errors.Is(err, service.ErrMessageTooLong) {
		respondError(w, http.StatusBadRequest, "A mensagem é muito longa")
		return
	}
	if errors.Is(err, service.ErrChatLimitReached) {
		respondError(w, http.StatusForbidden, "Você atingiu o limite diário de mensagens. Assine o Premium para conversas ilimitadas.")
		return
	}
	if err != nil {
		slog.Error("failed to send chat message", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Não foi possível enviar a mensagem")
		return
	}

	respond(w, http.StatusCreated, map[string]any{
		"reply":  toChatMessageJSON(reply),
		"events": toEventJSON(events),
	})
}

// DailyTip returns a short wellbeing tip for the home screen.
func (h *chatHandler) DailyTip(w http.ResponseWriter, r *http.Request) {
	profile := ctxkeys.Profile(r.Context())

	name := ""
	if profile != nil {
		name = profile.Name
	}

	tip := h.chatService.DailyTip(r.Context(), name)
	respond(w, http.StatusOK, map[string]string{"tip": tip})
}
