package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mentecalma/server/internal/gemini"
	"github.com/mentecalma/server/internal/model"
	"github.com/mentecalma/server/internal/progression"
	"github.com/mentecalma/server/internal/repository"
)

var (
	ErrEmptyMessage     = errors.New("message is empty")
	ErrMessageTooLong   = errors.New("message is too long")
	ErrChatLimitReached = errors.New("daily message limit reached")
)

const (
	maxChatMessageLen = 2000

	// historyWindow is how many recent messages accompany each prompt.
	historyWindow = 20

	defaultHistoryLimit = 50
	maxHistoryLimit     = 200

	// freeDailyMessages caps the free plan; premium chats without limit.
	freeDailyMessages = 10
)

// ChatService runs the companion conversation. Every user message is
// persisted before the model is called, so a model outage never loses
// what the person wrote.
type ChatService struct {
	chatRepo            repository.ChatRepository
	responder           gemini.Responder
	gamificationService *GamificationService
	subscriptionService *SubscriptionService
	clock               progression.Clock
}

func NewChatService(
	chatRepo repository.ChatRepository,
	responder gemini.Responder,
	gamificationService *GamificationService,
	subscriptionService *SubscriptionService,
	clock progression.Clock,
) *ChatService {
	return &ChatService{
		chatRepo:            chatRepo,
		responder:           responder,
		gamificationService: gamificationService,
		subscriptionService: subscriptionService,
		clock:               clock,
	}
}

// Send stores the user's message, asks the companion for a reply, stores
// that too, and credits the chat action. The reply falls back to canned
// text on model errors rather than failing the whole exchange.
func (s *ChatService) Send(ctx context.Context, userID, text string) (*model.ChatMessage, []progression.Event, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil, ErrEmptyMessage
	}
	if len(text) > maxChatMessageLen {
		return nil, nil, ErrMessageTooLong
	}

	now := s.clock.Now()

	sub, err := s.subscriptionService.Subscription(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if !sub.IsPremium() {
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		count, err := s.chatRepo.CountUserMessagesSince(userID, startOfDay)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to count messages: %w", err)
		}
		if count >= freeDailyMessages {
			return nil, nil, ErrChatLimitReached
		}
	}

	history, err := s.chatRepo.History(userID, historyWindow)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	// V7 ids are time-ordered, so a message and its reply sort correctly
	// even when they share a created_at timestamp.
	userMsg := &model.ChatMessage{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		Role:      model.ChatRoleUser,
		Text:      text,
		CreatedAt: now,
	}
	if err := s.chatRepo.Create(userMsg); err != nil {
		return nil, nil, fmt.Errorf("failed to store message: %w", err)
	}

	replyText, err := s.responder.Reply(ctx, toGeminiHistory(history), text)
	if err != nil {
		slog.Error("companion reply failed", "error", err, "user_id", userID)
		replyText = gemini.FallbackReply
	}

	reply := &model.ChatMessage{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		Role:      model.ChatRoleModel,
		Text:      replyText,
		CreatedAt: s.clock.Now(),
	}
	if err := s.chatRepo.Create(reply); err != nil {
		return nil, nil, fmt.Errorf("failed to store reply: %w", err)
	}

	_, events, err := s.gamificationService.Award(userID, progression.ActionChatMessageSent)
	if err != nil {
		slog.Warn("failed to credit chat action", "error", err, "user_id", userID)
		events = nil
	}

	return reply, events, nil
}

// History returns the most recent messages in chronological order.
func (s *ChatService) History(userID string, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.chatRepo.History(userID, limit)
}

// DailyTip asks the companion for a short wellbeing tip. Tips are not
// persisted and earn no points.
func (s *ChatService) DailyTip(ctx context.Context, userName string) string {
	tip, err := s.responder.DailyTip(ctx, userName)
	if err != nil {
		slog.Error("daily tip failed", "error", err)
		return gemini.FallbackTip
	}
	return tip
}

func toGeminiHistory(msgs []model.ChatMessage) []gemini.Message {
	out := make([]gemini.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, gemini.Message{Role: string(m.Role), Text: m.Text})
	}
	return out
}
