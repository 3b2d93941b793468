package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentecalma/server/internal/gemini"
	"github.com/mentecalma/server/internal/model"
	"github.com/mentecalma/server/internal/progression"
)

// fakeResponder echoes a fixed reply and records what it was asked.
type fakeResponder struct {
	reply    string
	err      error
	lastText string
	history  []gemini.Message
}

func (r *fakeResponder) Reply(_ context.Context, history []gemini.Message, userText string) (string, error) {
	r.history = history
	r.lastText = userText
	return r.reply, r.err
}

func (r *fakeResponder) DailyTip(_ context.Context, _ string) (string, error) {
	return r.reply, r.err
}

func newChatService(f *fixture, responder gemini.Responder) *ChatService {
	return NewChatService(f.chat, responder, f.gamification, f.subscription, f.clock)
}

func TestChatSendPersistsExchange(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)
	responder := &fakeResponder{reply: "Estou aqui com você."}
	chat := newChatService(f, responder)

	reply, events, err := chat.Send(context.Background(), userID, "  Hoje foi um dia difícil.  ")
	require.NoError(t, err)

	assert.Equal(t, model.ChatRoleModel, reply.Role)
	assert.Equal(t, "Estou aqui com você.", reply.Text)
	assert.Equal(t, "Hoje foi um dia difícil.", responder.lastText)

	var badges []string
	for _, ev := range events {
		if ev.Kind == progression.EventBadgeEarned {
			badges = append(badges, ev.BadgeID)
		}
	}
	assert.Contains(t, badges, model.BadgeFriendlyChat)

	history, err := chat.History(userID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.ChatRoleUser, history[0].Role)
	assert.Equal(t, model.ChatRoleModel, history[1].Role)

	state, err := f.gamification.Snapshot(userID)
	require.NoError(t, err)
	assert.Equal(t, 5, state.Points)
}

func TestChatSendValidatesInput(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)
	chat := newChatService(f, &fakeResponder{reply: "ok"})

	_, _, err := chat.Send(context.Background(), userID, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, _, err = chat.Send(context.Background(), userID, strings.Repeat("a", maxChatMessageLen+1))
	assert.ErrorIs(t, err, ErrMessageTooLong)
}

func TestChatSendFallsBackOnModelError(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)
	responder := &fakeResponder{err: errors.New("model unavailable")}
	chat := newChatService(f, responder)

	reply, _, err := chat.Send(context.Background(), userID, "Oi")
	require.NoError(t, err)
	assert.Equal(t, gemini.FallbackReply, reply.Text)

	// The user's message survived the outage.
	history, err := chat.History(userID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Oi", history[0].Text)
}

func TestChatFreeDailyLimit(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)
	chat := newChatService(f, &fakeResponder{reply: "ok"})

	for range freeDailyMessages {
		_, _, err := chat.Send(context.Background(), userID, "mensagem")
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
	}

	_, _, err := chat.Send(context.Background(), userID, "mais uma")
	assert.ErrorIs(t, err, ErrChatLimitReached)

	// The cap resets at local midnight.
	f.clock.Advance(24 * time.Hour)
	_, _, err = chat.Send(context.Background(), userID, "bom dia")
	assert.NoError(t, err)
}

func TestChatPremiumHasNoDailyLimit(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)
	f.makePremium(t, userID)
	chat := newChatService(f, &fakeResponder{reply: "ok"})

	for range freeDailyMessages + 2 {
		_, _, err := chat.Send(context.Background(), userID, "mensagem")
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
	}
}

func TestChatHistoryWindowFeedsResponder(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)
	responder := &fakeResponder{reply: "ok"}
	chat := newChatService(f, responder)

	_, _, err := chat.Send(context.Background(), userID, "primeira")
	require.NoError(t, err)
	f.clock.Advance(time.Minute)

	_, _, err = chat.Send(context.Background(), userID, "segunda")
	require.NoError(t, err)

	// The second call saw the first exchange as history.
	require.Len(t, responder.history, 2)
	assert.Equal(t, string(model.ChatRoleUser), responder.history[0].Role)
	assert.Equal(t, "primeira", responder.history[0].Text)
}

func TestDailyTipFallsBack(t *testing.T) {
	f := newFixture(t, 6)
	chat := newChatService(f, &fakeResponder{err: errors.New("model unavailable")})

	tip := chat.DailyTip(context.Background(), "Ana")
	assert.Equal(t, gemini.FallbackTip, tip)
}
