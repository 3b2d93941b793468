package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentecalma/server/internal/model"
	"github.com/mentecalma/server/internal/repository"
)

func newAuthService(f *fixture) *AuthService {
	email := NewEmailService("", "oi@mentecalma.test", "http://localhost:4000", "Mente & Calma", true)
	return NewAuthService(
		f.users,
		f.profiles,
		repository.NewTokenRepository(f.db),
		f.subscription,
		f.gamification,
		email,
		"test-secret",
		false,
		7*24*time.Hour,
		time.Hour,
		15*time.Minute,
	)
}

func (f *fixture) magicToken(t *testing.T, userID string) string {
	t.Helper()
	var token string
	err := f.db.Get(&token, `SELECT token FROM tokens WHERE user_id = $1 AND type = $2`, userID, model.TokenTypeMagicLink)
	require.NoError(t, err)
	return token
}

func TestMagicLinkProvisionsNewAccount(t *testing.T) {
	f := newFixture(t, 6)
	auth := newAuthService(f)

	err := auth.SendMagicLink("Nova@Example.COM")
	require.NoError(t, err)

	// Email normalized, full account provisioned.
	user, err := f.users.ByEmail("nova@example.com")
	require.NoError(t, err)
	assert.Nil(t, user.EmailVerifiedAt)

	profile, err := f.profiles.ByUserID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.Name)

	sub, err := f.subscription.Subscription(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionPlanFree, sub.PlanID)

	state, err := f.gamification.Snapshot(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, state.UnlockRatchet)
}

func TestMagicLinkVerifyIsSingleUse(t *testing.T) {
	f := newFixture(t, 6)
	auth := newAuthService(f)

	require.NoError(t, auth.SendMagicLink("ana@example.com"))
	user, err := f.users.ByEmail("ana@example.com")
	require.NoError(t, err)

	token := f.magicToken(t, user.ID)

	verified, err := auth.VerifyMagicLink(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
	assert.NotNil(t, verified.EmailVerifiedAt)

	_, err = auth.VerifyMagicLink(token)
	assert.Error(t, err)
}

func TestMagicLinkRejectsInvalidEmail(t *testing.T) {
	f := newFixture(t, 6)
	auth := newAuthService(f)

	err := auth.SendMagicLink("not-an-email")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestJWTRoundTrip(t *testing.T) {
	f := newFixture(t, 6)
	auth := newAuthService(f)
	userID := f.seedUser(t)

	user, err := f.users.ByID(userID)
	require.NoError(t, err)

	token, err := auth.GenerateJWT(user)
	require.NoError(t, err)

	claims, err := auth.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims["user_id"])

	_, err = auth.VerifyJWT(token + "x")
	assert.Error(t, err)
}

func TestNeedsOnboarding(t *testing.T) {
	f := newFixture(t, 6)
	auth := newAuthService(f)

	require.NoError(t, auth.SendMagicLink("novo@example.com"))
	user, err := f.users.ByEmail("novo@example.com")
	require.NoError(t, err)

	needs, err := auth.NeedsOnboarding(user.ID)
	require.NoError(t, err)
	assert.True(t, needs)

	require.NoError(t, auth.CompleteOnboarding(user.ID, "  João  "))

	needs, err = auth.NeedsOnboarding(user.ID)
	require.NoError(t, err)
	assert.False(t, needs)

	profile, err := f.profiles.ByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "João", profile.Name)
}

func TestSetPasswordEnablesLogin(t *testing.T) {
	f := newFixture(t, 6)
	auth := newAuthService(f)

	require.NoError(t, auth.SendMagicLink("ana@example.com"))
	user, err := f.users.ByEmail("ana@example.com")
	require.NoError(t, err)

	token := f.magicToken(t, user.ID)
	_, err = auth.VerifyMagicLink(token)
	require.NoError(t, err)

	require.NoError(t, auth.SetPassword(user.ID, "segredo-forte-123"))

	logged, err := auth.Login("ana@example.com", "segredo-forte-123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	_, err = auth.Login("ana@example.com", "senha-errada")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
