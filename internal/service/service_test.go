package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/mentecalma/server/internal/db"
	"github.com/mentecalma/server/internal/model"
	"github.com/mentecalma/server/internal/repository"
)

// testClock is a movable clock shared by the services under test.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		closeErr := database.Close()
		require.NoError(t, closeErr)
	})

	err = db.RunMigrations(database.DB, "sqlite")
	require.NoError(t, err)

	return database
}

// fixture wires the persistence stack against a throwaway sqlite database.
type fixture struct {
	db           *sqlx.DB
	clock        *testClock
	users        repository.UserRepository
	profiles     repository.ProfileRepository
	habits       repository.HabitRepository
	journal      repository.JournalRepository
	progress     repository.ProgressRepository
	chat         repository.ChatRepository
	guides       repository.GuideRepository
	subscription *SubscriptionService
	gamification *GamificationService
}

func newFixture(t *testing.T, totalUnlockable int) *fixture {
	t.Helper()

	database := newTestDB(t)
	clock := &testClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}

	f := &fixture{
		db:       database,
		clock:    clock,
		users:    repository.NewUserRepository(database),
		profiles: repository.NewProfileRepository(database),
		habits:   repository.NewHabitRepository(database),
		journal:  repository.NewJournalRepository(database),
		progress: repository.NewProgressRepository(database),
		chat:     repository.NewChatRepository(database),
		guides:   repository.NewGuideRepository(database),
	}
	f.subscription = NewSubscriptionService(repository.NewSubscriptionRepository(database))
	f.gamification = NewGamificationService(f.progress, f.habits, f.profiles, clock, totalUnlockable)

	return f
}

// seedUser provisions a user the way signup does: account row, profile with
// gamification opted in, free subscription, and the bootstrap progress row.
func (f *fixture) seedUser(t *testing.T) string {
	t.Helper()

	userID := uuid.NewString()
	now := f.clock.Now()

	err := f.users.Create(&model.User{
		ID:        userID,
		Email:     userID + "@example.com",
		CreatedAt: now,
	})
	require.NoError(t, err)

	err = f.profiles.Create(&model.Profile{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      "Ana",
		Gamified:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)

	err = f.subscription.CreateFreeSubscription(userID)
	require.NoError(t, err)

	err = f.gamification.Bootstrap(userID)
	require.NoError(t, err)

	return userID
}

func (f *fixture) makePremium(t *testing.T, userID string) {
	t.Helper()

	sub, err := f.subscription.Subscription(userID)
	require.NoError(t, err)

	sub.PlanID = model.SubscriptionPlanPremium
	sub.Status = model.SubscriptionStatusActive
	err = f.subscription.UpdateSubscription(sub)
	require.NoError(t, err)
}
