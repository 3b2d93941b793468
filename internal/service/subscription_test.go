package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentecalma/server/internal/model"
)

func TestFreeSubscriptionDefaults(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)

	sub, err := f.subscription.Subscription(userID)
	require.NoError(t, err)

	assert.Equal(t, model.SubscriptionPlanFree, sub.PlanID)
	assert.Equal(t, model.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, "brl", sub.Currency)
	assert.False(t, sub.IsPremium())
}

func TestDowngradeToFreeKeepsEntitlements(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)
	f.makePremium(t, userID)

	require.NoError(t, f.subscription.GrantEntitlement(userID, model.EntitlementCodigoMental))

	sub, err := f.subscription.Subscription(userID)
	require.NoError(t, err)
	require.True(t, sub.IsPremium())

	require.NoError(t, f.subscription.DowngradeToFree(sub))

	sub, err = f.subscription.Subscription(userID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionPlanFree, sub.PlanID)
	assert.False(t, sub.IsPremium())

	has, err := f.subscription.HasEntitlement(userID, model.EntitlementCodigoMental)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestGrantEntitlementIsIdempotent(t *testing.T) {
	f := newFixture(t, 6)
	userID := f.seedUser(t)

	require.NoError(t, f.subscription.GrantEntitlement(userID, model.EntitlementDetox21))
	require.NoError(t, f.subscription.GrantEntitlement(userID, model.EntitlementDetox21))

	entitlements, err := f.subscription.Entitlements(userID)
	require.NoError(t, err)
	require.Len(t, entitlements, 1)
	assert.Equal(t, model.EntitlementDetox21, entitlements[0].Key)

	err = f.subscription.GrantEntitlement(userID, "mistério")
	assert.Error(t, err)
}
