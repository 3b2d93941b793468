package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mentecalma/server/internal/model"
	"github.com/mentecalma/server/internal/repository"
)

type SubscriptionService struct {
	repo repository.SubscriptionRepository
}

func NewSubscriptionService(repo repository.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{repo: repo}
}

func (s *SubscriptionService) CreateFreeSubscription(userID string) error {
	now := time.Now()
	subscription := &model.Subscription{
		ID:        uuid.New().String(),
		UserID:    userID,
		PlanID:    model.SubscriptionPlanFree,
		Status:    model.SubscriptionStatusActive,
		Currency:  "brl",
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.repo.Create(subscription)
	if err != nil {
		return fmt.Errorf("failed to create free subscription: %w", err)
	}

	return nil
}

func (s *SubscriptionService) Subscription(userID string) (*model.Subscription, error) {
	sub, err := s.repo.ByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return sub, nil
}

func (s *SubscriptionService) ByProviderSubscriptionID(providerSubID string) (*model.Subscription, error) {
	sub, err := s.repo.ByProviderSubscriptionID(providerSubID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription by provider ID: %w", err)
	}

	return sub, nil
}

func (s *SubscriptionService) ByProviderCustomerID(providerCustomerID string) (*model.Subscription, error) {
	sub, err := s.repo.ByProviderCustomerID(providerCustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription by customer ID: %w", err)
	}

	return sub, nil
}

func (s *SubscriptionService) UpdateSubscription(sub *model.Subscription) error {
	sub.UpdatedAt = time.Now()

	err := s.repo.Update(sub)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	return nil
}

func (s *SubscriptionService) DowngradeToFree(sub *model.Subscription) error {
	sub.PlanID = model.SubscriptionPlanFree
	sub.Status = model.SubscriptionStatusActive
	sub.ProviderSubscriptionID = nil
	sub.CurrentPeriodEnd = nil
	sub.Amount = nil
	sub.Currency = "brl"
	sub.Interval = nil

	return s.UpdateSubscription(sub)
}

// GrantEntitlement records a one-off program purchase (detox21, codigo_mental).
// Entitlements survive subscription downgrades.
func (s *SubscriptionService) GrantEntitlement(userID, key string) error {
	if key != model.EntitlementDetox21 && key != model.EntitlementCodigoMental {
		return fmt.Errorf("unknown entitlement key: %s", key)
	}

	err := s.repo.GrantEntitlement(userID, key)
	if err != nil {
		return fmt.Errorf("failed to grant entitlement: %w", err)
	}

	return nil
}

func (s *SubscriptionService) Entitlements(userID string) ([]model.Entitlement, error) {
	entitlements, err := s.repo.Entitlements(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entitlements: %w", err)
	}

	return entitlements, nil
}

func (s *SubscriptionService) HasEntitlement(userID, key string) (bool, error) {
	ok, err := s.repo.HasEntitlement(userID, key)
	if err != nil {
		return false, fmt.Errorf("failed to check entitlement: %w", err)
	}

	return ok, nil
}
