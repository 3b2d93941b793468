package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mentecalma/server/internal/model"
	"github.com/mentecalma/server/internal/repository"
	"github.com/mentecalma/server/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
	ErrActiveSubscription     = errors.New("cannot delete account with active subscription")
)

type UserService struct {
	userRepository      repository.UserRepository
	profileRepository   repository.ProfileRepository
	emailService        *EmailService
	subscriptionService *SubscriptionService
}

func NewUserService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	emailService *EmailService,
	subscriptionService *SubscriptionService,
) *UserService {
	return &UserService{
		userRepository:      userRepository,
		profileRepository:   profileRepository,
		emailService:        emailService,
		subscriptionService: subscriptionService,
	}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

func (s *UserService) UpdatePassword(userID, currentPassword, newPassword string) error {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return fmt.Errorf("passwordless accounts cannot update password. Please set a password first")
	}

	err = bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(currentPassword))
	if err != nil {
		return ErrInvalidCurrentPassword
	}

	err = validation.ValidatePassword(newPassword)
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	hashStr := string(hashedPassword)
	user.PasswordHash = &hashStr

	err = s.userRepository.Update(user)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (s *UserService) DeleteAccount(userID string) error {
	// Block deletion while a paid plan is active or its period still runs
	subscription, err := s.subscriptionService.Subscription(userID)
	if err != nil {
		return fmt.Errorf("failed to check subscription: %w", err)
	}

	if subscription.PlanID != model.SubscriptionPlanFree &&
		(subscription.Status == model.SubscriptionStatusActive ||
			(subscription.CurrentPeriodEnd != nil && subscription.CurrentPeriodEnd.After(time.Now()))) {
		return ErrActiveSubscription
	}

	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	profile, err := s.profileRepository.ByUserID(userID)
	if err != nil {
		slog.Warn("failed to get profile for deletion email", "user_id", userID, "error", err)
	}

	name := ""
	if profile != nil {
		name = profile.Name
	}

	err = s.emailService.SendAccountDeletedEmail(user.Email, name)
	if err != nil {
		slog.Warn("failed to send account deleted email", "user_id", userID, "email", user.Email, "error", err)
	}

	// Foreign key CASCADE removes profile, tokens, subscription,
	// entitlements, habits, journal entries, progress, badges, and chat
	// history with the user row.
	err = s.userRepository.Delete(userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
