package service

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mentecalma/server/internal/model"
	"github.com/mentecalma/server/internal/repository"
	"github.com/mentecalma/server/internal/storage"
	"github.com/mentecalma/server/internal/validation"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	storage     storage.Storage
}

func NewProfileService(profileRepo repository.ProfileRepository, storage storage.Storage) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		storage:     storage,
	}
}

func (s *ProfileService) ByUserID(userID string) (*model.Profile, error) {
	return s.profileRepo.ByUserID(userID)
}

func (s *ProfileService) UpdateName(userID, name string) error {
	name = strings.TrimSpace(name)

	err := validation.ValidateName(name)
	if err != nil {
		return err
	}

	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return err
	}

	profile.Name = name
	profile.UpdatedAt = time.Now()
	return s.profileRepo.Update(profile)
}

// SetGamified flips the gamification opt-in. Earned badges and points are
// kept when opting out; awards simply stop accruing.
func (s *ProfileService) SetGamified(userID string, gamified bool) error {
	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return err
	}

	profile.Gamified = gamified
	profile.UpdatedAt = time.Now()
	return s.profileRepo.Update(profile)
}

// SetAvatar stores a new avatar and replaces any previous one.
// Validation of type and size is the caller's job.
func (s *ProfileService) SetAvatar(userID string, file multipart.File, header *multipart.FileHeader) (*model.Profile, error) {
	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(header.Filename)
	key := filepath.Join("public", "avatars", uuid.New().String()+ext)

	err = s.storage.Save(key, file)
	if err != nil {
		return nil, fmt.Errorf("failed to save avatar: %w", err)
	}

	oldKey := profile.AvatarKey
	profile.AvatarKey = key
	profile.UpdatedAt = time.Now()
	err = s.profileRepo.Update(profile)
	if err != nil {
		delErr := s.storage.Delete(key)
		if delErr != nil {
			slog.Error("failed to clean up avatar after update failure", "error", delErr, "key", key)
		}
		return nil, err
	}

	if oldKey != "" {
		delErr := s.storage.Delete(oldKey)
		if delErr != nil {
			slog.Warn("failed to delete old avatar", "error", delErr, "key", oldKey)
		}
	}

	return profile, nil
}

func (s *ProfileService) DeleteAvatar(userID string) error {
	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return err
	}

	if profile.AvatarKey == "" {
		return nil
	}

	key := profile.AvatarKey
	profile.AvatarKey = ""
	profile.UpdatedAt = time.Now()
	err = s.profileRepo.Update(profile)
	if err != nil {
		return err
	}

	delErr := s.storage.Delete(key)
	if delErr != nil {
		slog.Warn("failed to delete avatar from storage", "error", delErr, "key", key)
	}

	return nil
}

// AvatarURL resolves the profile's avatar key to a URL, empty when unset.
func (s *ProfileService) AvatarURL(profile *model.Profile) string {
	if profile == nil || profile.AvatarKey == "" {
		return ""
	}
	return s.storage.PublicURL(profile.AvatarKey)
}
