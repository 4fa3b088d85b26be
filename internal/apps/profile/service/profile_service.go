package service

import (
	"context"
	"errors"
	"strings"

	"codekick-backend/internal/apps/profile/models"
	"codekick-backend/internal/apps/profile/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrProfileNotFound is returned when the caller has no profile yet
	ErrProfileNotFound = errors.New("profile not found")
	// ErrEmptyName is returned when full_name is set to whitespace
	ErrEmptyName = errors.New("full_name cannot be empty")
)

// ProfileService defines the interface for profile business logic
type ProfileService interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*models.ProfileResponse, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req models.UpdateProfileRequest) (*models.ProfileResponse, error)
}

// profileService implements ProfileService
type profileService struct {
	repo repository.ProfileRepository
}

// NewProfileService creates a new instance of ProfileService
func NewProfileService(repo repository.ProfileRepository) ProfileService {
	return &profileService{repo: repo}
}

// GetProfile retrieves the caller's profile
func (s *profileService) GetProfile(ctx context.Context, id uuid.UUID) (*models.ProfileResponse, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	resp := profile.ToResponse()
	return &resp, nil
}

// UpdateProfile applies name and metadata changes, creating the profile on first write
func (s *profileService) UpdateProfile(ctx context.Context, id uuid.UUID, req models.UpdateProfileRequest) (*models.ProfileResponse, error) {
	profile, err := s.repo.FindByID(ctx, id)
	created := false
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		profile = &models.Profile{ID: id, Metadata: models.Metadata{}}
		created = true
	}

	if req.FullName != nil {
		trimmed := strings.TrimSpace(*req.FullName)
		if trimmed == "" {
			return nil, ErrEmptyName
		}
		profile.FullName = &trimmed
	}
	// Merge metadata if provided (partial update)
	if len(req.Metadata) > 0 {
		if profile.Metadata == nil {
			profile.Metadata = make(models.Metadata)
		}
		for key, value := range req.Metadata {
			profile.Metadata[key] = value
		}
	}

	if created {
		err = s.repo.Create(ctx, profile)
	} else {
		err = s.repo.Update(ctx, profile)
	}
	if err != nil {
		return nil, err
	}

	resp := profile.ToResponse()
	return &resp, nil
}
