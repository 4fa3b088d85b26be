package repository

import (
	"context"
	"time"

	"codekick-backend/internal/apps/profile/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	MarkPhoneVerified(ctx context.Context, id uuid.UUID, phoneNumber string) error
}

// profileRepository implements ProfileRepository
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new instance of ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// FindByID retrieves a profile by its ID
func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Create creates a new profile in the database
func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// Update saves name and metadata; phone fields are left untouched
func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).
		Model(profile).
		Select("full_name", "metadata", "updated_at").
		Updates(profile).Error
}

// MarkPhoneVerified records a verified phone number, creating the profile row if needed
func (r *profileRepository) MarkPhoneVerified(ctx context.Context, id uuid.UUID, phoneNumber string) error {
	now := time.Now().UTC()
	profile := models.Profile{
		ID:            id,
		PhoneNumber:   &phoneNumber,
		PhoneVerified: true,
		Metadata:      models.Metadata{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"phone_number", "phone_verified", "updated_at"}),
	}).Create(&profile).Error
}
