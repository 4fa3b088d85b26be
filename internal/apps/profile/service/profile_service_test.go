package service

import (
	"context"
	"testing"

	"codekick-backend/internal/apps/profile/models"
	"codekick-backend/internal/apps/profile/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (ProfileService, repository.ProfileRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Profile{}))

	repo := repository.NewProfileRepository(db)
	return NewProfileService(repo), repo
}

func strPtr(s string) *string { return &s }

func TestGetProfile(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	id := uuid.New()

	_, err := svc.GetProfile(ctx, id)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	require.NoError(t, repo.MarkPhoneVerified(ctx, id, "+919876543210"))

	resp, err := svc.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.True(t, resp.PhoneVerified)
	assert.Equal(t, "+919876543210", *resp.PhoneNumber)
	assert.NotNil(t, resp.Metadata)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	id := uuid.New()

	resp, err := svc.UpdateProfile(ctx, id, models.UpdateProfileRequest{
		FullName: strPtr("  Ada Lovelace "),
		Metadata: models.Metadata{"track": "cp"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", *resp.FullName)
	assert.False(t, resp.PhoneVerified)

	resp, err = svc.UpdateProfile(ctx, id, models.UpdateProfileRequest{
		Metadata: models.Metadata{"language": "go"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", *resp.FullName)
	assert.Equal(t, "cp", resp.Metadata["track"])
	assert.Equal(t, "go", resp.Metadata["language"])

	_, err = svc.UpdateProfile(ctx, id, models.UpdateProfileRequest{FullName: strPtr("   ")})
	assert.ErrorIs(t, err, ErrEmptyName)
}
