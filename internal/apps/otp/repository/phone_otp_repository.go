package repository

import (
	"context"
	"time"

	"codekick-backend/internal/apps/otp/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PhoneOTPRepository defines data operations for Phone OTP
type PhoneOTPRepository interface {
	Create(ctx context.Context, otp *models.PhoneOTP) error
	FindActive(ctx context.Context, ownerID uuid.UUID, phoneNumber string) (*models.PhoneOTP, error)
	FindByID(ctx context.Context, id string) (*models.PhoneOTP, error)
	RecordMismatch(ctx context.Context, id string, maxAttempts int) (int, bool, error)
	Consume(ctx context.Context, id string, maxAttempts int, at time.Time) (bool, error)
}

// phoneOTPRepository implements PhoneOTPRepository
type phoneOTPRepository struct {
	db *gorm.DB
}

// NewPhoneOTPRepository creates an instance of PhoneOTPRepository
func NewPhoneOTPRepository(db *gorm.DB) PhoneOTPRepository {
	return &phoneOTPRepository{db: db}
}

// Create inserts a new OTP record
func (r *phoneOTPRepository) Create(ctx context.Context, otp *models.PhoneOTP) error {
	return r.db.WithContext(ctx).Create(otp).Error
}

// FindActive retrieves the most recently created unconsumed OTP for an owner and phone number.
// The ULID primary key breaks ties between rows created in the same instant.
func (r *phoneOTPRepository) FindActive(ctx context.Context, ownerID uuid.UUID, phoneNumber string) (*models.PhoneOTP, error) {
	var otp models.PhoneOTP
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND phone_number = ? AND consumed = ?", ownerID, phoneNumber, false).
		Order("created_at DESC").
		Order("id DESC").
		First(&otp).Error
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

// FindByID retrieves an OTP record by its id
func (r *phoneOTPRepository) FindByID(ctx context.Context, id string) (*models.PhoneOTP, error) {
	var otp models.PhoneOTP
	if err := r.db.WithContext(ctx).First(&otp, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &otp, nil
}

// RecordMismatch increments attempts in place while the record is still redeemable and
// returns the count this increment produced. It reports false when the record was
// consumed or locked by a concurrent request.
func (r *phoneOTPRepository) RecordMismatch(ctx context.Context, id string, maxAttempts int) (int, bool, error) {
	attempts := 0
	recorded := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.PhoneOTP{}).
			Where("id = ? AND consumed = ? AND attempts < ?", id, false, maxAttempts).
			UpdateColumn("attempts", gorm.Expr("attempts + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return nil
		}

		// the row stays locked by the update until commit
		var otp models.PhoneOTP
		if err := tx.Select("attempts").First(&otp, "id = ?", id).Error; err != nil {
			return err
		}
		attempts = otp.Attempts
		recorded = true
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return attempts, recorded, nil
}

// Consume flips consumed to true if the record is still unexpired at `at` and no other
// request consumed or locked it first.
func (r *phoneOTPRepository) Consume(ctx context.Context, id string, maxAttempts int, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.PhoneOTP{}).
		Where("id = ? AND consumed = ? AND attempts < ? AND expires_at > ?", id, false, maxAttempts, at).
		UpdateColumns(map[string]interface{}{
			"consumed":    true,
			"consumed_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
