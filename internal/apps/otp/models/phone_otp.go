package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// PhoneOTP is one issued phone verification code. A new row is written for every
// issuance; only Attempts, Consumed and ConsumedAt ever change afterwards.
type PhoneOTP struct {
	// ID is a ULID, so ids created later sort after ids created earlier
	ID          string     `gorm:"type:char(26);primaryKey" json:"id"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_phone_otp_lookup,priority:1" json:"owner_id"`
	PhoneNumber string     `gorm:"size:20;not null;index:idx_phone_otp_lookup,priority:2" json:"phone_number"`
	CodeHash    string     `gorm:"size:64;not null" json:"-"`
	Attempts    int        `gorm:"not null;default:0" json:"attempts"`
	Consumed    bool       `gorm:"not null;default:false;index:idx_phone_otp_lookup,priority:3" json:"consumed"`
	ConsumedAt  *time.Time `json:"consumed_at,omitempty"`
	ExpiresAt   time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt   time.Time  `gorm:"not null;index:idx_phone_otp_lookup,priority:4,sort:desc" json:"created_at"`
}

// TableName sets the table name to 'phone_otp'
func (PhoneOTP) TableName() string { return "phone_otp" }

// BeforeCreate hook to assign a monotonic ULID before creating record
func (o *PhoneOTP) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = ulid.Make().String()
	}
	return nil
}

// IsExpired reports whether the code can no longer be redeemed at the given time
func (o *PhoneOTP) IsExpired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

// IssuePhoneOTPRequest payload to send a verification code
type IssuePhoneOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	CountryCode string `json:"countryCode" binding:"required"`
}

// IssuePhoneOTPResponse is returned after the code was stored and handed to the SMS provider
type IssuePhoneOTPResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VerifyPhoneOTPRequest payload to redeem a verification code.
// PhoneNumber is fully qualified (country code + subscriber number).
type VerifyPhoneOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	OTPCode     string `json:"otpCode" binding:"required"`
}

// VerifyPhoneOTPResponse indicates a successful verification
type VerifyPhoneOTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
