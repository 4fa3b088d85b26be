package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Metadata is a custom type for JSONB fields
type Metadata map[string]interface{}

// Scan implements the sql.Scanner interface for Metadata
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = make(Metadata)
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// Value implements the driver.Valuer interface for Metadata
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(make(map[string]interface{}))
	}
	return json.Marshal(m)
}

// Profile is a learner's profile. Its id is the identity provider's user id.
// PhoneNumber and PhoneVerified are only written by a successful phone verification.
type Profile struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FullName      *string   `gorm:"size:255" json:"full_name,omitempty"`
	PhoneNumber   *string   `gorm:"size:20" json:"phone_number,omitempty"`
	PhoneVerified bool      `gorm:"not null;default:false" json:"phone_verified"`
	Metadata      Metadata  `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName sets the table name to 'profiles'
func (Profile) TableName() string { return "profiles" }

// UpdateProfileRequest represents the request body for updating the caller's profile
type UpdateProfileRequest struct {
	FullName *string  `json:"full_name,omitempty" binding:"omitempty,max=255"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// ProfileResponse represents the response payload for profile operations
type ProfileResponse struct {
	ID            uuid.UUID `json:"id"`
	FullName      *string   `json:"full_name,omitempty"`
	PhoneNumber   *string   `json:"phone_number,omitempty"`
	PhoneVerified bool      `json:"phone_verified"`
	Metadata      Metadata  `json:"metadata"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToResponse converts Profile model to ProfileResponse
func (p *Profile) ToResponse() ProfileResponse {
	metadata := p.Metadata
	if metadata == nil {
		metadata = Metadata{}
	}
	return ProfileResponse{
		ID:            p.ID,
		FullName:      p.FullName,
		PhoneNumber:   p.PhoneNumber,
		PhoneVerified: p.PhoneVerified,
		Metadata:      metadata,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
