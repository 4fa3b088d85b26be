package service

import "errors"

// Errors returned by PhoneOTPService. Handlers match them with errors.Is.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidPhoneNumber = errors.New("invalid phone number")
	ErrInvalidCode        = errors.New("otp code must be 6 digits")
	ErrNoActiveCode       = errors.New("no OTP found, please request a new one")
	ErrCodeExpired        = errors.New("OTP has expired, please request a new one")
	ErrAttemptsExhausted  = errors.New("too many attempts, please request a new OTP")
	ErrCodeMismatch       = errors.New("invalid OTP code, please try again")
	ErrStoreUnavailable   = errors.New("failed to reach OTP store, please retry")
	ErrIssueCooldown      = errors.New("please wait before requesting another OTP")

	// ErrProviderNotConfigured means no SMS provider credentials are set up
	ErrProviderNotConfigured = errors.New("SMS provider not configured")
	// ErrDeliveryFailed means the SMS provider was reached but did not accept the message
	ErrDeliveryFailed = errors.New("failed to send SMS")
)
