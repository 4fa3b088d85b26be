package service

import "errors"

// resultCodes maps service errors to stable codes, in match order
var resultCodes = []struct {
	err  error
	code string
}{
	{ErrUnauthorized, "unauthorized"},
	{ErrInvalidPhoneNumber, "invalid_input"},
	{ErrInvalidCode, "invalid_input"},
	{ErrNoActiveCode, "no_active_code"},
	{ErrCodeExpired, "code_expired"},
	{ErrAttemptsExhausted, "attempts_exhausted"},
	{ErrCodeMismatch, "code_mismatch"},
	{ErrStoreUnavailable, "store_unavailable"},
	{ErrIssueCooldown, "resend_cooldown"},
	{ErrProviderNotConfigured, "sms_not_configured"},
	{ErrDeliveryFailed, "delivery_failed"},
}

// ErrorCode returns the machine-readable code for an error returned by PhoneOTPService
func ErrorCode(err error) string {
	for _, rc := range resultCodes {
		if errors.Is(err, rc.err) {
			return rc.code
		}
	}
	return "internal_error"
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return ErrorCode(err)
}
