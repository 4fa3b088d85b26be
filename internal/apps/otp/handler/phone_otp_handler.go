package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"codekick-backend/internal/apps/otp/models"
	"codekick-backend/internal/apps/otp/service"
	"codekick-backend/internal/common/middleware"

	"github.com/gin-gonic/gin"
)

// PhoneOTPHandler handles HTTP endpoints for Phone OTP
type PhoneOTPHandler struct {
	service service.PhoneOTPService
}

// NewPhoneOTPHandler creates a new instance of PhoneOTPHandler
func NewPhoneOTPHandler(service service.PhoneOTPService) *PhoneOTPHandler {
	return &PhoneOTPHandler{service: service}
}

// IssueOTP handles POST /api/v1/otp/phone
func (h *PhoneOTPHandler) IssueOTP(c *gin.Context) {
	var req models.IssuePhoneOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "invalid_input"})
		return
	}

	resp, err := h.service.Issue(c.Request.Context(), middleware.OwnerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// VerifyOTP handles POST /api/v1/otp/phone/verify
func (h *PhoneOTPHandler) VerifyOTP(c *gin.Context) {
	var req models.VerifyPhoneOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "invalid_input"})
		return
	}

	resp, err := h.service.Verify(c.Request.Context(), middleware.OwnerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// errorStatus maps service errors to HTTP status codes
var errorStatus = map[string]int{
	"unauthorized":       http.StatusUnauthorized,
	"invalid_input":      http.StatusBadRequest,
	"no_active_code":     http.StatusNotFound,
	"code_expired":       http.StatusGone,
	"attempts_exhausted": http.StatusForbidden,
	"code_mismatch":      http.StatusUnprocessableEntity,
	"store_unavailable":  http.StatusServiceUnavailable,
	"resend_cooldown":    http.StatusTooManyRequests,
	"sms_not_configured": http.StatusServiceUnavailable,
	"delivery_failed":    http.StatusBadGateway,
}

func respondError(c *gin.Context, err error) {
	code := service.ErrorCode(err)
	status, ok := errorStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	var cdErr *service.CooldownError
	if errors.As(err, &cdErr) {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(cdErr.RetryAfter.Seconds()))))
	}

	// internal details stay in the logs
	message := err.Error()
	switch code {
	case "store_unavailable":
		message = service.ErrStoreUnavailable.Error()
	case "delivery_failed":
		message = service.ErrDeliveryFailed.Error()
	case "sms_not_configured":
		message = service.ErrProviderNotConfigured.Error()
	case "internal_error":
		message = "internal server error"
	}

	c.JSON(status, gin.H{"error": message, "code": code})
}
