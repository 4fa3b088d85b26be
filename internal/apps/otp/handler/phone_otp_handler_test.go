package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codekick-backend/internal/apps/otp/models"
	"codekick-backend/internal/apps/otp/service"
	"codekick-backend/internal/common/auth"
	"codekick-backend/internal/common/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	issueErr  error
	verifyErr error
	gotOwner  uuid.UUID
	gotIssue  models.IssuePhoneOTPRequest
	gotVerify models.VerifyPhoneOTPRequest
}

func (s *stubService) Issue(_ context.Context, owner uuid.UUID, req models.IssuePhoneOTPRequest) (*models.IssuePhoneOTPResponse, error) {
	s.gotOwner, s.gotIssue = owner, req
	if s.issueErr != nil {
		return nil, s.issueErr
	}
	return &models.IssuePhoneOTPResponse{Success: true, Message: "OTP sent successfully"}, nil
}

func (s *stubService) Verify(_ context.Context, owner uuid.UUID, req models.VerifyPhoneOTPRequest) (*models.VerifyPhoneOTPResponse, error) {
	s.gotOwner, s.gotVerify = owner, req
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	return &models.VerifyPhoneOTPResponse{Success: true, Message: "Phone number verified successfully"}, nil
}

type staticVerifier struct{ id uuid.UUID }

func (v staticVerifier) Verify(token string) (*auth.Identity, error) {
	if token != "good" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Identity{UserID: v.id}, nil
}

func newRouter(svc service.PhoneOTPService, owner uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1", middleware.RequireAuth(staticVerifier{id: owner}))
	RegisterOTPRoutes(api, NewPhoneOTPHandler(svc))
	return router
}

func doJSON(router *gin.Engine, path, token string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestIssueOTP_Success(t *testing.T) {
	owner := uuid.New()
	svc := &stubService{}
	router := newRouter(svc, owner)

	w := doJSON(router, "/api/v1/otp/phone", "good", map[string]string{
		"phoneNumber": "9876543210",
		"countryCode": "+91",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])
	assert.Equal(t, owner, svc.gotOwner)
	assert.Equal(t, "+91", svc.gotIssue.CountryCode)
	assert.Equal(t, "9876543210", svc.gotIssue.PhoneNumber)
}

func TestIssueOTP_RequiresAuth(t *testing.T) {
	svc := &stubService{}
	router := newRouter(svc, uuid.New())

	w := doJSON(router, "/api/v1/otp/phone", "", map[string]string{"phoneNumber": "9876543210", "countryCode": "+91"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, "/api/v1/otp/phone", "bad", map[string]string{"phoneNumber": "9876543210", "countryCode": "+91"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, uuid.Nil, svc.gotOwner)
}

func TestIssueOTP_MissingFields(t *testing.T) {
	router := newRouter(&stubService{}, uuid.New())

	w := doJSON(router, "/api/v1/otp/phone", "good", map[string]string{"phoneNumber": "9876543210"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_input", decode(t, w)["code"])
}

func TestIssueOTP_ErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{service.ErrInvalidPhoneNumber, http.StatusBadRequest, "invalid_input", "invalid phone number"},
		{fmt.Errorf("%w: dial tcp: refused", service.ErrStoreUnavailable), http.StatusServiceUnavailable, "store_unavailable", service.ErrStoreUnavailable.Error()},
		{fmt.Errorf("twilio: %w: 21211", service.ErrDeliveryFailed), http.StatusBadGateway, "delivery_failed", service.ErrDeliveryFailed.Error()},
		{fmt.Errorf("twilio: %w", service.ErrProviderNotConfigured), http.StatusServiceUnavailable, "sms_not_configured", service.ErrProviderNotConfigured.Error()},
		{fmt.Errorf("unexpected"), http.StatusInternalServerError, "internal_error", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			router := newRouter(&stubService{issueErr: tt.err}, uuid.New())
			w := doJSON(router, "/api/v1/otp/phone", "good", map[string]string{"phoneNumber": "9876543210", "countryCode": "+91"})

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Equal(t, tt.wantMsg, body["error"])
		})
	}
}

func TestIssueOTP_CooldownSetsRetryAfter(t *testing.T) {
	router := newRouter(&stubService{issueErr: &service.CooldownError{RetryAfter: 41500 * time.Millisecond}}, uuid.New())
	w := doJSON(router, "/api/v1/otp/phone", "good", map[string]string{"phoneNumber": "9876543210", "countryCode": "+91"})

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "42", w.Header().Get("Retry-After"))
	assert.Equal(t, "resend_cooldown", decode(t, w)["code"])
}

func TestVerifyOTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"success", nil, http.StatusOK, ""},
		{"no active code", service.ErrNoActiveCode, http.StatusNotFound, "no_active_code"},
		{"expired", service.ErrCodeExpired, http.StatusGone, "code_expired"},
		{"exhausted", service.ErrAttemptsExhausted, http.StatusForbidden, "attempts_exhausted"},
		{"mismatch", service.ErrCodeMismatch, http.StatusUnprocessableEntity, "code_mismatch"},
		{"bad code", service.ErrInvalidCode, http.StatusBadRequest, "invalid_input"},
		{"unauthorized", service.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{verifyErr: tt.err}
			router := newRouter(svc, uuid.New())

			w := doJSON(router, "/api/v1/otp/phone/verify", "good", map[string]string{
				"phoneNumber": "+919876543210",
				"otpCode":     "123456",
			})

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			if tt.err == nil {
				assert.Equal(t, true, body["success"])
				assert.Equal(t, "123456", svc.gotVerify.OTPCode)
				assert.Equal(t, "+919876543210", svc.gotVerify.PhoneNumber)
				return
			}
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Equal(t, tt.err.Error(), body["error"])
		})
	}
}
