package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"codekick-backend/internal/apps/otp/models"
	"codekick-backend/internal/apps/otp/repository"
	"codekick-backend/internal/common/logger"
	"codekick-backend/internal/common/metrics"
	"codekick-backend/pkg/secure"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// CodeLength is the number of digits in an issued code
	CodeLength = 6
	// CodeTTL is the fixed validity window of an issued code
	CodeTTL = 5 * time.Minute
	// MaxAttempts is the number of mismatched submissions after which a code is locked
	MaxAttempts = 3
)

var (
	countryCodePattern = regexp.MustCompile(`^\+[1-9][0-9]{0,3}$`)
	subscriberPattern  = regexp.MustCompile(`^[0-9]{10,14}$`)
	fullPhonePattern   = regexp.MustCompile(`^\+[1-9][0-9]{10,17}$`)
	codePattern        = regexp.MustCompile(`^[0-9]{6}$`)
)

// ProfileVerifier records a verified phone number on the caller's profile
type ProfileVerifier interface {
	MarkPhoneVerified(ctx context.Context, userID uuid.UUID, phoneNumber string) error
}

// PhoneOTPService defines business logic for Phone OTP
type PhoneOTPService interface {
	Issue(ctx context.Context, ownerID uuid.UUID, req models.IssuePhoneOTPRequest) (*models.IssuePhoneOTPResponse, error)
	Verify(ctx context.Context, ownerID uuid.UUID, req models.VerifyPhoneOTPRequest) (*models.VerifyPhoneOTPResponse, error)
}

// Option customizes a PhoneOTPService
type Option func(*phoneOTPService)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *phoneOTPService) { s.now = now }
}

// WithCodeGenerator overrides how codes are generated
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *phoneOTPService) { s.generateCode = gen }
}

// WithCooldown enables an issuance cooldown
func WithCooldown(c Cooldown) Option {
	return func(s *phoneOTPService) { s.cooldown = c }
}

// WithBrand sets the name shown in the SMS body
func WithBrand(brand string) Option {
	return func(s *phoneOTPService) { s.brand = brand }
}

// phoneOTPService implements PhoneOTPService
type phoneOTPService struct {
	repo         repository.PhoneOTPRepository
	otpProvider  SMSProvider
	profiles     ProfileVerifier
	cooldown     Cooldown
	logger       *zap.Logger
	brand        string
	now          func() time.Time
	generateCode func() (string, error)
}

// NewPhoneOTPService creates a new instance of PhoneOTPService
func NewPhoneOTPService(repo repository.PhoneOTPRepository, provider SMSProvider, profiles ProfileVerifier, logger *zap.Logger, opts ...Option) PhoneOTPService {
	s := &phoneOTPService{
		repo:        repo,
		otpProvider: provider,
		profiles:    profiles,
		cooldown:    NewNoCooldown(),
		logger:      logger,
		brand:       "CodeKick",
		now:         func() time.Time { return time.Now().UTC() },
		generateCode: func() (string, error) {
			return secure.GenerateNumericCode(CodeLength)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue stores a new code for the caller's phone number and sends it by SMS.
// The record is persisted before the SMS goes out; if either step fails the caller retries.
func (s *phoneOTPService) Issue(ctx context.Context, ownerID uuid.UUID, req models.IssuePhoneOTPRequest) (resp *models.IssuePhoneOTPResponse, err error) {
	defer func() { metrics.OTPIssued.WithLabelValues(resultLabel(err)).Inc() }()

	if ownerID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	countryCode := strings.TrimSpace(req.CountryCode)
	subscriber := strings.TrimSpace(req.PhoneNumber)
	if !countryCodePattern.MatchString(countryCode) || !subscriberPattern.MatchString(subscriber) {
		return nil, ErrInvalidPhoneNumber
	}
	phoneNumber := countryCode + subscriber
	log := s.logger.With(zap.String("owner_id", ownerID.String()), logger.Phone(phoneNumber))

	if err := s.cooldown.Acquire(ctx, ownerID, phoneNumber); err != nil {
		log.Info("OTP issuance throttled")
		return nil, err
	}
	issued := false
	defer func() {
		if !issued {
			s.cooldown.Release(context.WithoutCancel(ctx), ownerID, phoneNumber)
		}
	}()

	code, err := s.generateCode()
	if err != nil {
		log.Error("failed to generate OTP", zap.Error(err))
		return nil, fmt.Errorf("generate OTP: %w", err)
	}

	now := s.now()
	otp := &models.PhoneOTP{
		OwnerID:     ownerID,
		PhoneNumber: phoneNumber,
		CodeHash:    secure.HashCode(code),
		ExpiresAt:   now.Add(CodeTTL),
		CreatedAt:   now,
	}
	if err := s.repo.Create(ctx, otp); err != nil {
		log.Error("failed to store OTP", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	receipt, err := s.otpProvider.Send(ctx, SMSMessage{
		To:          phoneNumber,
		CountryCode: countryCode,
		Subscriber:  subscriber,
		Body:        fmt.Sprintf("Your %s verification code is: %s. Valid for %d minutes.", s.brand, code, int(CodeTTL.Minutes())),
		Code:        code,
	})
	if err != nil {
		log.Error("failed to send OTP", zap.String("otp_id", otp.ID), zap.Error(err))
		if errors.Is(err, ErrProviderNotConfigured) {
			return nil, err
		}
		if !errors.Is(err, ErrDeliveryFailed) {
			err = fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
		}
		return nil, err
	}

	issued = true
	log.Info("OTP sent", zap.String("otp_id", otp.ID), zap.String("provider", receipt.Provider))

	return &models.IssuePhoneOTPResponse{
		Success:   true,
		Message:   "OTP sent successfully",
		ExpiresAt: otp.ExpiresAt,
	}, nil
}

// Verify redeems the caller's newest unconsumed code for the phone number.
// Checks run in order: expiry, attempt budget, then code comparison.
func (s *phoneOTPService) Verify(ctx context.Context, ownerID uuid.UUID, req models.VerifyPhoneOTPRequest) (resp *models.VerifyPhoneOTPResponse, err error) {
	defer func() { metrics.OTPVerified.WithLabelValues(resultLabel(err)).Inc() }()

	if ownerID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	phoneNumber := strings.TrimSpace(req.PhoneNumber)
	code := strings.TrimSpace(req.OTPCode)
	if !fullPhonePattern.MatchString(phoneNumber) {
		return nil, ErrInvalidPhoneNumber
	}
	if !codePattern.MatchString(code) {
		return nil, ErrInvalidCode
	}
	log := s.logger.With(zap.String("owner_id", ownerID.String()), logger.Phone(phoneNumber))

	otp, err := s.repo.FindActive(ctx, ownerID, phoneNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveCode
		}
		log.Error("failed to fetch OTP", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	log = log.With(zap.String("otp_id", otp.ID))

	now := s.now()
	if otp.IsExpired(now) {
		return nil, ErrCodeExpired
	}
	if otp.Attempts >= MaxAttempts {
		return nil, ErrAttemptsExhausted
	}

	if !secure.CodeEqual(code, otp.CodeHash) {
		attempts, recorded, err := s.repo.RecordMismatch(ctx, otp.ID, MaxAttempts)
		if err != nil {
			log.Error("failed to record OTP attempt", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if !recorded {
			return nil, s.classifyLostRace(ctx, otp.ID, now)
		}
		log.Info("OTP mismatch", zap.Int("attempts", attempts))
		if attempts >= MaxAttempts {
			return nil, ErrAttemptsExhausted
		}
		return nil, ErrCodeMismatch
	}

	consumed, err := s.repo.Consume(ctx, otp.ID, MaxAttempts, now)
	if err != nil {
		log.Error("failed to consume OTP", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !consumed {
		return nil, s.classifyLostRace(ctx, otp.ID, now)
	}

	if err := s.profiles.MarkPhoneVerified(ctx, ownerID, phoneNumber); err != nil {
		metrics.ProfileSyncFailures.Inc()
		log.Error("OTP verified but profile update failed", zap.Error(err))
	}

	log.Info("OTP verified successfully")
	return &models.VerifyPhoneOTPResponse{
		Success: true,
		Message: "Phone number verified successfully",
	}, nil
}

// classifyLostRace re-reads a record whose conditional update matched no row and
// reports the state another request moved it into.
func (s *phoneOTPService) classifyLostRace(ctx context.Context, id string, now time.Time) error {
	otp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	switch {
	case otp.Consumed:
		return ErrNoActiveCode
	case otp.IsExpired(now):
		return ErrCodeExpired
	case otp.Attempts >= MaxAttempts:
		return ErrAttemptsExhausted
	default:
		return fmt.Errorf("%w: concurrent update", ErrStoreUnavailable)
	}
}
