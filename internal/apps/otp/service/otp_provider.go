package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codekick-backend/internal/common/logger"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// SMSMessage is one outbound verification SMS
type SMSMessage struct {
	To          string // fully qualified, e.g. +919876543210
	CountryCode string // e.g. +91
	Subscriber  string // e.g. 9876543210
	Body        string
	Code        string // for template-based providers that render the body themselves
}

// DeliveryReceipt is the provider's synchronous answer for an accepted message
type DeliveryReceipt struct {
	Provider  string
	MessageID string
}

// SMSProvider defines the interface for sending OTP via SMS.
// Implementations return ErrProviderNotConfigured when credentials are missing and
// wrap ErrDeliveryFailed when the provider rejects or cannot be reached.
type SMSProvider interface {
	Send(ctx context.Context, msg SMSMessage) (*DeliveryReceipt, error)
}

// noOpProvider skips OTP sending (for local environment)
type noOpProvider struct {
	logger *zap.Logger
}

// NewNoOpProvider creates a no-op OTP provider
func NewNoOpProvider(logger *zap.Logger) SMSProvider {
	return &noOpProvider{logger: logger}
}

func (n *noOpProvider) Send(_ context.Context, msg SMSMessage) (*DeliveryReceipt, error) {
	n.logger.Info("skipping SMS in local environment",
		zap.String("to", msg.To),
		zap.String("otp", msg.Code),
	)
	return &DeliveryReceipt{Provider: "noop"}, nil
}

// twilioProvider sends OTP through the Twilio Messages API
type twilioProvider struct {
	client     *twilio.RestClient
	fromNumber string
	configured bool
	logger     *zap.Logger
}

// NewTwilioProvider creates a Twilio OTP provider. Missing credentials are reported on Send.
func NewTwilioProvider(accountSID, authToken, fromNumber string, logger *zap.Logger) SMSProvider {
	return &twilioProvider{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		fromNumber: fromNumber,
		configured: accountSID != "" && authToken != "" && fromNumber != "",
		logger:     logger,
	}
}

func (t *twilioProvider) Send(_ context.Context, msg SMSMessage) (*DeliveryReceipt, error) {
	if !t.configured {
		return nil, fmt.Errorf("twilio: %w", ErrProviderNotConfigured)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(t.fromNumber)
	params.SetBody(msg.Body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return nil, fmt.Errorf("twilio: %w: %v", ErrDeliveryFailed, err)
	}

	receipt := &DeliveryReceipt{Provider: "twilio"}
	if resp.Sid != nil {
		receipt.MessageID = *resp.Sid
	}
	t.logger.Info("sent OTP via Twilio", logger.Phone(msg.To), zap.String("sid", receipt.MessageID))
	return receipt, nil
}

const authKeyBaseURL = "https://api.authkey.io/request"

// authKeyProvider sends OTP via AuthKey.io API
type authKeyProvider struct {
	authKey    string
	templateID string
	brand      string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAuthKeyProvider creates an AuthKey.io OTP provider
func NewAuthKeyProvider(authKey, templateID, brand string, logger *zap.Logger) SMSProvider {
	return &authKeyProvider{
		authKey:    authKey,
		templateID: templateID,
		brand:      brand,
		baseURL:    authKeyBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

func (a *authKeyProvider) Send(ctx context.Context, msg SMSMessage) (*DeliveryReceipt, error) {
	if a.authKey == "" || a.templateID == "" {
		return nil, fmt.Errorf("authkey: %w", ErrProviderNotConfigured)
	}

	params := url.Values{}
	params.Add("authkey", a.authKey)
	params.Add("mobile", msg.Subscriber)
	params.Add("country_code", strings.TrimPrefix(msg.CountryCode, "+"))
	params.Add("sid", a.templateID)
	params.Add("company", a.brand)
	params.Add("otp", msg.Code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("authkey: %w: %v", ErrDeliveryFailed, err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("authkey: %w: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("authkey: %w: status %d: %s", ErrDeliveryFailed, resp.StatusCode, string(body))
	}

	a.logger.Info("sent OTP via AuthKey", logger.Phone(msg.To))
	return &DeliveryReceipt{Provider: "authkey", MessageID: string(body)}, nil
}
