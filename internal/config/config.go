// Package config loads application settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"codekick-backend/internal/common/database"
	"codekick-backend/pkg/utils"

	"github.com/joho/godotenv"
)

// SMS provider names accepted in SMS_PROVIDER
const (
	SMSProviderTwilio  = "twilio"
	SMSProviderAuthKey = "authkey"
	SMSProviderNoOp    = "noop"
)

// Config holds everything the server needs at startup
type Config struct {
	Env     string
	Port    string
	GinMode string

	Database database.Config

	JWTSecret   string
	JWTAudience string
	JWTIssuer   string

	SMSProvider       string
	SMSBrand          string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
	AuthKeyAPIKey     string
	AuthKeyTemplateID string

	RedisURL       string
	ResendCooldown time.Duration
}

// Load reads .env (if present) and builds a validated Config from the environment.
// Provider credentials are not required here; a provider without credentials
// reports itself as unconfigured when asked to send.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	env := utils.GetEnvironment()

	defaultProvider := SMSProviderNoOp
	if utils.IsProduction(env) {
		defaultProvider = SMSProviderTwilio
	}

	cooldown, err := parseDuration(utils.GetEnv("OTP_RESEND_COOLDOWN", "60s"))
	if err != nil {
		return nil, fmt.Errorf("config: OTP_RESEND_COOLDOWN: %w", err)
	}

	cfg := &Config{
		Env:     env,
		Port:    utils.GetEnv("PORT", "8080"),
		GinMode: utils.GetEnv("GIN_MODE", "release"),
		Database: database.Config{
			Host:     utils.GetEnv("DB_HOST", "localhost"),
			Port:     utils.GetEnv("DB_PORT", "5432"),
			User:     utils.GetEnv("DB_USER", "postgres"),
			Password: utils.GetEnv("DB_PASSWORD", "postgres"),
			DBName:   utils.GetEnv("DB_NAME", "codekick"),
			SSLMode:  utils.GetEnv("DB_SSL_MODE", "disable"),
		},
		JWTSecret:         utils.GetEnv("JWT_SECRET", ""),
		JWTAudience:       utils.GetEnv("JWT_AUDIENCE", "authenticated"),
		JWTIssuer:         utils.GetEnv("JWT_ISSUER", ""),
		SMSProvider:       strings.ToLower(utils.GetEnv("SMS_PROVIDER", defaultProvider)),
		SMSBrand:          utils.GetEnv("SMS_BRAND", "CodeKick"),
		TwilioAccountSID:  utils.GetEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   utils.GetEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber: utils.GetEnv("TWILIO_PHONE_NUMBER", ""),
		AuthKeyAPIKey:     utils.GetEnv("AUTHKEY_API_KEY", ""),
		AuthKeyTemplateID: utils.GetEnv("AUTHKEY_TEMPLATE_ID", ""),
		RedisURL:          utils.GetEnv("REDIS_URL", ""),
		ResendCooldown:    cooldown,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants Load cannot express through defaults
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("config: PORT must be set")
	}
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET must be set")
	}

	switch c.SMSProvider {
	case SMSProviderTwilio, SMSProviderAuthKey:
	case SMSProviderNoOp:
		if utils.IsProduction(c.Env) {
			return errors.New("config: SMS_PROVIDER=noop is not allowed in production")
		}
	default:
		return fmt.Errorf("config: unknown SMS_PROVIDER %q", c.SMSProvider)
	}

	if c.ResendCooldown < 0 {
		return errors.New("config: OTP_RESEND_COOLDOWN must not be negative")
	}
	return nil
}

// parseDuration accepts Go durations ("90s") and bare seconds ("90")
func parseDuration(value string) (time.Duration, error) {
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(value)
}
