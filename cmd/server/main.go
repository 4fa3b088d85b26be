package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	otphandler "codekick-backend/internal/apps/otp/handler"
	otpmodels "codekick-backend/internal/apps/otp/models"
	otprepository "codekick-backend/internal/apps/otp/repository"
	otpservice "codekick-backend/internal/apps/otp/service"
	profilehandler "codekick-backend/internal/apps/profile/handler"
	profilemodels "codekick-backend/internal/apps/profile/models"
	profilerepository "codekick-backend/internal/apps/profile/repository"
	profileservice "codekick-backend/internal/apps/profile/service"
	"codekick-backend/internal/common/auth"
	"codekick-backend/internal/common/database"
	"codekick-backend/internal/common/logger"
	"codekick-backend/internal/common/metrics"
	"codekick-backend/internal/common/middleware"
	"codekick-backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// Connect to database
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db, &otpmodels.PhoneOTP{}, &profilemodels.Profile{}); err != nil {
		zlog.Fatal("Failed to migrate database", zap.Error(err))
	}

	cooldown, closeRedis := newCooldown(cfg, zlog)
	defer closeRedis()

	provider, err := newSMSProvider(cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to configure SMS provider", zap.Error(err))
	}

	// Profile app
	profileRepo := profilerepository.NewProfileRepository(db)
	profileService := profileservice.NewProfileService(profileRepo)
	profileHandler := profilehandler.NewProfileHandler(profileService)

	// OTP app
	phoneOTPRepo := otprepository.NewPhoneOTPRepository(db)
	phoneOTPService := otpservice.NewPhoneOTPService(
		phoneOTPRepo,
		provider,
		profileRepo,
		zlog.Named("otp"),
		otpservice.WithCooldown(cooldown),
		otpservice.WithBrand(cfg.SMSBrand),
	)
	phoneOTPHandler := otphandler.NewPhoneOTPHandler(phoneOTPService)

	// Setup Gin router
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(middleware.RequestLogger(zlog.Named("http")), gin.Recovery())

	corsMiddleware, err := middleware.SetupCORS(cfg.Env)
	if err != nil {
		zlog.Fatal("Failed to configure CORS", zap.Error(err))
	}
	router.Use(corsMiddleware)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Server is running",
		})
	})
	router.GET("/metrics", metrics.Handler())

	verifier := auth.NewHMACVerifier(cfg.JWTSecret, cfg.JWTAudience, cfg.JWTIssuer)

	// API v1 routes
	v1 := router.Group("/api/v1", middleware.RequireAuth(verifier))
	{
		otphandler.RegisterOTPRoutes(v1, phoneOTPHandler)
		profilehandler.RegisterProfileRoutes(v1, profileHandler)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("Server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env), zap.String("sms_provider", cfg.SMSProvider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}
}

// newCooldown builds the issuance limiter; without Redis issuance is not rate limited
func newCooldown(cfg *config.Config, zlog *zap.Logger) (otpservice.Cooldown, func()) {
	if cfg.RedisURL == "" || cfg.ResendCooldown == 0 {
		zlog.Warn("OTP resend cooldown disabled", zap.Bool("redis_configured", cfg.RedisURL != ""), zap.Duration("interval", cfg.ResendCooldown))
		return otpservice.NewNoCooldown(), func() {}
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		zlog.Fatal("Invalid REDIS_URL", zap.Error(err))
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zlog.Warn("Redis not reachable at startup, cooldown fails open until it is", zap.Error(err))
	}

	return otpservice.NewRedisCooldown(client, cfg.ResendCooldown, zlog.Named("cooldown")), func() {
		_ = client.Close()
	}
}

func newSMSProvider(cfg *config.Config, zlog *zap.Logger) (otpservice.SMSProvider, error) {
	providerLog := zlog.Named("sms")
	switch cfg.SMSProvider {
	case config.SMSProviderTwilio:
		if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioPhoneNumber == "" {
			zlog.Warn("Twilio credentials not configured, phone OTP issuance will fail")
		}
		return otpservice.NewTwilioProvider(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber, providerLog), nil
	case config.SMSProviderAuthKey:
		if cfg.AuthKeyAPIKey == "" || cfg.AuthKeyTemplateID == "" {
			zlog.Warn("AuthKey credentials not configured, phone OTP issuance will fail")
		}
		return otpservice.NewAuthKeyProvider(cfg.AuthKeyAPIKey, cfg.AuthKeyTemplateID, cfg.SMSBrand, providerLog), nil
	case config.SMSProviderNoOp:
		zlog.Warn("Using noop SMS provider, codes are logged instead of sent")
		return otpservice.NewNoOpProvider(providerLog), nil
	}
	return nil, errors.New("unknown SMS provider " + cfg.SMSProvider)
}
