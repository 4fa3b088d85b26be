package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cooldown bounds how often codes can be issued for one (owner, phone) pair
type Cooldown interface {
	// Acquire claims the issuance slot or returns an error wrapping ErrIssueCooldown
	Acquire(ctx context.Context, ownerID uuid.UUID, phoneNumber string) error
	// Release frees a slot claimed by Acquire when the issuance did not complete
	Release(ctx context.Context, ownerID uuid.UUID, phoneNumber string)
}

// redisCooldown keeps one expiring key per pair
type redisCooldown struct {
	client   redis.Cmdable
	interval time.Duration
	logger   *zap.Logger
}

// NewRedisCooldown creates a Redis-backed cooldown with the given minimum interval
func NewRedisCooldown(client redis.Cmdable, interval time.Duration, logger *zap.Logger) Cooldown {
	return &redisCooldown{client: client, interval: interval, logger: logger}
}

func cooldownKey(ownerID uuid.UUID, phoneNumber string) string {
	return fmt.Sprintf("otp:cooldown:%s:%s", ownerID, phoneNumber)
}

func (r *redisCooldown) Acquire(ctx context.Context, ownerID uuid.UUID, phoneNumber string) error {
	key := cooldownKey(ownerID, phoneNumber)

	ok, err := r.client.SetNX(ctx, key, "1", r.interval).Result()
	if err != nil {
		// fail open on limiter outage
		r.logger.Warn("cooldown check failed, allowing issuance", zap.Error(err))
		return nil
	}
	if ok {
		return nil
	}

	ttl, err := r.client.PTTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		return ErrIssueCooldown
	}
	return &CooldownError{RetryAfter: ttl}
}

func (r *redisCooldown) Release(ctx context.Context, ownerID uuid.UUID, phoneNumber string) {
	if err := r.client.Del(ctx, cooldownKey(ownerID, phoneNumber)).Err(); err != nil {
		r.logger.Warn("failed to release cooldown", zap.Error(err))
	}
}

// noCooldown allows every issuance
type noCooldown struct{}

// NewNoCooldown returns a Cooldown that never throttles
func NewNoCooldown() Cooldown { return noCooldown{} }

func (noCooldown) Acquire(context.Context, uuid.UUID, string) error { return nil }
func (noCooldown) Release(context.Context, uuid.UUID, string)       {}

// CooldownError carries how long the caller has to wait
type CooldownError struct {
	RetryAfter time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("please wait %d seconds before requesting another OTP", int(e.RetryAfter.Round(time.Second).Seconds()))
}

// Is makes errors.Is(err, ErrIssueCooldown) hold
func (e *CooldownError) Is(target error) bool {
	return target == ErrIssueCooldown
}
