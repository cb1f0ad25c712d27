package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"college-erp/config"
)

// Client wraps go-redis for the token blacklist, OTP codes and rate limiting.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects and pings Redis.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── token blacklist ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken stores the JTI until the token would have expired anyway.
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted reports whether the JTI was revoked.
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── one-time codes ──

const (
	otpPrefix     = "otp:"
	otpFailPrefix = "otp:fail:"
)

func otpKey(purpose, email string) string {
	return otpPrefix + purpose + ":" + email
}

func otpFailKey(purpose, email string) string {
	return otpFailPrefix + purpose + ":" + email
}

// SaveOTP stores a code for (purpose, email), replacing any earlier one
// and clearing its failure count.
func (c *Client) SaveOTP(ctx context.Context, purpose, email, code string, ttl time.Duration) error {
	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, otpKey(purpose, email), code, ttl)
	pipe.Del(ctx, otpFailKey(purpose, email))
	_, err := pipe.Exec(ctx)
	return err
}

// GetOTP returns "" when no code is pending.
func (c *Client) GetOTP(ctx context.Context, purpose, email string) (string, error) {
	code, err := c.rdb.Get(ctx, otpKey(purpose, email)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	return code, err
}

// RecordOTPFailure increments the wrong-guess counter, which lives no
// longer than the code itself.
func (c *Client) RecordOTPFailure(ctx context.Context, purpose, email string, ttl time.Duration) (int, error) {
	key := otpFailKey(purpose, email)
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

// DeleteOTP consumes or burns the code.
func (c *Client) DeleteOTP(ctx context.Context, purpose, email string) error {
	return c.rdb.Del(ctx, otpKey(purpose, email), otpFailKey(purpose, email)).Err()
}

// ── rate limiting ──

// CheckRateLimit is a sliding window over a sorted set scored by unix nanos.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	min := strconv.FormatInt(now.Add(-window).UnixNano(), 10)

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", min)
	card := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return card.Val() < int64(limit), nil
}

// Close closes the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
