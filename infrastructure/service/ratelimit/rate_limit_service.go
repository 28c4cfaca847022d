package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/securematch/securematch/application/port/inbound"
	"github.com/securematch/securematch/infrastructure/service/logger"
)

const keyPrefix = "securematch:ratelimit:"

// rateLimitService keeps fixed-window counters in Redis.
type rateLimitService struct {
	redisClient redis.UniversalClient
	logger      *logrus.Logger
}

// RateLimitConfig configuration untuk rate limiting
type RateLimitConfig struct {
	Enabled        bool
	RedisURL       string
	SearchAttempts int
	SearchWindow   time.Duration
	CreateAttempts int
	CreateWindow   time.Duration
	BlockDuration  time.Duration
}

// NewRateLimitService returns the Redis limiter, or a no-op one when rate
// limiting is disabled.
func NewRateLimitService(config RateLimitConfig, log *logrus.Logger) (inbound.RateLimitService, error) {
	if !config.Enabled {
		log.Info("Rate limiting disabled")
		return &noopRateLimitService{}, nil
	}

	opt, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisClient := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.WithFields(logrus.Fields{
		"search_attempts": config.SearchAttempts,
		"search_window":   config.SearchWindow,
		"create_attempts": config.CreateAttempts,
		"create_window":   config.CreateWindow,
		"block_duration":  config.BlockDuration,
	}).Info("Rate limiting service initialized")

	return NewRedisRateLimitService(redisClient, log), nil
}

func NewRedisRateLimitService(client redis.UniversalClient, log *logrus.Logger) inbound.RateLimitService {
	return &rateLimitService{
		redisClient: client,
		logger:      log,
	}
}

func counterKey(key string) string {
	return keyPrefix + key
}

func blockKey(key string) string {
	return keyPrefix + "blocked:" + key
}

func (s *rateLimitService) entry(ctx context.Context) *logrus.Entry {
	return s.logger.WithContext(ctx).WithField("correlation_id", logger.CorrelationIDFromContext(ctx))
}

func (s *rateLimitService) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	currentCount, err := s.GetAttempts(ctx, key)
	if err != nil {
		return false, err
	}

	isUnderLimit := currentCount < limit

	s.entry(ctx).WithFields(logrus.Fields{
		"key":         key,
		"current":     currentCount,
		"limit":       limit,
		"under_limit": isUnderLimit,
	}).Debug("Rate limit check")

	return isUnderLimit, nil
}

// Increment bumps the counter. The expiry is only set when the counter is
// created, so the window is fixed rather than extended by every request.
func (s *rateLimitService) Increment(ctx context.Context, key string, window time.Duration) error {
	k := counterKey(key)

	count, err := s.redisClient.Incr(ctx, k).Result()
	if err != nil {
		s.entry(ctx).WithError(err).Error("Failed to increment rate limit counter")
		return fmt.Errorf("failed to increment rate limit: %w", err)
	}
	if count == 1 {
		if err := s.redisClient.Expire(ctx, k, window).Err(); err != nil {
			return fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	s.entry(ctx).WithFields(logrus.Fields{
		"key":    key,
		"count":  count,
		"window": window,
	}).Debug("Rate limit incremented")

	return nil
}

func (s *rateLimitService) Block(ctx context.Context, key string, duration time.Duration, reason string) error {
	bk := blockKey(key)

	blockData := map[string]interface{}{
		"reason":         reason,
		"blocked_at":     time.Now().Unix(),
		"duration":       duration.Seconds(),
		"correlation_id": logger.CorrelationIDFromContext(ctx),
	}

	pipeline := s.redisClient.TxPipeline()
	pipeline.HSet(ctx, bk, blockData)
	pipeline.Expire(ctx, bk, duration)

	if _, err := pipeline.Exec(ctx); err != nil {
		s.entry(ctx).WithError(err).Error("Failed to block key")
		return fmt.Errorf("failed to block key: %w", err)
	}

	s.entry(ctx).WithFields(logrus.Fields{
		"key":      key,
		"duration": duration,
		"reason":   reason,
	}).Warn("Key blocked due to rate limit exceeded")

	return nil
}

func (s *rateLimitService) IsBlocked(ctx context.Context, key string) (bool, error) {
	exists, err := s.redisClient.Exists(ctx, blockKey(key)).Result()
	if err != nil {
		s.entry(ctx).WithError(err).Error("Failed to check block status")
		return false, fmt.Errorf("failed to check block status: %w", err)
	}
	return exists > 0, nil
}

func (s *rateLimitService) GetAttempts(ctx context.Context, key string) (int, error) {
	count, err := s.redisClient.Get(ctx, counterKey(key)).Int()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		s.entry(ctx).WithError(err).Error("Failed to get attempts count")
		return 0, fmt.Errorf("failed to get attempts: %w", err)
	}
	return count, nil
}

// noopRateLimitService implementasi no-op untuk ketika rate limiting disabled
type noopRateLimitService struct{}

func NewNoopRateLimitService() inbound.RateLimitService {
	return &noopRateLimitService{}
}

func (n *noopRateLimitService) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return true, nil
}

func (n *noopRateLimitService) Increment(ctx context.Context, key string, window time.Duration) error {
	return nil
}

func (n *noopRateLimitService) Block(ctx context.Context, key string, duration time.Duration, reason string) error {
	return nil
}

func (n *noopRateLimitService) IsBlocked(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func (n *noopRateLimitService) GetAttempts(ctx context.Context, key string) (int, error) {
	return 0, nil
}
