package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/vendortrust-backend/config"
	"github.com/ikkim/vendortrust-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// 게시 차단 게이트가 조회하는 종합 상태 캐시의 TTL
const vendorStatusTTL = 5 * time.Minute

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// CacheVendorStatus stores a vendor's overall verification status for the
// publish gate. Recomputes must call InvalidateVendorStatus first.
func CacheVendorStatus(ctx context.Context, vendorID uint, status string) error {
	if client == nil {
		return nil
	}

	key := fmt.Sprintf("vendor_status:%d", vendorID)
	if err := client.Set(ctx, key, status, vendorStatusTTL).Err(); err != nil {
		logger.Error("Failed to cache vendor status", err, map[string]interface{}{
			"vendor_id": vendorID,
		})
		return err
	}
	return nil
}

// GetCachedVendorStatus returns the cached overall status, or "" on miss
func GetCachedVendorStatus(ctx context.Context, vendorID uint) (string, error) {
	if client == nil {
		return "", nil
	}

	key := fmt.Sprintf("vendor_status:%d", vendorID)
	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		logger.Error("Failed to read cached vendor status", err, map[string]interface{}{
			"vendor_id": vendorID,
		})
		return "", err
	}
	return val, nil
}

// InvalidateVendorStatus drops the cached status after a recompute
func InvalidateVendorStatus(ctx context.Context, vendorID uint) error {
	if client == nil {
		return nil
	}

	key := fmt.Sprintf("vendor_status:%d", vendorID)
	if err := client.Del(ctx, key).Err(); err != nil {
		logger.Error("Failed to invalidate vendor status cache", err, map[string]interface{}{
			"vendor_id": vendorID,
		})
		return err
	}
	return nil
}

// BlacklistToken adds a token to the blacklist
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	if client == nil {
		return nil
	}

	key := fmt.Sprintf("blacklist:%s", token)
	if err := client.Set(ctx, key, "revoked", expiry).Err(); err != nil {
		logger.Error("Failed to blacklist token", err, nil)
		return err
	}
	return nil
}

// IsTokenBlacklisted checks if a token is in the blacklist
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	if client == nil {
		return false, nil
	}

	key := fmt.Sprintf("blacklist:%s", token)
	val, err := client.Get(ctx, key).Result()

	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err, nil)
		return false, err
	}

	return val == "revoked", nil
}
