package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// ErrUnavailable is returned when the Redis client has not been initialized;
// callers treat it like a cache miss.
var ErrUnavailable = errors.New("cache: redis client not initialized")

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// InitRedis initializes the Redis client
func InitRedis(config RedisConfig) error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Host + ":" + config.Port,
		Password: config.Password,
		DB:       config.DB,
	})

	// Test the connection
	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return err
	}

	redisClient = client
	return nil
}

// GetRedisClient returns the Redis client instance
func GetRedisClient() *redis.Client {
	return redisClient
}

// SetCache stores data in Redis cache
func SetCache(ctx context.Context, key string, data interface{}, expiration time.Duration) error {
	if redisClient == nil {
		return ErrUnavailable
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return redisClient.Set(ctx, key, dataJSON, expiration).Err()
}

// GetCache retrieves data from Redis cache
func GetCache(ctx context.Context, key string, dest interface{}) error {
	if redisClient == nil {
		return ErrUnavailable
	}
	val, err := redisClient.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// DeleteCache removes data from Redis cache
func DeleteCache(ctx context.Context, key string) error {
	if redisClient == nil {
		return ErrUnavailable
	}
	return redisClient.Del(ctx, key).Err()
}

// DeleteByPattern deletes all keys matching a pattern
func DeleteByPattern(ctx context.Context, pattern string) error {
	if redisClient == nil {
		return ErrUnavailable
	}
	iter := redisClient.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := redisClient.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

const (
	// Cache key patterns
	ProductListPattern   = "products:*"
	ProductDetailPattern = "product:%s"
)

// ProductListKey builds the cache key for one page of the product listing,
// covering every filter dimension so distinct queries never collide.
func ProductListKey(page, limit int, category, size, color, minPrice, maxPrice string) string {
	return fmt.Sprintf("products:p%d:l%d:cat%s:size%s:col%s:min%s:max%s",
		page, limit, category, size, color, minPrice, maxPrice)
}
