// Package cache stores flight search results in Redis, keyed by a hash of
// the normalized request.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/travelplanner/travel-platform/internal/model"
	"github.com/travelplanner/travel-platform/pkg/metrics"
)

// Cache is the flight result cache. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, req model.FlightSearchRequest) ([]model.FlightOffer, bool)
	Set(ctx context.Context, req model.FlightSearchRequest, offers []model.FlightOffer) error
	Close() error
}

// RedisCache caches results in Redis with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// DefaultRedisConfig returns a local Redis with a 5 minute TTL.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host: "localhost",
		Port: "6379",
		TTL:  5 * time.Minute,
	}
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

// Get returns cached offers for the request, if present.
func (c *RedisCache) Get(ctx context.Context, req model.FlightSearchRequest) ([]model.FlightOffer, bool) {
	data, err := c.client.Get(ctx, searchKey(req)).Bytes()
	if err != nil {
		metrics.CacheHitsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var offers []model.FlightOffer
	if err := json.Unmarshal(data, &offers); err != nil {
		metrics.CacheHitsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.CacheHitsTotal.WithLabelValues("hit").Inc()
	return offers, true
}

// Set stores offers for the request.
func (c *RedisCache) Set(ctx context.Context, req model.FlightSearchRequest, offers []model.FlightOffer) error {
	data, err := json.Marshal(offers)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, searchKey(req), data, c.ttl).Err()
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NoOpCache is used when Redis is unavailable or disabled.
type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, req model.FlightSearchRequest) ([]model.FlightOffer, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, req model.FlightSearchRequest, offers []model.FlightOffer) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

// searchKey hashes the fields that determine a search result.
func searchKey(req model.FlightSearchRequest) string {
	keyData := struct {
		From       string
		To         string
		Date       string
		ReturnDate string
		Class      string
		Adults     int
	}{
		From:       req.From.Code,
		To:         req.To.Code,
		Date:       req.Date,
		ReturnDate: req.ReturnDate,
		Class:      req.FlightClass,
		Adults:     req.Passengers.Adults,
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "flights:" + hex.EncodeToString(hash[:])
}
