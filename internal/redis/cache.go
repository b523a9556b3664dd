package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles best-effort caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

const countryCachePrefix = "cache:geo:learner:"

// GetCountry retrieves a learner's cached country code. Returns "" on a miss.
func (s *CacheStore) GetCountry(ctx context.Context, learnerID string) (string, error) {
	val, err := s.client.Get(ctx, countryCachePrefix+learnerID).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

// SetCountry caches a learner's country code.
func (s *CacheStore) SetCountry(ctx context.Context, learnerID, countryCode string, ttl time.Duration) error {
	return s.client.Set(ctx, countryCachePrefix+learnerID, countryCode, ttl).Err()
}
