package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"bookable/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisIdempotencyStore shares replay state across replicas. Selected when
// REDIS_ADDR is configured; single-instance deployments keep the in-memory
// store.
type RedisIdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

type cachedResponseRecord struct {
	StatusCode int         `json:"status_code"`
	Headers    http.Header `json:"headers"`
	Body       []byte      `json:"body"`
	CreatedAt  time.Time   `json:"created_at"`
}

func NewRedisIdempotencyStore(addr string, ttl time.Duration, log *logger.Logger) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
		log:    log,
	}
}

func (s *RedisIdempotencyStore) Get(key string) (*CachedResponse, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := s.client.Get(ctx, "idempotency:"+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("Idempotency lookup failed", "key", key, "error", err)
		}
		return nil, false
	}

	var record cachedResponseRecord
	if err := json.Unmarshal(data, &record); err != nil {
		s.log.Warn("Corrupt idempotency record dropped", "key", key, "error", err)
		return nil, false
	}

	return &CachedResponse{
		StatusCode: record.StatusCode,
		Headers:    record.Headers,
		Body:       record.Body,
		CreatedAt:  record.CreatedAt,
	}, true
}

func (s *RedisIdempotencyStore) Set(key string, response *CachedResponse) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := json.Marshal(cachedResponseRecord{
		StatusCode: response.StatusCode,
		Headers:    response.Headers,
		Body:       response.Body,
		CreatedAt:  response.CreatedAt,
	})
	if err != nil {
		s.log.Warn("Failed to encode idempotency record", "key", key, "error", err)
		return
	}

	if err := s.client.Set(ctx, "idempotency:"+key, data, s.ttl).Err(); err != nil {
		s.log.Warn("Failed to store idempotency record", "key", key, "error", err)
	}
}

func (s *RedisIdempotencyStore) Stop() {
	if err := s.client.Close(); err != nil {
		s.log.Warn("Failed to close Redis client", "error", err)
	}
}
