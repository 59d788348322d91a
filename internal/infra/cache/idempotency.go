package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pendingMarker = "__pending__"

var (
	// ErrIdempotencyInFlight means another request holding the same key has
	// not finished yet.
	ErrIdempotencyInFlight = errors.New("idempotent request still in flight")
)

// IdempotencyStore remembers the result of a keyed request for a TTL so that
// client retries replay the first outcome instead of repeating side effects.
type IdempotencyStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewIdempotencyStore(rdb *redis.Client, prefix string, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (s *IdempotencyStore) redisKey(scope, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, scope, key)
}

// Reserve claims key within scope. When the key was already completed it
// returns the stored payload and reserved=false. When a concurrent holder has
// not completed yet it returns ErrIdempotencyInFlight.
func (s *IdempotencyStore) Reserve(ctx context.Context, scope, key string) (payload []byte, reserved bool, err error) {
	k := s.redisKey(scope, key)

	ok, err := s.rdb.SetNX(ctx, k, pendingMarker, s.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if ok {
		return nil, true, nil
	}

	val, err := s.rdb.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; try once more
		ok, err = s.rdb.SetNX(ctx, k, pendingMarker, s.ttl).Result()
		if err != nil {
			return nil, false, err
		}
		if ok {
			return nil, true, nil
		}
		return nil, false, ErrIdempotencyInFlight
	}
	if err != nil {
		return nil, false, err
	}
	if string(val) == pendingMarker {
		return nil, false, ErrIdempotencyInFlight
	}
	return val, false, nil
}

// Complete stores the final payload for a reserved key.
func (s *IdempotencyStore) Complete(ctx context.Context, scope, key string, payload []byte) error {
	return s.rdb.Set(ctx, s.redisKey(scope, key), payload, s.ttl).Err()
}

// Release drops a reservation after a failed request so the client may retry.
func (s *IdempotencyStore) Release(ctx context.Context, scope, key string) error {
	return s.rdb.Del(ctx, s.redisKey(scope, key)).Err()
}
