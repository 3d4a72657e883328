package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sebastianliew/l2l-backend/internal/authz/model"
)

const principalKeyPrefix = "authz:principal:"

// CachedPrincipalStore wraps a PrincipalStore with a read-through Redis
// cache. The cache is an optimization only: negative results are never
// cached, and revocation correctness depends on Invalidate being called for
// every principal mutation. The TTL is a backstop, not the invalidation
// mechanism.
type CachedPrincipalStore struct {
	inner PrincipalStore
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedPrincipalStore(inner PrincipalStore, rdb *redis.Client, ttl time.Duration) *CachedPrincipalStore {
	return &CachedPrincipalStore{inner: inner, rdb: rdb, ttl: ttl}
}

func (s *CachedPrincipalStore) GetPrincipalByID(ctx context.Context, id string) (*model.Principal, error) {
	data, err := s.rdb.Get(ctx, principalKeyPrefix+id).Bytes()
	if err == nil {
		var p model.Principal
		if uerr := json.Unmarshal(data, &p); uerr == nil {
			return &p, nil
		}
		// Corrupt entry: drop it and fall through to the store.
		_ = s.rdb.Del(ctx, principalKeyPrefix+id).Err()
	} else if !errors.Is(err, redis.Nil) {
		// Redis being down must not take authorization down with it.
		return s.inner.GetPrincipalByID(ctx, id)
	}

	p, err := s.inner.GetPrincipalByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, merr := json.Marshal(p); merr == nil {
		_ = s.rdb.Set(ctx, principalKeyPrefix+id, data, s.ttl).Err()
	}
	return p, nil
}

// Invalidate drops the cached entry for one principal.
func (s *CachedPrincipalStore) Invalidate(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, principalKeyPrefix+id).Err()
}
