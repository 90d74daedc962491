package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/webmarket/webmarket/pkg/tokens"
)

var ErrCacheMiss = errors.New("cache miss")

// IdentityCache stores verification results keyed by the raw token.
type IdentityCache interface {
	Get(ctx context.Context, token string) (*Identity, error)
	Set(ctx context.Context, token string, id *Identity) error
}

// RedisCache keeps verified identities under a SHA-256 of the token. The entry
// TTL never exceeds the token's own expiry, so a cached identity can not
// outlive the credential it was derived from.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCache(client *redis.Client, baseTTL time.Duration) *RedisCache {
	if baseTTL <= 0 {
		baseTTL = 30 * time.Second
	}
	return &RedisCache{client: client, baseTTL: baseTTL}
}

func (r *RedisCache) Get(ctx context.Context, token string) (*Identity, error) {
	data, err := r.client.Get(ctx, cacheKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("unmarshal identity failed: %w", err)
	}
	return &id, nil
}

func (r *RedisCache) Set(ctx context.Context, token string, id *Identity) error {
	ttl := r.baseTTL
	if exp, ok := tokens.ExpiryHint(token); ok {
		if until := time.Until(exp); until <= 0 {
			return nil
		} else if until < ttl {
			ttl = until
		}
	}

	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("marshal identity failed: %w", err)
	}
	if err := r.client.Set(ctx, cacheKey(token), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func cacheKey(token string) string {
	return "auth:token:" + tokens.Sha256Hex(token)
}
