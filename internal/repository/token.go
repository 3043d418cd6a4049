package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/income-api/internal/server"
	"github.com/redis/go-redis/v9"
)

const revokedTokenPrefix = "income-api:revoked_token:"

// TokenStore keeps revoked token ids in Redis until the token would have
// expired anyway.
type TokenStore struct {
	redis *redis.Client
}

func NewTokenStore(s *server.Server) *TokenStore {
	return &TokenStore{redis: s.Redis}
}

// Revoke marks tokenID as unusable for ttl. A non-positive ttl means the
// token is already expired and nothing is stored.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, revokedTokenPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token %s: %w", tokenID, err)
	}
	return nil
}

func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.redis.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token %s: %w", tokenID, err)
	}
	return n > 0, nil
}

// Claim revokes tokenID only if it is not revoked yet and reports whether
// this call won. It is the atomic check for single-use tokens.
func (s *TokenStore) Claim(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, nil
	}
	ok, err := s.redis.SetNX(ctx, revokedTokenPrefix+tokenID, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim token %s: %w", tokenID, err)
	}
	return ok, nil
}

// Release undoes a Claim whose follow-up work failed.
func (s *TokenStore) Release(ctx context.Context, tokenID string) error {
	if err := s.redis.Del(ctx, revokedTokenPrefix+tokenID).Err(); err != nil {
		return fmt.Errorf("failed to release token %s: %w", tokenID, err)
	}
	return nil
}
