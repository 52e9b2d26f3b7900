package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// revokedSetKey matches the set the rest of the platform already writes
// logged-out tokens into.
const revokedSetKey = "blacklisted_tokens"

// RevocationList records logged-out tokens and answers membership checks.
type RevocationList interface {
	Revoke(ctx context.Context, token string) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	Size(ctx context.Context) (int64, error)
}

type redisRevocationList struct {
	client *redis.Client
}

func NewRedisClient(url string, poolSize int) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	opt.PoolSize = poolSize

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func NewRevocationList(client *redis.Client) RevocationList {
	return &redisRevocationList{client: client}
}

func (r *redisRevocationList) Revoke(ctx context.Context, token string) error {
	if err := r.client.SAdd(ctx, revokedSetKey, hashToken(token)).Err(); err != nil {
		return fmt.Errorf("failed to add token to revocation set: %w", err)
	}
	return nil
}

func (r *redisRevocationList) IsRevoked(ctx context.Context, token string) (bool, error) {
	revoked, err := r.client.SIsMember(ctx, revokedSetKey, hashToken(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation set: %w", err)
	}
	return revoked, nil
}

func (r *redisRevocationList) Size(ctx context.Context) (int64, error) {
	size, err := r.client.SCard(ctx, revokedSetKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read revocation set size: %w", err)
	}
	return size, nil
}

// hashToken keeps raw credentials out of Redis; only the digest is stored
// and compared.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
