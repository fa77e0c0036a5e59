package redisrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mpigajesse/yoozak-backoffice/internal/config"
	apperrors "github.com/mpigajesse/yoozak-backoffice/internal/errors"
	"github.com/mpigajesse/yoozak-backoffice/token/refresh"
)

var _ refresh.Repo = (*Repo)(nil)

const (
	tokenKeyPrefix = "refresh:"
	userKeyPrefix  = "refresh:user:"
)

// Repo stores refresh token metadata in Redis. Entries carry a TTL matching
// the configured refresh expiry so stale tokens evict themselves.
type Repo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRepo(client *redis.Client, cfg config.AuthConfig) *Repo {
	return &Repo{client: client, ttl: cfg.GetRefreshTokenExpiry()}
}

func tokenKey(token string) string { return tokenKeyPrefix + token }
func userKey(userID int64) string  { return fmt.Sprintf("%s%d", userKeyPrefix, userID) }

func (r *Repo) Upsert(ctx context.Context, rt *refresh.StoredRefreshToken) error {
	payload, err := json.Marshal(rt)
	if err != nil {
		return fmt.Errorf("marshal refresh token: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, tokenKey(rt.Token), payload, r.ttl)
	pipe.Set(ctx, userKey(rt.UserID), rt.Token, r.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Repo) Delete(ctx context.Context, token string) error {
	rt, err := r.Get(ctx, token)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, tokenKey(token))
	pipe.Del(ctx, userKey(rt.UserID))
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Repo) Get(ctx context.Context, token string) (*refresh.StoredRefreshToken, error) {
	raw, err := r.client.Get(ctx, tokenKey(token)).Bytes()
	if err == redis.Nil {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rt refresh.StoredRefreshToken
	if err := json.Unmarshal(raw, &rt); err != nil {
		return nil, fmt.Errorf("unmarshal refresh token: %w", err)
	}
	return &rt, nil
}

func (r *Repo) GetByUserID(ctx context.Context, userID int64) (*refresh.StoredRefreshToken, error) {
	token, err := r.client.Get(ctx, userKey(userID)).Result()
	if err == redis.Nil {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, token)
}
