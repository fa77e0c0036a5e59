package refresh

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/mpigajesse/yoozak-backoffice/internal/config"
	apperrors "github.com/mpigajesse/yoozak-backoffice/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Manager handles refresh token creation and validation. A successful
// refresh mints a new access token only; the refresh token itself is
// retained until it expires or the user logs in again.
type Manager struct {
	repo   Repo
	config config.AuthConfig
}

// NewManager creates a new refresh token manager
func NewManager(repo Repo, cfg config.AuthConfig) *Manager {
	return &Manager{
		repo:   repo,
		config: cfg,
	}
}

// Create generates a new refresh token for the user and stores it. Any
// previous refresh token for the same user is dropped (single token per user).
func (m *Manager) Create(ctx context.Context, userID int64) (string, error) {
	if existingToken, err := m.repo.GetByUserID(ctx, userID); err == nil && existingToken != nil {
		if err := m.repo.Delete(ctx, existingToken.Token); err != nil {
			return "", fmt.Errorf("failed to delete existing refresh token: %w", err)
		}
	}

	tokenBytes := make([]byte, m.config.GetRefreshTokenLength())
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	tokenStr := hex.EncodeToString(tokenBytes)
	if err := m.repo.Upsert(ctx, &StoredRefreshToken{
		Token:  tokenStr,
		UserID: userID,
		Iat:    NowTimeFunc(),
	}); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return tokenStr, nil
}

// Validate looks up a refresh token and checks that it has not expired.
func (m *Manager) Validate(ctx context.Context, token string) (*StoredRefreshToken, error) {
	stored, err := m.repo.Get(ctx, token)
	if err != nil || stored == nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}
	if NowTimeFunc().Sub(stored.Iat) > m.config.GetRefreshTokenExpiry() {
		_ = m.repo.Delete(ctx, token)
		return nil, apperrors.ErrRefreshTokenExpired
	}
	return stored, nil
}

// Delete removes a refresh token from storage
func (m *Manager) Delete(ctx context.Context, token string) error {
	return m.repo.Delete(ctx, token)
}
