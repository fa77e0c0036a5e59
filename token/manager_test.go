package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/mpigajesse/yoozak-backoffice/internal/errors"
	"github.com/mpigajesse/yoozak-backoffice/token"
	"github.com/mpigajesse/yoozak-backoffice/users"
)

type stubAuthConfig struct {
	secret        string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func (c stubAuthConfig) GetJWTSecret() string                 { return c.secret }
func (c stubAuthConfig) GetAccessTokenExpiry() time.Duration  { return c.accessExpiry }
func (c stubAuthConfig) GetRefreshTokenExpiry() time.Duration { return c.refreshExpiry }
func (c stubAuthConfig) GetRefreshTokenLength() int           { return 32 }
func (c stubAuthConfig) GetBootstrapAdminUsername() string    { return "admin" }
func (c stubAuthConfig) GetBootstrapAdminPassword() string    { return "" }

type testFixture struct {
	manager *token.Manager
	user    *users.User
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()
	cfg := stubAuthConfig{
		secret:       "test-secret",
		accessExpiry: 30 * time.Minute,
	}
	return &testFixture{
		manager: token.NewManager(cfg),
		user: &users.User{
			ID:          7,
			Username:    "ana",
			IsStaff:     true,
			IsSuperuser: false,
			IsActive:    true,
		},
	}
}

func TestCreateAndVerifyAccessToken(t *testing.T) {
	f := newTestFixture(t)

	signed, err := f.manager.CreateAccessToken(f.user)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := f.manager.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, int64(7), claims.UserID)
	require.Equal(t, "ana", claims.Username)
	require.True(t, claims.IsStaff)
	require.False(t, claims.IsSuperuser)
	require.Equal(t, "access", claims.TokenType)
	require.NotEmpty(t, claims.ID)
}

func TestVerifyExpiredToken(t *testing.T) {
	f := newTestFixture(t)

	originalNow := token.NowTimeFunc
	defer func() { token.NowTimeFunc = originalNow }()

	issuedAt := time.Now().Add(-2 * time.Hour)
	token.NowTimeFunc = func() time.Time { return issuedAt }

	signed, err := f.manager.CreateAccessToken(f.user)
	require.NoError(t, err)

	token.NowTimeFunc = time.Now
	_, err = f.manager.Verify(signed)
	require.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestVerifyTamperedToken(t *testing.T) {
	f := newTestFixture(t)

	signed, err := f.manager.CreateAccessToken(f.user)
	require.NoError(t, err)

	_, err = f.manager.Verify(signed + "x")
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	f := newTestFixture(t)

	signed, err := f.manager.CreateAccessToken(f.user)
	require.NoError(t, err)

	other := token.NewManager(stubAuthConfig{secret: "another-secret", accessExpiry: 30 * time.Minute})
	_, err = other.Verify(signed)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	f := newTestFixture(t)

	_, err := f.manager.Verify("not-a-jwt")
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
