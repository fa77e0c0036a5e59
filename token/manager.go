package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mpigajesse/yoozak-backoffice/internal/config"
	apperrors "github.com/mpigajesse/yoozak-backoffice/internal/errors"
	"github.com/mpigajesse/yoozak-backoffice/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const accessTokenType = "access"

// Claims carried by an access token. The custom fields mirror what the
// upstream login endpoint stuffs into its JWTs so the dashboard can keep
// decoding them.
type Claims struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
	TokenType   string `json:"token_type"`
	jwtlib.RegisteredClaims
}

// Manager creates and verifies HMAC-signed access tokens.
type Manager struct {
	secret []byte
	expiry time.Duration
}

func NewManager(cfg config.AuthConfig) *Manager {
	return &Manager{
		secret: []byte(cfg.GetJWTSecret()),
		expiry: cfg.GetAccessTokenExpiry(),
	}
}

// CreateAccessToken mints a signed access token for the user.
func (m *Manager) CreateAccessToken(user *users.User) (string, error) {
	now := NowTimeFunc()
	claims := Claims{
		UserID:      user.ID,
		Username:    user.Username,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		TokenType:   accessTokenType,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(m.expiry)),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, "[Manager.CreateAccessToken] sign")
	}
	return signed, nil
}

// Verify parses and validates an access token, returning its claims.
func (m *Manager) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwtlib.ParseWithClaims(raw, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidToken
		}
		return m.secret, nil
	}, jwtlib.WithTimeFunc(func() time.Time { return NowTimeFunc() }))
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}
	if !parsed.Valid || claims.TokenType != accessTokenType {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
