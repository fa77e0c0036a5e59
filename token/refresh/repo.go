package refresh

import (
	"context"
	"time"
)

// StoredRefreshToken represents the server-side storage of refresh token
// metadata. The client only receives the Token field (a random string).
type StoredRefreshToken struct {
	Token  string    `json:"token"`
	UserID int64     `json:"user_id"`
	Iat    time.Time `json:"iat"`
}

// Repo manages server-side storage of refresh token metadata. Refresh tokens
// sent to clients are opaque random strings; this repo stores the associated
// metadata keyed by the token string.
type Repo interface {
	Upsert(ctx context.Context, refreshToken *StoredRefreshToken) error
	Delete(ctx context.Context, token string) error
	Get(ctx context.Context, token string) (*StoredRefreshToken, error)
	GetByUserID(ctx context.Context, userID int64) (*StoredRefreshToken, error)
}
