package refreshrepofake

import (
	"context"
	"sync"

	apperrors "github.com/mpigajesse/yoozak-backoffice/internal/errors"
	"github.com/mpigajesse/yoozak-backoffice/token/refresh"
)

var _ refresh.Repo = (*FakeRefreshTokenRepo)(nil)

type FakeRefreshTokenRepo struct {
	tokens map[string]*refresh.StoredRefreshToken
	byUser map[int64]string
	lock   sync.RWMutex
}

func NewFakeRefreshTokenRepo() *FakeRefreshTokenRepo {
	return &FakeRefreshTokenRepo{
		tokens: make(map[string]*refresh.StoredRefreshToken),
		byUser: make(map[int64]string),
	}
}

func (rr *FakeRefreshTokenRepo) Upsert(_ context.Context, rt *refresh.StoredRefreshToken) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	cp := *rt
	rr.tokens[cp.Token] = &cp
	rr.byUser[cp.UserID] = cp.Token
	return nil
}

func (rr *FakeRefreshTokenRepo) Delete(_ context.Context, token string) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	rt, ok := rr.tokens[token]
	if !ok {
		return apperrors.ErrNotFound
	}
	delete(rr.byUser, rt.UserID)
	delete(rr.tokens, token)
	return nil
}

func (rr *FakeRefreshTokenRepo) Get(_ context.Context, token string) (*refresh.StoredRefreshToken, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	rt, ok := rr.tokens[token]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *rt
	return &cp, nil
}

func (rr *FakeRefreshTokenRepo) GetByUserID(_ context.Context, userID int64) (*refresh.StoredRefreshToken, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	token, ok := rr.byUser[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *rr.tokens[token]
	return &cp, nil
}
