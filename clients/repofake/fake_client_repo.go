package fakeclientrepo

import (
	"context"
	"sync"

	"github.com/mpigajesse/yoozak-backoffice/clients"
	apperrors "github.com/mpigajesse/yoozak-backoffice/internal/errors"
)

var _ clients.Repo = (*FakeClientRepo)(nil)

type FakeClientRepo struct {
	byID     map[int64]*clients.Client
	byUserID map[int64]int64
	nextID   int64
	lock     sync.RWMutex
}

func NewFakeClientRepo() *FakeClientRepo {
	return &FakeClientRepo{
		byID:     make(map[int64]*clients.Client),
		byUserID: make(map[int64]int64),
		nextID:   1,
	}
}

func (cr *FakeClientRepo) Upsert(_ context.Context, client *clients.Client) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	if client.ID == 0 {
		client.ID = cr.nextID
		cr.nextID++
	} else if client.ID >= cr.nextID {
		cr.nextID = client.ID + 1
	}
	cp := *client
	cr.byID[cp.ID] = &cp
	cr.byUserID[cp.UserID] = cp.ID
	return nil
}

func (cr *FakeClientRepo) Delete(_ context.Context, id int64) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	client, ok := cr.byID[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	delete(cr.byUserID, client.UserID)
	delete(cr.byID, id)
	return nil
}

func (cr *FakeClientRepo) GetByUserID(_ context.Context, userID int64) (*clients.Client, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	id, ok := cr.byUserID[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *cr.byID[id]
	return &cp, nil
}
