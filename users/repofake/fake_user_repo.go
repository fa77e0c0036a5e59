package fakeuserrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "github.com/mpigajesse/yoozak-backoffice/internal/errors"
	"github.com/mpigajesse/yoozak-backoffice/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users     map[int64]*users.User
	usernames map[string]int64 // username to user id
	nextID    int64
	lock      sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:     make(map[int64]*users.User),
		usernames: make(map[string]int64),
		nextID:    1,
	}
}

func (ur *FakeUserRepo) Create(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, ok := ur.usernames[user.Username]; ok {
		return apperrors.ErrConflict
	}
	if user.ID == 0 {
		user.ID = ur.nextID
		ur.nextID++
	} else if user.ID >= ur.nextID {
		ur.nextID = user.ID + 1
	}
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now()
	}
	cp := *user
	ur.users[cp.ID] = &cp
	ur.usernames[cp.Username] = cp.ID
	return nil
}

func (ur *FakeUserRepo) Update(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	existing, ok := ur.users[user.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	delete(ur.usernames, existing.Username)
	cp := *user
	ur.users[cp.ID] = &cp
	ur.usernames[cp.Username] = cp.ID
	return nil
}

func (ur *FakeUserRepo) Delete(_ context.Context, id int64) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	delete(ur.usernames, user.Username)
	delete(ur.users, id)
	return nil
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id int64) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (ur *FakeUserRepo) GetByUsername(_ context.Context, username string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.usernames[username]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *ur.users[id]
	return &cp, nil
}

func (ur *FakeUserRepo) List(_ context.Context, offset, limit int) (users.UsersListResponse, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userList := make([]*users.User, 0, len(ur.users))
	for _, v := range ur.users {
		cp := *v
		userList = append(userList, &cp)
	}

	sort.Slice(userList, func(i, j int) bool {
		return userList[i].ID < userList[j].ID
	})

	total := len(userList)
	if offset >= total {
		return users.UsersListResponse{Total: total, Offset: offset, Limit: limit}, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}

	return users.UsersListResponse{
		Users:  userList[offset:end],
		Total:  total,
		Offset: offset,
		Limit:  limit,
	}, nil
}

func (ur *FakeUserRepo) SetLastLogin(_ context.Context, id int64, at time.Time) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.LastLogin = &at
	return nil
}
