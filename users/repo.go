package users

import (
	"context"
	"time"
)

// UsersListResponse is a page of users plus paging metadata.
type UsersListResponse struct {
	Users  []*User
	Total  int
	Offset int
	Limit  int
}

type UserRepo interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, offset, limit int) (UsersListResponse, error)
	SetLastLogin(ctx context.Context, id int64, at time.Time) error
}
