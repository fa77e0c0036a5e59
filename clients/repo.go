package clients

import "context"

type Repo interface {
	Upsert(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id int64) error
	GetByUserID(ctx context.Context, userID int64) (*Client, error)
}
