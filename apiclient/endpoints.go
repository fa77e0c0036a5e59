package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// API endpoint paths. These mirror the backend routes exactly.
const (
	PathLogin         = "/api/users/auth/login/"
	PathRefresh       = "/api/users/auth/refresh/"
	PathVerify        = "/api/token/verify/"
	PathProfile       = "/api/users/profile/"
	PathProfileUpdate = "/api/users/profile/update/"
	PathCurrentUser   = "/api/users/current/"
	PathUsers         = "/api/users/"
)

// TokenPair is the login response: both tokens plus the raw user payload,
// left undecoded so the session layer can run its own normalization.
type TokenPair struct {
	Access  string          `json:"access"`
	Refresh string          `json:"refresh"`
	User    json.RawMessage `json:"user"`
}

// Login exchanges credentials for a token pair. Not an authenticated call:
// a 401 here means bad credentials, not an expired session.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	var pair TokenPair
	err := c.do(ctx, http.MethodPost, PathLogin, map[string]string{
		"username": username,
		"password": password,
	}, false, &pair)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// Refresh mints a new access token. The refresh call itself never triggers
// the reauth protocol.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var resp struct {
		Access string `json:"access"`
	}
	err := c.do(ctx, http.MethodPost, PathRefresh, map[string]string{
		"refresh": refreshToken,
	}, false, &resp)
	if err != nil {
		return "", err
	}
	return resp.Access, nil
}

// Verify checks an access token against the backend without side effects.
func (c *Client) Verify(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, PathVerify, map[string]string{"token": token}, false, nil)
}

// Profile fetches the authenticated account's raw profile payload, which may
// be in either the admin or the customer shape.
func (c *Client) Profile(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, PathProfile, nil, true, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// CurrentUser fetches the raw profile of whoever holds the token, customer
// accounts included.
func (c *Client) CurrentUser(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, PathCurrentUser, nil, true, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// UpdateProfile applies a partial update with backend field names and
// returns the updated raw profile payload.
func (c *Client) UpdateProfile(ctx context.Context, fields map[string]any) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPatch, PathProfileUpdate, fields, true, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// UsersPage is one page of the admin user list.
type UsersPage struct {
	Count    int               `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []json.RawMessage `json:"results"`
}

// Users fetches a page of admin user records.
func (c *Client) Users(ctx context.Context, page, pageSize int) (*UsersPage, error) {
	path := PathUsers
	if page > 0 {
		path = fmt.Sprintf("%s?page=%d&page_size=%d", PathUsers, page, pageSize)
	}
	var resp UsersPage
	if err := c.do(ctx, http.MethodGet, path, nil, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
