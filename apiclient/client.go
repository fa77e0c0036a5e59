package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// SessionHooks is the contract the client needs from a session holder: a
// current access token, a way to refresh it, and a way to signal that the
// session is beyond saving.
type SessionHooks interface {
	AccessToken() string
	RefreshAuthToken(ctx context.Context) bool
	SessionExpired()
}

// attemptState tracks where a request is in the single-retry reauth
// protocol. A request is retried at most once; the RETRIED state makes a
// second refresh attempt impossible by construction.
type attemptState int

const (
	firstAttempt attemptState = iota
	retried
)

// Client talks to the back-office REST API. Authenticated requests carry the
// session's bearer token; on a 401 the client refreshes the token once and
// replays the request, never more.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
	session    SessionHooks
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BindSession attaches the session holder whose token and refresh hooks
// authenticated requests use.
func (c *Client) BindSession(session SessionHooks) {
	c.session = session
}

// do issues a request and decodes the JSON response into out (when out is
// non-nil). Authenticated requests that hit a 401 go through one refresh and
// one replay; a second 401, or a failed refresh, expires the session.
func (c *Client) do(ctx context.Context, method, path string, body any, authenticated bool, out any) error {
	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "[Client.do] marshal request body")
		}
		payload = raw
	}

	state := firstAttempt
	for {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return errors.Wrap(err, "[Client.do] build request")
		}
		req.Header.Set("Content-Type", "application/json")
		if authenticated && c.session != nil {
			req.Header.Set("Authorization", "Bearer "+c.session.AccessToken())
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return errors.Wrap(err, "[Client.do] "+method+" "+path)
		}

		if resp.StatusCode == http.StatusUnauthorized && authenticated && c.session != nil {
			resp.Body.Close()

			if state == retried {
				// second 401 in a row, the refreshed token is no good either
				c.logger.Warn().Str("path", path).Msg("request failed again after token refresh")
				c.session.SessionExpired()
				return &APIError{StatusCode: http.StatusUnauthorized, Detail: "session expired"}
			}

			if !c.session.RefreshAuthToken(ctx) {
				c.session.SessionExpired()
				return &APIError{StatusCode: http.StatusUnauthorized, Detail: "session expired"}
			}

			state = retried
			continue
		}

		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return newAPIError(resp)
		}
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, "[Client.do] decode response")
		}
		return nil
	}
}
