package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpigajesse/yoozak-backoffice/apiclient"
)

// fakeSession is a scriptable SessionHooks implementation.
type fakeSession struct {
	token          atomic.Value
	refreshResult  bool
	refreshedToken string
	refreshCalls   int32
	expiredCalls   int32
}

func newFakeSession(token string) *fakeSession {
	fs := &fakeSession{}
	fs.token.Store(token)
	return fs
}

func (fs *fakeSession) AccessToken() string {
	return fs.token.Load().(string)
}

func (fs *fakeSession) RefreshAuthToken(_ context.Context) bool {
	atomic.AddInt32(&fs.refreshCalls, 1)
	if fs.refreshResult {
		fs.token.Store(fs.refreshedToken)
	}
	return fs.refreshResult
}

func (fs *fakeSession) SessionExpired() {
	atomic.AddInt32(&fs.expiredCalls, 1)
}

func TestSingleRetryAfter401(t *testing.T) {
	var requests int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		if r.Header.Get("Authorization") != "Bearer fresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 1, "username": "ana", "is_staff": true}`))
	}))
	defer backend.Close()

	session := newFakeSession("stale-token")
	session.refreshResult = true
	session.refreshedToken = "fresh-token"

	client := apiclient.New(backend.URL)
	client.BindSession(session)

	raw, err := client.Profile(context.Background())
	require.NoError(t, err)
	require.NotNil(t, raw)
	require.Equal(t, int32(2), atomic.LoadInt32(&requests), "original request plus exactly one replay")
	require.Equal(t, int32(1), atomic.LoadInt32(&session.refreshCalls))
	require.Equal(t, int32(0), atomic.LoadInt32(&session.expiredCalls))
}

func TestSecond401DoesNotLoop(t *testing.T) {
	var requests int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer backend.Close()

	session := newFakeSession("stale-token")
	session.refreshResult = true
	session.refreshedToken = "still-rejected"

	client := apiclient.New(backend.URL)
	client.BindSession(session)

	_, err := client.Profile(context.Background())
	require.Error(t, err)
	require.True(t, apiclient.IsStatus(err, http.StatusUnauthorized))
	require.Equal(t, int32(2), atomic.LoadInt32(&requests), "no second retry after the replayed request fails")
	require.Equal(t, int32(1), atomic.LoadInt32(&session.refreshCalls), "no second refresh attempt")
	require.Equal(t, int32(1), atomic.LoadInt32(&session.expiredCalls))
}

func TestFailedRefreshExpiresSession(t *testing.T) {
	var requests int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer backend.Close()

	session := newFakeSession("stale-token")
	session.refreshResult = false

	client := apiclient.New(backend.URL)
	client.BindSession(session)

	_, err := client.Profile(context.Background())
	require.Error(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&requests), "no replay when the refresh itself fails")
	require.Equal(t, int32(1), atomic.LoadInt32(&session.expiredCalls))
}

func TestUnauthenticatedCallsNeverReauth(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Invalid credentials"}`))
	}))
	defer backend.Close()

	session := newFakeSession("whatever")
	session.refreshResult = true

	client := apiclient.New(backend.URL)
	client.BindSession(session)

	_, err := client.Login(context.Background(), "ana", "wrong")
	require.Error(t, err)
	require.Equal(t, int32(0), atomic.LoadInt32(&session.refreshCalls), "login 401 means bad credentials, not an expired session")
	require.Equal(t, int32(0), atomic.LoadInt32(&session.expiredCalls))

	_, err = client.Refresh(context.Background(), "dead-token")
	require.Error(t, err)
	require.Equal(t, int32(0), atomic.LoadInt32(&session.refreshCalls))
}

func TestAPIErrorCarriesDetail(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail": "Access restricted to staff accounts"}`))
	}))
	defer backend.Close()

	client := apiclient.New(backend.URL)

	_, err := client.Login(context.Background(), "customer", "secret123")
	require.Error(t, err)
	apiErr, ok := err.(*apiclient.APIError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	require.Equal(t, "Access restricted to staff accounts", apiErr.Detail)
}

func TestLoginDecodesTokenPair(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, apiclient.PathLogin, r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "ana", body["username"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access": "a1", "refresh": "r1", "user": {"id": 1, "username": "ana", "is_staff": true}}`))
	}))
	defer backend.Close()

	client := apiclient.New(backend.URL)
	pair, err := client.Login(context.Background(), "ana", "secret123")
	require.NoError(t, err)
	require.Equal(t, "a1", pair.Access)
	require.Equal(t, "r1", pair.Refresh)
	require.NotEmpty(t, pair.User)
}
