package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mpigajesse/yoozak-backoffice/apiclient"
)

var _ apiclient.SessionHooks = (*Store)(nil)

// Store is the single source of truth for authentication state: tokens, the
// normalized current user, and transient loading/error flags. All operations
// mutate state atomically per completed step; callers observe state rather
// than catching errors from Login and Logout.
type Store struct {
	api    *apiclient.Client
	repo   Repo
	logger zerolog.Logger

	// called when the session is beyond saving (refresh failed or the
	// retried request was rejected again); the UI redirects to login here
	expiryHandler func()

	mu            sync.Mutex
	accessToken   string
	refreshToken  string
	currentUser   *User
	authenticated bool
	loading       bool
	lastErr       string
}

type Option func(*Store)

// WithExpiryHandler sets the callback invoked when the session is forcibly
// cleared by the reauth protocol.
func WithExpiryHandler(handler func()) Option {
	return func(s *Store) { s.expiryHandler = handler }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New builds a session store, rehydrates any persisted snapshot, and binds
// itself to the API client's reauth hooks.
func New(api *apiclient.Client, repo Repo, opts ...Option) *Store {
	s := &Store{
		api:    api,
		repo:   repo,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if snapshot, err := repo.Load(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to load persisted session")
	} else if snapshot != nil {
		s.accessToken = snapshot.AccessToken
		s.refreshToken = snapshot.RefreshToken
		s.currentUser = snapshot.CurrentUser
		s.authenticated = snapshot.AccessToken != "" && snapshot.CurrentUser != nil
	}

	api.BindSession(s)
	return s
}

// Login exchanges credentials for tokens and fetches the user profile. It
// never returns an error: failures are recorded in the store's state and
// reported through the boolean.
func (s *Store) Login(ctx context.Context, username, password string) bool {
	s.setLoading(true)
	defer s.setLoading(false)

	pair, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.mu.Lock()
		s.currentUser = nil
		s.authenticated = false
		s.lastErr = loginErrorMessage(err)
		s.mu.Unlock()
		return false
	}

	s.mu.Lock()
	s.accessToken = pair.Access
	s.refreshToken = pair.Refresh
	s.authenticated = true // optimistic, demoted below if the profile fetch fails
	s.lastErr = ""
	s.mu.Unlock()
	s.persist()

	if _, err := s.GetUserInfo(ctx); err != nil {
		// Token exchange worked but the profile is unusable. The session is
		// demoted; tokens are retained so the failure can be retried.
		s.mu.Lock()
		s.authenticated = false
		s.lastErr = "account profile unavailable or insufficient permissions"
		s.mu.Unlock()
		return false
	}
	return true
}

// Logout clears all session state. The backend holds no server-side session
// for the dashboard, so this is purely local and always succeeds; calling it
// while logged out is a no-op.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.accessToken = ""
	s.refreshToken = ""
	s.currentUser = nil
	s.authenticated = false
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.repo.Clear(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear persisted session")
	}
}

// GetUserInfo fetches and normalizes the current profile, updating
// currentUser and marking the session authenticated on success.
func (s *Store) GetUserInfo(ctx context.Context) (*User, error) {
	raw, err := s.api.Profile(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		s.mu.Unlock()
		return nil, err
	}

	user, err := Normalize(raw)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.currentUser = user
	s.authenticated = true
	s.lastErr = ""
	s.mu.Unlock()
	s.persist()
	return user, nil
}

// UserUpdate is a partial profile update. Nil fields are left untouched.
type UserUpdate struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
}

// UpdateUserInfo applies a partial update, re-normalizes the response, and
// merges it into currentUser, keeping any fields the backend did not return.
func (s *Store) UpdateUserInfo(ctx context.Context, update UserUpdate) (*User, error) {
	fields := map[string]any{}
	if update.Username != nil {
		fields["username"] = *update.Username
	}
	if update.Email != nil {
		fields["email"] = *update.Email
	}
	if update.FirstName != nil {
		fields["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		fields["last_name"] = *update.LastName
	}
	if update.Password != nil {
		fields["password"] = *update.Password
	}

	raw, err := s.api.UpdateProfile(ctx, fields)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		s.mu.Unlock()
		return nil, err
	}

	fresh, err := Normalize(raw)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.currentUser = mergeUser(s.currentUser, fresh)
	s.lastErr = ""
	merged := *s.currentUser
	s.mu.Unlock()
	s.persist()
	return &merged, nil
}

// RefreshAuthToken mints a new access token from the stored refresh token.
// Only the access token changes; on any failure the store is left untouched
// and false is returned. With no refresh token held, no network call is made.
func (s *Store) RefreshAuthToken(ctx context.Context) bool {
	s.mu.Lock()
	refreshToken := s.refreshToken
	s.mu.Unlock()
	if refreshToken == "" {
		return false
	}

	access, err := s.api.Refresh(ctx, refreshToken)
	if err != nil {
		return false
	}

	s.mu.Lock()
	s.accessToken = access
	s.mu.Unlock()
	s.persist()
	return true
}

// CheckAuth verifies the current access token against the backend. Pure
// read: no session state changes either way.
func (s *Store) CheckAuth(ctx context.Context) bool {
	s.mu.Lock()
	accessToken := s.accessToken
	s.mu.Unlock()
	if accessToken == "" {
		return false
	}
	return s.api.Verify(ctx, accessToken) == nil
}

// AccessToken returns the current bearer token for outgoing requests.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// SessionExpired is invoked by the API client when the reauth protocol gives
// up. The session is cleared and the expiry handler redirects to login.
func (s *Store) SessionExpired() {
	s.Logout(context.Background())
	if s.expiryHandler != nil {
		s.expiryHandler()
	}
}

// IsAuthenticated reports whether a token and a fetched user are both held.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// CurrentUser returns a copy of the normalized current user, or nil.
func (s *Store) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentUser == nil {
		return nil
	}
	cp := *s.currentUser
	return &cp
}

// LastError returns the most recent human-readable error message.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// IsLoading reports whether a login is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

func (s *Store) persist() {
	s.mu.Lock()
	snapshot := Snapshot{
		AccessToken:  s.accessToken,
		RefreshToken: s.refreshToken,
		CurrentUser:  s.currentUser,
	}
	s.mu.Unlock()

	if err := s.repo.Save(&snapshot); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist session")
	}
}

// mergeUser overlays fresh onto current, keeping current's values for
// collections the backend response left empty.
func mergeUser(current, fresh *User) *User {
	if current == nil {
		return fresh
	}
	merged := *fresh
	if len(merged.Groups) == 0 {
		merged.Groups = current.Groups
	}
	if len(merged.Permissions) == 0 {
		merged.Permissions = current.Permissions
	}
	if merged.DateJoined == "" {
		merged.DateJoined = current.DateJoined
	}
	if merged.LastLogin == "" {
		merged.LastLogin = current.LastLogin
	}
	return &merged
}

func loginErrorMessage(err error) string {
	if apiclient.IsStatus(err, 401) || apiclient.IsStatus(err, 400) {
		return "invalid username or password"
	}
	if apiclient.IsStatus(err, 403) {
		return "account is not authorized for the back office"
	}
	return "login failed: " + err.Error()
}
