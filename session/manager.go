package session

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-study-client/api"
)

// expirySkew is how close to expiry an access token may get before EnsureFresh
// refreshes it proactively.
const expirySkew = 30 * time.Second

// Manager is the single source of truth for "who is logged in". One instance
// is constructed at startup and injected into everything that needs it; it
// lives for the process lifetime. It implements api.TokenSource so the request
// client attaches the bearer token centrally.
type Manager struct {
	client  *api.Client
	store   Store
	log     zerolog.Logger
	nowTime func() time.Time // injectable for testing

	mu      sync.RWMutex
	session Session
}

var _ api.TokenSource = (*Manager)(nil)

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = logger
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// NewManager initializes a Manager with required dependencies. Wire the
// returned manager back into the client with client.SetTokenSource.
func NewManager(client *api.Client, store Store, options ...ManagerOption) (*Manager, error) {
	if client == nil {
		return nil, errors.New("[NewManager] api client is required")
	}
	if store == nil {
		return nil, errors.New("[NewManager] store is required")
	}

	manager := &Manager{
		client:  client,
		store:   store,
		log:     zerolog.Nop(),
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(manager)
	}

	return manager, nil
}

// Restore rebuilds the session from persisted storage and validates it with a
// token refresh. Restoration is all-or-nothing: a stored record missing either
// the access token or the user profile starts Anonymous. A refresh rejected by
// the backend wipes the session; a transport failure leaves the restored state
// untouched (an unreachable backend must not log the user out).
//
// Restore never returns an error: background validation failure is routine,
// not exceptional, and is only logged.
func (m *Manager) Restore(ctx context.Context) {
	accessToken, err := m.store.Get(KeyAccessToken)
	if err != nil || accessToken == "" {
		return
	}
	userRaw, err := m.store.Get(KeyUser)
	if err != nil || userRaw == "" {
		return
	}

	var user api.User
	if err := json.Unmarshal([]byte(userRaw), &user); err != nil {
		m.log.Warn().Err(err).Msg("stored user record is corrupt, starting anonymous")
		if wipeErr := m.wipe(); wipeErr != nil {
			m.log.Warn().Err(wipeErr).Msg("failed to clear corrupt session record")
		}
		return
	}

	refreshToken, err := m.store.Get(KeyRefreshToken)
	if err != nil && !errors.Is(err, ErrKeyNotFound) {
		m.log.Warn().Err(err).Msg("failed to read stored refresh token")
	}

	m.mu.Lock()
	m.session = Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         &user,
	}
	m.mu.Unlock()

	if err := m.RefreshAccessToken(ctx); err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.IsAuthFailure() {
			m.log.Info().Msg("stored session rejected by backend, starting anonymous")
			return
		}
		m.log.Warn().Err(err).Msg("session validation failed transiently, keeping stored session")
	}
}

// Login exchanges credentials for a session. On failure the session is left
// untouched and the backend's error propagates to the caller.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	tokenResponse, err := m.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	return m.adopt(tokenResponse)
}

// Register creates an account and logs in, with the same contract as Login.
func (m *Manager) Register(ctx context.Context, fullName, username, email, password string) error {
	tokenResponse, err := m.client.Register(ctx, api.RegisterRequest{
		FullName: fullName,
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}
	return m.adopt(tokenResponse)
}

// RefreshAccessToken obtains a new access token using the stored refresh
// token. With no refresh token present it is a no-op. On success only the
// access token changes: the refresh token is longer-lived and never reissued
// here, and the user profile is untouched. A 401/403 from the refresh endpoint
// is an authoritative "session is dead" signal and wipes local state before
// the error is returned.
func (m *Manager) RefreshAccessToken(ctx context.Context) error {
	m.mu.RLock()
	refreshToken := m.session.RefreshToken
	m.mu.RUnlock()

	if refreshToken == "" {
		return nil
	}

	accessToken, err := m.client.Refresh(ctx, refreshToken)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.IsAuthFailure() {
			if wipeErr := m.wipe(); wipeErr != nil {
				m.log.Warn().Err(wipeErr).Msg("failed to clear rejected session")
			}
		}
		return errors.Wrap(err, "[Manager.RefreshAccessToken]")
	}

	if err := m.store.Set(KeyAccessToken, accessToken); err != nil {
		return errors.Wrap(err, "[Manager.RefreshAccessToken] persist access token")
	}

	m.mu.Lock()
	m.session.AccessToken = accessToken
	m.mu.Unlock()
	return nil
}

// EnsureFresh refreshes the access token when it is expired or within
// expirySkew of expiring. Anonymous sessions and opaque tokens are left alone.
func (m *Manager) EnsureFresh(ctx context.Context) error {
	m.mu.RLock()
	accessToken := m.session.AccessToken
	m.mu.RUnlock()

	if accessToken == "" || !m.nearExpiry(accessToken) {
		return nil
	}
	return m.RefreshAccessToken(ctx)
}

// Logout invalidates the session server-side on a best-effort basis and always
// clears local state, whether or not the network call succeeds. Navigation is
// the caller's concern.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.RLock()
	accessToken := m.session.AccessToken
	m.mu.RUnlock()

	if accessToken != "" {
		if err := m.client.Logout(ctx, accessToken); err != nil {
			m.log.Warn().Err(err).Msg("server-side logout failed, clearing local session anyway")
		}
	}
	return m.wipe()
}

// OAuthAuthorizeURL builds the provider redirect URL that starts an OAuth login.
func (m *Manager) OAuthAuthorizeURL(provider, redirectURI string) string {
	return m.client.OAuthAuthorizeURL(provider, redirectURI)
}

// CompleteOAuth consumes the OAuth callback query parameters (access_token and
// refresh_token), fetches the user's profile and persists the session.
func (m *Manager) CompleteOAuth(ctx context.Context, query url.Values) error {
	accessToken := query.Get(KeyAccessToken)
	refreshToken := query.Get(KeyRefreshToken)
	if accessToken == "" {
		return errors.New("[Manager.CompleteOAuth] callback is missing access_token")
	}

	// The profile fetch needs the new token attached, so stage the tokens
	// before the session has a user. Rolled back if the fetch fails.
	m.mu.Lock()
	m.session = Session{AccessToken: accessToken, RefreshToken: refreshToken}
	m.mu.Unlock()

	user, err := m.client.Me(ctx)
	if err != nil {
		m.mu.Lock()
		m.session = Session{}
		m.mu.Unlock()
		return errors.Wrap(err, "[Manager.CompleteOAuth] fetch profile")
	}

	return m.adopt(&api.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	})
}

// IsAuthenticated reports whether a user is logged in.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.IsAuthenticated()
}

// Current returns a snapshot of the session.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := m.session
	if m.session.User != nil {
		user := *m.session.User
		snapshot.User = &user
	}
	return snapshot
}

// User returns a copy of the logged-in user's profile, or nil when anonymous.
func (m *Manager) User() *api.User {
	return m.Current().User
}

// AccessToken implements api.TokenSource.
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.AccessToken
}

// adopt installs a full token response as the new session, persisting
// write-through before the in-memory state changes.
func (m *Manager) adopt(tokenResponse *api.TokenResponse) error {
	if tokenResponse.User == nil || tokenResponse.AccessToken == "" {
		return errors.New("[Manager.adopt] token response is missing user or access token")
	}

	userRaw, err := json.Marshal(tokenResponse.User)
	if err != nil {
		return errors.Wrap(err, "[Manager.adopt] encode user")
	}
	if err := m.store.Set(KeyAccessToken, tokenResponse.AccessToken); err != nil {
		return errors.Wrap(err, "[Manager.adopt] persist access token")
	}
	if err := m.store.Set(KeyRefreshToken, tokenResponse.RefreshToken); err != nil {
		return errors.Wrap(err, "[Manager.adopt] persist refresh token")
	}
	if err := m.store.Set(KeyUser, string(userRaw)); err != nil {
		return errors.Wrap(err, "[Manager.adopt] persist user")
	}

	m.mu.Lock()
	m.session = Session{
		AccessToken:  tokenResponse.AccessToken,
		RefreshToken: tokenResponse.RefreshToken,
		User:         tokenResponse.User,
	}
	m.mu.Unlock()
	return nil
}

// wipe clears the persisted record and the in-memory session.
func (m *Manager) wipe() error {
	err := m.store.Delete(KeyAccessToken, KeyRefreshToken, KeyUser)

	m.mu.Lock()
	m.session = Session{}
	m.mu.Unlock()

	if err != nil {
		return errors.Wrap(err, "[Manager.wipe] clear store")
	}
	return nil
}

// nearExpiry inspects the access token's exp claim without verifying the
// signature (verification is the backend's job). Tokens that do not parse as
// JWTs or carry no exp claim are treated as non-expiring.
func (m *Manager) nearExpiry(accessToken string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return false
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return false
	}
	return m.nowTime().Add(expirySkew).After(expiry.Time)
}
