package session_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-study-client/api"
	"github.com/jrsteele09/go-study-client/session"
	"github.com/jrsteele09/go-study-client/session/storefake"
)

const (
	testUsername     = "alice"
	testPassword     = "correct"
	testAccessToken  = "A1"
	testRefreshToken = "R1"
)

var testUser = api.User{
	ID:            1,
	Username:      testUsername,
	Email:         "alice@example.com",
	FullName:      "Alice Smith",
	EmailVerified: true,
}

// fakeBackend implements the auth endpoints the manager talks to.
type fakeBackend struct {
	mu            sync.Mutex
	loginToken    string // access token issued at login
	refreshReject bool   // refresh endpoint answers 401
	minted        int    // counter for refresh-issued tokens
	refreshCalls  int
	logoutCalls   int
}

func (fb *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Username != testUsername || creds.Password != testPassword {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
			return
		}
		fb.mu.Lock()
		loginToken := fb.loginToken
		fb.mu.Unlock()
		writeJSON(w, http.StatusOK, api.TokenResponse{
			AccessToken:  loginToken,
			RefreshToken: testRefreshToken,
			User:         &testUser,
		})
	})

	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req api.RegisterRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Username == testUsername {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "Username already taken"})
			return
		}
		user := testUser
		user.Username = req.Username
		user.Email = req.Email
		user.FullName = req.FullName
		writeJSON(w, http.StatusOK, api.TokenResponse{
			AccessToken:  testAccessToken,
			RefreshToken: testRefreshToken,
			User:         &user,
		})
	})

	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.refreshCalls++
		reject := fb.refreshReject
		fb.minted++
		minted := fb.minted
		fb.mu.Unlock()

		if bearer(r) != testRefreshToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid refresh token"})
			return
		}
		if reject {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Refresh token expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access_token": fmt.Sprintf("A%d", minted+1)})
	})

	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.logoutCalls++
		fb.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	})

	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if bearer(r) == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Missing token"})
			return
		}
		writeJSON(w, http.StatusOK, testUser)
	})

	return mux
}

func (fb *fakeBackend) setLoginToken(token string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.loginToken = token
}

func (fb *fakeBackend) setRefreshReject(reject bool) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.refreshReject = reject
}

func (fb *fakeBackend) refreshCount() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.refreshCalls
}

func (fb *fakeBackend) logoutCount() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.logoutCalls
}

func bearer(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type testFixture struct {
	backend *fakeBackend
	server  *httptest.Server
	store   *storefake.FakeStore
	client  *api.Client
	manager *session.Manager
}

func setupTestFixture(t *testing.T, options ...session.ManagerOption) *testFixture {
	t.Helper()

	backend := &fakeBackend{loginToken: testAccessToken}
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	store := storefake.NewFakeStore()
	client := api.New(server.URL)
	manager, err := session.NewManager(client, store, options...)
	require.NoError(t, err)
	client.SetTokenSource(manager)

	return &testFixture{
		backend: backend,
		server:  server,
		store:   store,
		client:  client,
		manager: manager,
	}
}

// requireInvariant asserts the all-or-nothing rule: a user is present exactly
// when an access token is.
func requireInvariant(t *testing.T, m *session.Manager) {
	t.Helper()
	current := m.Current()
	require.Equal(t, current.User != nil, current.AccessToken != "")
}

func (f *testFixture) seedStore(t *testing.T, accessToken, refreshToken string, user *api.User) {
	t.Helper()
	if accessToken != "" {
		require.NoError(t, f.store.Set(session.KeyAccessToken, accessToken))
	}
	if refreshToken != "" {
		require.NoError(t, f.store.Set(session.KeyRefreshToken, refreshToken))
	}
	if user != nil {
		raw, err := json.Marshal(user)
		require.NoError(t, err)
		require.NoError(t, f.store.Set(session.KeyUser, string(raw)))
	}
}

func TestNewManagerRequiresDependencies(t *testing.T) {
	_, err := session.NewManager(nil, storefake.NewFakeStore())
	require.Error(t, err)

	_, err = session.NewManager(api.New("http://localhost:8000"), nil)
	require.Error(t, err)
}

func TestLoginSuccessPersistsSession(t *testing.T) {
	f := setupTestFixture(t)

	require.NoError(t, f.manager.Login(context.Background(), testUsername, testPassword))
	require.True(t, f.manager.IsAuthenticated())
	requireInvariant(t, f.manager)

	current := f.manager.Current()
	require.Equal(t, testAccessToken, current.AccessToken)
	require.Equal(t, testRefreshToken, current.RefreshToken)
	require.Equal(t, testUser, *current.User)

	storedAccess, err := f.store.Get(session.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, testAccessToken, storedAccess)

	storedRefresh, err := f.store.Get(session.KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, testRefreshToken, storedRefresh)

	storedUser, err := f.store.Get(session.KeyUser)
	require.NoError(t, err)
	var user api.User
	require.NoError(t, json.Unmarshal([]byte(storedUser), &user))
	require.Equal(t, testUser, user)
}

func TestLoginRejectedLeavesAnonymous(t *testing.T) {
	f := setupTestFixture(t)

	err := f.manager.Login(context.Background(), testUsername, "wrong")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Invalid credentials", apiErr.Message)

	require.False(t, f.manager.IsAuthenticated())
	require.Zero(t, f.store.Len())
	requireInvariant(t, f.manager)
}

func TestRegisterDuplicateUsernameSurfacesValidationError(t *testing.T) {
	f := setupTestFixture(t)

	err := f.manager.Register(context.Background(), "Alice Smith", testUsername, "alice@example.com", testPassword)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)
	require.Equal(t, "Username already taken", apiErr.Message)
	require.False(t, f.manager.IsAuthenticated())
}

func TestRegisterSuccessLogsIn(t *testing.T) {
	f := setupTestFixture(t)

	require.NoError(t, f.manager.Register(context.Background(), "Bob Jones", "bob", "bob@example.com", "pw123"))
	require.True(t, f.manager.IsAuthenticated())
	require.Equal(t, "bob", f.manager.User().Username)
	requireInvariant(t, f.manager)
}

func TestLoginRefreshLogoutEndsAnonymous(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	require.NoError(t, f.manager.Login(ctx, testUsername, testPassword))
	require.NoError(t, f.manager.RefreshAccessToken(ctx))
	require.NoError(t, f.manager.Logout(ctx))

	require.False(t, f.manager.IsAuthenticated())
	require.Equal(t, session.Session{}, f.manager.Current())
	require.Zero(t, f.store.Len())
	require.Equal(t, 1, f.backend.logoutCount())
	requireInvariant(t, f.manager)
}

func TestRefreshWithoutTokenIsNoOp(t *testing.T) {
	f := setupTestFixture(t)

	require.NoError(t, f.manager.RefreshAccessToken(context.Background()))
	require.False(t, f.manager.IsAuthenticated())
	require.Zero(t, f.backend.refreshCount())
	require.Zero(t, f.store.Len())
}

func TestRefreshReplacesOnlyAccessToken(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	require.NoError(t, f.manager.Login(ctx, testUsername, testPassword))
	before := f.manager.Current()

	require.NoError(t, f.manager.RefreshAccessToken(ctx))
	after := f.manager.Current()

	require.NotEqual(t, before.AccessToken, after.AccessToken)
	require.Equal(t, before.RefreshToken, after.RefreshToken)
	require.Equal(t, *before.User, *after.User)

	storedAccess, err := f.store.Get(session.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, after.AccessToken, storedAccess)

	storedRefresh, err := f.store.Get(session.KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, testRefreshToken, storedRefresh)
}

func TestRestoreWithoutAccessTokenStartsAnonymous(t *testing.T) {
	f := setupTestFixture(t)

	// A refresh token and user alone are insufficient: restoration is
	// all-or-nothing.
	f.seedStore(t, "", testRefreshToken, &testUser)

	f.manager.Restore(context.Background())
	require.False(t, f.manager.IsAuthenticated())
	require.Zero(t, f.backend.refreshCount())
	requireInvariant(t, f.manager)
}

func TestRestoreWithoutUserStartsAnonymous(t *testing.T) {
	f := setupTestFixture(t)
	f.seedStore(t, testAccessToken, testRefreshToken, nil)

	f.manager.Restore(context.Background())
	require.False(t, f.manager.IsAuthenticated())
	require.Zero(t, f.backend.refreshCount())
}

func TestRestoreValidatesStoredSession(t *testing.T) {
	f := setupTestFixture(t)
	f.seedStore(t, testAccessToken, testRefreshToken, &testUser)

	f.manager.Restore(context.Background())

	require.True(t, f.manager.IsAuthenticated())
	requireInvariant(t, f.manager)
	require.Equal(t, 1, f.backend.refreshCount())

	current := f.manager.Current()
	require.NotEqual(t, testAccessToken, current.AccessToken)
	require.Equal(t, testRefreshToken, current.RefreshToken)
	require.Equal(t, testUser, *current.User)

	storedAccess, err := f.store.Get(session.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, current.AccessToken, storedAccess)
}

func TestRestoreRejectedRefreshWipesSession(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.setRefreshReject(true)
	f.seedStore(t, testAccessToken, testRefreshToken, &testUser)

	f.manager.Restore(context.Background())

	require.False(t, f.manager.IsAuthenticated())
	require.Zero(t, f.store.Len())
	requireInvariant(t, f.manager)
}

func TestRestoreTransientFailureKeepsSession(t *testing.T) {
	f := setupTestFixture(t)
	f.seedStore(t, testAccessToken, testRefreshToken, &testUser)
	f.server.Close() // backend unreachable: flaky network must not log the user out

	f.manager.Restore(context.Background())

	require.True(t, f.manager.IsAuthenticated())
	current := f.manager.Current()
	require.Equal(t, testAccessToken, current.AccessToken)
	require.Equal(t, testUser, *current.User)

	storedAccess, err := f.store.Get(session.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, testAccessToken, storedAccess)
}

func TestLogoutClearsLocalStateWhenServerUnreachable(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	require.NoError(t, f.manager.Login(ctx, testUsername, testPassword))
	f.server.Close()

	require.NoError(t, f.manager.Logout(ctx))
	require.False(t, f.manager.IsAuthenticated())
	require.Zero(t, f.store.Len())
}

func TestCompleteOAuthPopulatesSession(t *testing.T) {
	f := setupTestFixture(t)

	query := url.Values{}
	query.Set("access_token", "A9")
	query.Set("refresh_token", "R9")

	require.NoError(t, f.manager.CompleteOAuth(context.Background(), query))
	require.True(t, f.manager.IsAuthenticated())
	requireInvariant(t, f.manager)

	current := f.manager.Current()
	require.Equal(t, "A9", current.AccessToken)
	require.Equal(t, "R9", current.RefreshToken)
	require.Equal(t, testUser, *current.User)

	storedAccess, err := f.store.Get(session.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "A9", storedAccess)
}

func TestCompleteOAuthMissingTokenFails(t *testing.T) {
	f := setupTestFixture(t)

	err := f.manager.CompleteOAuth(context.Background(), url.Values{})
	require.Error(t, err)
	require.False(t, f.manager.IsAuthenticated())
	requireInvariant(t, f.manager)
}

func TestOAuthAuthorizeURL(t *testing.T) {
	f := setupTestFixture(t)

	authorizeURL := f.manager.OAuthAuthorizeURL("google", "http://localhost:3000/oauth-callback")
	require.Equal(t,
		f.server.URL+"/api/auth/oauth/google/authorize?redirect_uri=http%3A%2F%2Flocalhost%3A3000%2Foauth-callback",
		authorizeURL)
}

func signedToken(t *testing.T, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": expiry.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestEnsureFreshRefreshesNearExpiry(t *testing.T) {
	now := time.Now()
	f := setupTestFixture(t, session.WithNowTime(func() time.Time { return now }))
	f.backend.setLoginToken(signedToken(t, now.Add(10*time.Second)))
	ctx := context.Background()

	require.NoError(t, f.manager.Login(ctx, testUsername, testPassword))
	require.NoError(t, f.manager.EnsureFresh(ctx))
	require.Equal(t, 1, f.backend.refreshCount())
}

func TestEnsureFreshLeavesValidTokenAlone(t *testing.T) {
	now := time.Now()
	f := setupTestFixture(t, session.WithNowTime(func() time.Time { return now }))
	f.backend.setLoginToken(signedToken(t, now.Add(time.Hour)))
	ctx := context.Background()

	require.NoError(t, f.manager.Login(ctx, testUsername, testPassword))
	require.NoError(t, f.manager.EnsureFresh(ctx))
	require.Zero(t, f.backend.refreshCount())
}

func TestEnsureFreshIgnoresOpaqueTokens(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	require.NoError(t, f.manager.Login(ctx, testUsername, testPassword)) // opaque "A1"
	require.NoError(t, f.manager.EnsureFresh(ctx))
	require.Zero(t, f.backend.refreshCount())
}
