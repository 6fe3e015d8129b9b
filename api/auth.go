package api

import (
	"context"
	"net/http"
	"net/url"
)

// Login exchanges credentials for a token pair and the user's profile.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	var tr TokenResponse
	if err := c.post(ctx, "/api/auth/login", body, &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

// RegisterRequest carries the fields for a new account.
type RegisterRequest struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and returns a token pair like Login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	var tr TokenResponse
	if err := c.post(ctx, "/api/auth/register", req, &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

// Refresh exchanges a refresh token (sent as the bearer credential) for a new
// access token. The refresh token itself is never reissued by this endpoint.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	r := request{method: http.MethodPost, path: "/api/auth/refresh", bearer: refreshToken}
	if err := c.do(ctx, r, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// Logout invalidates the given access token server-side.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	r := request{method: http.MethodPost, path: "/api/auth/logout", bearer: accessToken}
	return c.do(ctx, r, nil)
}

// Me returns the profile of the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// OAuthAuthorizeURL builds the browser redirect URL that starts the OAuth flow
// for a provider. The callback delivers access_token and refresh_token as URL
// query parameters; feed those to the session manager's CompleteOAuth.
func (c *Client) OAuthAuthorizeURL(provider, redirectURI string) string {
	query := url.Values{}
	query.Set("redirect_uri", redirectURI)
	return c.targetURL("/api/auth/oauth/"+url.PathEscape(provider)+"/authorize", query)
}
