// Package api is a typed client for the AI Study Companion REST backend.
// Every backend operation is a method on Client; successful responses decode
// into the types in types.go and every non-2xx response becomes an *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const defaultTimeout = 60 * time.Second

// TokenSource supplies the current access token for authenticated requests and
// refreshes it when the backend rejects it. The session manager implements this.
type TokenSource interface {
	// AccessToken returns the current access token, or "" when anonymous.
	AccessToken() string
	// RefreshAccessToken obtains a new access token using the stored refresh
	// token. Calling it with no refresh token must be a no-op.
	RefreshAccessToken(ctx context.Context) error
}

// Client issues requests against a single backend base URL. The base URL is
// fixed at construction; the client holds no other mutable state.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (primarily for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.log = logger
	}
}

// WithTokenSource sets the token source consulted for bearer attachment.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// New creates a Client for the backend at baseURL (scheme://host[:port], no
// trailing slash required).
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// SetTokenSource wires the token source after construction. The session manager
// and the client reference each other, so one of them has to be attached late.
// Call during startup wiring, before the client serves requests.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

const (
	contentTypeJSON = "application/json"

	authPathPrefix = "/api/auth/"
)

// request is a single prepared call. The payload is buffered so the request
// can be replayed once after a token refresh.
type request struct {
	method      string
	path        string
	query       url.Values
	contentType string
	payload     []byte
	bearer      string // explicit bearer; when empty the token source is consulted
}

func (c *Client) targetURL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) send(ctx context.Context, r request) (int, []byte, error) {
	var body io.Reader
	if r.payload != nil {
		body = bytes.NewReader(r.payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.targetURL(r.path, r.query), body)
	if err != nil {
		return 0, nil, errors.Wrap(err, "[Client.send] build request")
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	bearer := r.bearer
	if bearer == "" && c.tokens != nil {
		bearer = c.tokens.AccessToken()
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "[Client.send] %s %s", r.method, r.path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "[Client.send] read response %s %s", r.method, r.path)
	}

	c.log.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("api request")

	return resp.StatusCode, respBody, nil
}

// do sends the request, refreshing the access token and replaying once when a
// resource endpoint answers 401. Auth endpoints never participate in the
// refresh-retry cycle: a 401 from login or refresh is an authoritative answer.
func (c *Client) do(ctx context.Context, r request, out any) error {
	status, body, err := c.send(ctx, r)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && c.canRetry(r) {
		if refreshErr := c.tokens.RefreshAccessToken(ctx); refreshErr == nil {
			status, body, err = c.send(ctx, r)
			if err != nil {
				return err
			}
		}
	}

	if status < 200 || status > 299 {
		return newError(status, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "[Client.do] decode response %s %s", r.method, r.path)
	}
	return nil
}

func (c *Client) canRetry(r request) bool {
	return c.tokens != nil && r.bearer == "" && !strings.HasPrefix(r.path, authPathPrefix)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	payload, contentType, err := encodeJSON(in)
	if err != nil {
		return err
	}
	return c.do(ctx, request{method: http.MethodPost, path: path, contentType: contentType, payload: payload}, out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	payload, contentType, err := encodeJSON(in)
	if err != nil {
		return err
	}
	return c.do(ctx, request{method: http.MethodPut, path: path, contentType: contentType, payload: payload}, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: path}, nil)
}

func encodeJSON(in any) ([]byte, string, error) {
	if in == nil {
		return nil, "", nil
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, "", errors.Wrap(err, "[Client] encode request body")
	}
	return payload, contentTypeJSON, nil
}
