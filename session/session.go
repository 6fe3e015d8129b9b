// Package session owns the client-side login state: the access/refresh token
// pair and the user profile, persisted write-through to a Store and validated
// against the backend on startup.
package session

import (
	"errors"

	"github.com/jrsteele09/go-study-client/api"
)

// Storage keys. The persisted record is exactly these three entries; the user
// profile is stored JSON-serialized.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

var (
	// ErrKeyNotFound is returned by Store.Get for an absent key.
	ErrKeyNotFound = errors.New("session: key not found")

	// ErrNotAuthenticated is returned by operations that need a logged-in session.
	ErrNotAuthenticated = errors.New("session: not authenticated")
)

// Store is durable client-side key-value storage for the session record.
// Implementations must be safe for concurrent use.
type Store interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(keys ...string) error
}

// Session is the in-memory login state. The invariant is all-or-nothing:
// User is non-nil exactly when AccessToken is non-empty.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *api.User
}

// IsAuthenticated reports whether the session represents a logged-in user.
func (s Session) IsAuthenticated() bool {
	return s.User != nil && s.AccessToken != ""
}
