package storefile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-study-client/session"
	"github.com/jrsteele09/go-study-client/session/storefile"
)

const testPassphrase = "correct horse battery staple"

func TestSetGetDeleteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := storefile.New(path)

	require.NoError(t, store.Set(session.KeyAccessToken, "A1"))
	require.NoError(t, store.Set(session.KeyRefreshToken, "R1"))

	value, err := store.Get(session.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "A1", value)

	require.NoError(t, store.Delete(session.KeyAccessToken, session.KeyRefreshToken))
	_, err = store.Get(session.KeyAccessToken)
	require.ErrorIs(t, err, session.ErrKeyNotFound)
}

func TestMissingKey(t *testing.T) {
	store := storefile.New(filepath.Join(t.TempDir(), "session.json"))

	_, err := store.Get(session.KeyUser)
	require.ErrorIs(t, err, session.ErrKeyNotFound)
}

func TestSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	require.NoError(t, storefile.New(path).Set(session.KeyAccessToken, "A1"))

	value, err := storefile.New(path).Get(session.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "A1", value)
}

func TestCreatesDirectoryAndRestrictsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "session.json")
	store := storefile.New(path)

	require.NoError(t, store.Set(session.KeyAccessToken, "A1"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestEncryptedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := storefile.New(path, storefile.WithPassphrase(testPassphrase))

	require.NoError(t, store.Set(session.KeyAccessToken, "A1"))

	// The token must not appear in the clear on disk.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "A1")

	value, err := storefile.New(path, storefile.WithPassphrase(testPassphrase)).Get(session.KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "A1", value)
}

func TestWrongPassphraseFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, storefile.New(path, storefile.WithPassphrase(testPassphrase)).Set(session.KeyAccessToken, "A1"))

	_, err := storefile.New(path, storefile.WithPassphrase("not the passphrase")).Get(session.KeyAccessToken)
	require.Error(t, err)
}
