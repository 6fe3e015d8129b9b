// Package storefile persists the session record to a single JSON file,
// optionally encrypted at rest with a passphrase-derived key.
package storefile

import (
	"crypto/rand"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"

	"github.com/jrsteele09/go-study-client/session"
)

const (
	filePerm = 0o600
	dirPerm  = 0o700

	saltLength  = 16
	keyLength   = 32
	nonceLength = 24

	// scrypt parameters (interactive profile)
	scryptN = 32768
	scryptR = 8
	scryptP = 1
)

var _ session.Store = (*FileStore)(nil)

// FileStore stores the session key-value record in one file. Every mutation
// rewrites the file atomically (temp file + rename) with 0600 permissions.
type FileStore struct {
	path       string
	passphrase string
	lock       sync.Mutex
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithPassphrase enables at-rest encryption of the session file. The key is
// derived with scrypt and the record sealed with nacl/secretbox.
func WithPassphrase(passphrase string) Option {
	return func(fs *FileStore) {
		fs.passphrase = passphrase
	}
}

// New creates a FileStore at path. The file and its directory are created
// lazily on first write.
func New(path string, options ...Option) *FileStore {
	fs := &FileStore{path: path}
	for _, opt := range options {
		opt(fs)
	}
	return fs
}

func (fs *FileStore) Set(key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	values, err := fs.load()
	if err != nil {
		return err
	}
	values[key] = value
	return fs.save(values)
}

func (fs *FileStore) Get(key string) (string, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	values, err := fs.load()
	if err != nil {
		return "", err
	}
	value, ok := values[key]
	if !ok {
		return "", session.ErrKeyNotFound
	}
	return value, nil
}

func (fs *FileStore) Delete(keys ...string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	values, err := fs.load()
	if err != nil {
		return err
	}
	for _, key := range keys {
		delete(values, key)
	}
	return fs.save(values)
}

func (fs *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore.load] read session file")
	}

	if fs.passphrase != "" {
		raw, err = openSealed(raw, fs.passphrase)
		if err != nil {
			return nil, err
		}
	}

	values := make(map[string]string)
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, errors.Wrap(err, "[FileStore.load] decode session file")
	}
	return values, nil
}

func (fs *FileStore) save(values map[string]string) error {
	raw, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[FileStore.save] encode session record")
	}

	if fs.passphrase != "" {
		raw, err = seal(raw, fs.passphrase)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(fs.path), dirPerm); err != nil {
		return errors.Wrap(err, "[FileStore.save] create session directory")
	}

	tmpPath := fs.path + ".tmp"
	if err := os.WriteFile(tmpPath, raw, filePerm); err != nil {
		return errors.Wrap(err, "[FileStore.save] write session file")
	}
	if err := os.Rename(tmpPath, fs.path); err != nil {
		return errors.Wrap(err, "[FileStore.save] replace session file")
	}
	return nil
}

// envelope is the on-disk format of an encrypted session file.
type envelope struct {
	Salt   []byte `json:"salt"`
	Nonce  []byte `json:"nonce"`
	Sealed []byte `json:"sealed"`
}

func deriveKey(passphrase string, salt []byte) (*[keyLength]byte, error) {
	derived, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return nil, errors.Wrap(err, "[storefile] derive key")
	}
	var key [keyLength]byte
	copy(key[:], derived)
	return &key, nil
}

func seal(plaintext []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "[storefile.seal] generate salt")
	}
	var nonce [nonceLength]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, errors.Wrap(err, "[storefile.seal] generate nonce")
	}

	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}

	sealed := secretbox.Seal(nil, plaintext, &nonce, key)
	return json.Marshal(envelope{Salt: salt, Nonce: nonce[:], Sealed: sealed})
}

func openSealed(raw []byte, passphrase string) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.Wrap(err, "[storefile.open] decode envelope")
	}
	if len(env.Nonce) != nonceLength {
		return nil, errors.New("[storefile.open] malformed nonce")
	}

	key, err := deriveKey(passphrase, env.Salt)
	if err != nil {
		return nil, err
	}

	var nonce [nonceLength]byte
	copy(nonce[:], env.Nonce)

	plaintext, ok := secretbox.Open(nil, env.Sealed, &nonce, key)
	if !ok {
		return nil, errors.New("[storefile.open] wrong passphrase or corrupt session file")
	}
	return plaintext, nil
}
