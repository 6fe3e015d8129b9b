// Package storefake provides an in-memory session store for tests and for
// running without persistence.
package storefake

import (
	"sync"

	"github.com/jrsteele09/go-study-client/session"
)

var _ session.Store = (*FakeStore)(nil)

type FakeStore struct {
	values map[string]string
	lock   sync.RWMutex
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		values: make(map[string]string),
	}
}

func (fs *FakeStore) Set(key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.values[key] = value
	return nil
}

func (fs *FakeStore) Get(key string) (string, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	value, ok := fs.values[key]
	if !ok {
		return "", session.ErrKeyNotFound
	}
	return value, nil
}

func (fs *FakeStore) Delete(keys ...string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	for _, key := range keys {
		delete(fs.values, key)
	}
	return nil
}

// Len reports the number of stored entries (test helper).
func (fs *FakeStore) Len() int {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return len(fs.values)
}
