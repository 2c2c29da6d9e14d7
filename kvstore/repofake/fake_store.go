package kvrepofake

import (
	"context"
	"sort"
	"sync"

	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/kvstore"
)

var _ kvstore.Store = (*FakeStore)(nil)

// FakeStore is an in-memory kvstore.Store. It backs the "memory" store driver
// and the tests.
type FakeStore struct {
	values map[string]string
	lock   sync.RWMutex
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		values: make(map[string]string),
	}
}

func (fs *FakeStore) Get(_ context.Context, key string) (string, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	v, ok := fs.values[key]
	if !ok {
		return "", errors.ErrKeyNotFound
	}
	return v, nil
}

func (fs *FakeStore) Set(_ context.Context, key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.values[key] = value
	return nil
}

func (fs *FakeStore) Delete(_ context.Context, keys ...string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	for _, k := range keys {
		delete(fs.values, k)
	}
	return nil
}

// Keys lists the stored keys in sorted order.
func (fs *FakeStore) Keys() []string {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	keys := make([]string, 0, len(fs.values))
	for k := range fs.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
