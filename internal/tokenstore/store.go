// Package tokenstore persists partner credential tokens as key-value pairs.
package tokenstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for keys that were never set or have expired.
var ErrNotFound = errors.New("tokenstore: key not found")

// Store is a string key-value store.
type Store interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
}

// Scoped confines keys to one browser session.
func Scoped(store Store, sessionID string) Store {
	return &scopedStore{store: store, prefix: "session:" + sessionID + ":"}
}

type scopedStore struct {
	store  Store
	prefix string
}

func (s *scopedStore) Set(ctx context.Context, key, value string) error {
	return s.store.Set(ctx, s.prefix+key, value)
}

func (s *scopedStore) Get(ctx context.Context, key string) (string, error) {
	return s.store.Get(ctx, s.prefix+key)
}
