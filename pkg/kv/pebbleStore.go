package kv

import (
	"context"
	"errors"

	"github.com/cockroachdb/pebble"
)

// PebbleStore persists queue entries in an embedded Pebble database inside
// the host application's private storage area. Writes sync the WAL so a
// completed Set survives a crash.
type PebbleStore struct {
	db *pebble.DB
}

func NewPebbleStore(path string) (*PebbleStore, error) {
	if path == "" {
		return nil, errors.New("pebble store path is required")
	}
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleStore{db: db}, nil
}

func (p *PebbleStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, closer, err := p.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), value...), nil
}

func (p *PebbleStore) Set(ctx context.Context, key string, value []byte) error {
	return p.db.Set([]byte(key), value, pebble.Sync)
}

func (p *PebbleStore) Remove(ctx context.Context, key string) error {
	return p.db.Delete([]byte(key), pebble.Sync)
}

func (p *PebbleStore) Keys(ctx context.Context) ([]string, error) {
	iter, err := p.db.NewIter(nil)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var keys []string
	for iter.First(); iter.Valid(); iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return keys, nil
}

// Reload is a no-op: the database is owned by this process and every read
// already observes the latest committed write.
func (p *PebbleStore) Reload(ctx context.Context) error { return nil }

func (p *PebbleStore) Close(ctx context.Context) error {
	return p.db.Close()
}
