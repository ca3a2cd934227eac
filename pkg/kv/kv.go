package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("kv: key not found")

// KeyValueStore is the durable string-keyed storage the feedback queue sits
// on. Set must be durable before it returns; Remove is idempotent. Reload
// forces a re-read of durable state on backends that cache, so a flush pass
// observes writes from other processes.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Reload(ctx context.Context) error
	Close(ctx context.Context) error
}
