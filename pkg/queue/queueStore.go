package queue

import (
	"context"
	"fmt"
	"log"

	"github.com/pulsenote/feedback-sync/pkg/codec"
	"github.com/pulsenote/feedback-sync/pkg/kv"
	"github.com/pulsenote/feedback-sync/schema"
)

// Entry is one stored event together with its parsed key.
type Entry struct {
	Key   Key
	Event schema.Event
}

// Store owns the mapping from composite keys to serialized events on top of
// the durable key-value store.
type Store struct {
	kv kv.KeyValueStore
}

func NewStore(store kv.KeyValueStore) *Store {
	return &Store{kv: store}
}

// Put durably persists the event under a fresh key for the project and
// returns the key string. The write has completed when Put returns.
func (s *Store) Put(ctx context.Context, projectID string, ev schema.Event) (string, error) {
	if !ValidProjectID(projectID) {
		return "", fmt.Errorf("invalid project id %q", projectID)
	}

	key := NewKey(projectID, ev.CreatedAt)

	data, err := codec.Encode(ev)
	if err != nil {
		return "", err
	}
	if err := s.kv.Set(ctx, key.String(), data); err != nil {
		return "", fmt.Errorf("persist event %s: %w", key, err)
	}
	return key.String(), nil
}

// Scan walks every stored key once and returns the decodable entries whose
// parsed key passes keep. Keys that do not match the addressing pattern are
// skipped and left in place. Entries that parse but whose payload fails to
// decode are removed as a side effect; that corruption is local information
// loss, not an error.
func (s *Store) Scan(ctx context.Context, keep func(Key) bool) ([]Entry, error) {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan keys: %w", err)
	}

	var entries []Entry
	for _, raw := range keys {
		key, ok := ParseKey(raw)
		if !ok {
			continue
		}
		if keep != nil && !keep(key) {
			continue
		}

		data, err := s.kv.Get(ctx, raw)
		if err != nil {
			// The key vanished between Keys and Get, or the read failed;
			// either way it is retried on the next pass.
			log.Printf("Failed to read queued event %s: %v", raw, err)
			continue
		}

		ev, err := codec.Decode(data)
		if err != nil {
			log.Printf("Removing corrupt queued event %s: %v", raw, err)
			if err := s.kv.Remove(ctx, raw); err != nil {
				log.Printf("Failed to remove corrupt event %s: %v", raw, err)
			}
			continue
		}

		entries = append(entries, Entry{Key: key, Event: ev})
	}
	return entries, nil
}

// Remove deletes the key. Removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.kv.Remove(ctx, key)
}

// Reload forces the underlying store to re-read durable state so the next
// scan observes writes from other processes.
func (s *Store) Reload(ctx context.Context) error {
	return s.kv.Reload(ctx)
}
