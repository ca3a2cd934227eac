package kv

import (
	"context"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
)

const spannerTable = "FeedbackQueue"

// SpannerStore keeps the queue in a Cloud Spanner table:
//
//	CREATE TABLE FeedbackQueue (
//	    QueueKey STRING(MAX) NOT NULL,
//	    Value    BYTES(MAX),
//	) PRIMARY KEY (QueueKey)
type SpannerStore struct {
	client *spanner.Client
}

func (s *SpannerStore) Get(ctx context.Context, key string) ([]byte, error) {
	row, err := s.client.Single().ReadRow(ctx, spannerTable, spanner.Key{key}, []string{"Value"})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var value []byte
	if err := row.Columns(&value); err != nil {
		return nil, err
	}
	return value, nil
}

func (s *SpannerStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.client.Apply(ctx, []*spanner.Mutation{
		spanner.InsertOrUpdate(spannerTable,
			[]string{"QueueKey", "Value"},
			[]interface{}{key, value}),
	})
	return err
}

func (s *SpannerStore) Remove(ctx context.Context, key string) error {
	_, err := s.client.Apply(ctx, []*spanner.Mutation{
		spanner.Delete(spannerTable, spanner.Key{key}),
	})
	return err
}

func (s *SpannerStore) Keys(ctx context.Context) ([]string, error) {
	iter := s.client.Single().Read(ctx, spannerTable, spanner.AllKeys(), []string{"QueueKey"})
	defer iter.Stop()

	var keys []string
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var key string
		if err := row.Columns(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Reload is a no-op: single-use read-only transactions always observe the
// latest committed state.
func (s *SpannerStore) Reload(ctx context.Context) error { return nil }

func (s *SpannerStore) Close(ctx context.Context) error {
	s.client.Close()
	return nil
}
