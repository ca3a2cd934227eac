package kv

import (
	"context"
	"database/sql"
	"fmt"

	"cloud.google.com/go/spanner"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pulsenote/feedback-sync/pkg/config"

	_ "github.com/lib/pq" // PostgreSQL driver
)

var sqlOpen = sql.Open

var NewSpannerStoreFactory = func(client *spanner.Client) KeyValueStore {
	return &SpannerStore{client: client}
}

// NewKeyValueStore builds the durable store selected by cfg.Type.
func NewKeyValueStore(ctx context.Context, cfg config.StoreSettings) (KeyValueStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "pebble":
		return NewPebbleStore(cfg.Path)
	case "postgres":
		db, err := sqlOpen("postgres", cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &PostgresStore{db: db}, nil
	case "spanner":
		client, err := spanner.NewClient(ctx, cfg.URI)
		if err != nil {
			return nil, err
		}
		return NewSpannerStoreFactory(client), nil
	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
		if err != nil {
			return nil, err
		}
		return NewMongoStore(client, cfg.Database, cfg.Collection), nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}
