package kv

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PostgresStore keeps the queue in a single key/value table for host
// applications that already run Postgres and want the queue visible to every
// process sharing the database.
type PostgresStore struct {
	db *sql.DB // using database/sql
}

func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := p.startSpan(ctx, "Get")
	defer span.End()

	var value []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT value FROM feedback_queue WHERE key=$1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return value, nil
}

func (p *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	ctx, span := p.startSpan(ctx, "Set")
	defer span.End()

	_, err := p.db.ExecContext(ctx,
		`INSERT INTO feedback_queue (key, value, updated_at) VALUES ($1, $2, $3)
         ON CONFLICT (key) DO UPDATE SET value=$2, updated_at=$3`,
		key, value, time.Now())
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (p *PostgresStore) Remove(ctx context.Context, key string) error {
	ctx, span := p.startSpan(ctx, "Remove")
	defer span.End()

	_, err := p.db.ExecContext(ctx,
		`DELETE FROM feedback_queue WHERE key=$1`, key)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (p *PostgresStore) Keys(ctx context.Context) ([]string, error) {
	ctx, span := p.startSpan(ctx, "Keys")
	defer span.End()

	rows, err := p.db.QueryContext(ctx, `SELECT key FROM feedback_queue`)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			span.RecordError(err)
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("keysCount", len(keys)))
	return keys, nil
}

// Reload is a no-op: every operation round-trips to the database.
func (p *PostgresStore) Reload(ctx context.Context) error { return nil }

func (p *PostgresStore) Close(ctx context.Context) error {
	return p.db.Close()
}

func (p *PostgresStore) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	tracer := otel.Tracer("feedback-sync")
	return tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", op),
	))
}
