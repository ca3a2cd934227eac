package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/pulsenote/feedback-sync/pkg/config"
	"github.com/pulsenote/feedback-sync/pkg/queue"
	"github.com/pulsenote/feedback-sync/pkg/submitter"
	"github.com/pulsenote/feedback-sync/schema"
)

// SyncEngine decides which queued events are eligible for a project and
// flushes them to the backend.
type SyncEngine struct {
	store     *queue.Store
	submitter submitter.EventSubmitter
	registry  *Registry
	tracer    trace.Tracer
	retention time.Duration
	interval  time.Duration
	flushes   singleflight.Group
}

// NewSyncEngine creates a new instance of SyncEngine.
func NewSyncEngine(store *queue.Store, sub submitter.EventSubmitter, cfg *config.Settings) *SyncEngine {
	retention := cfg.RetentionWindow
	if retention <= 0 {
		retention = 72 * time.Hour
	}
	interval := cfg.FlushInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &SyncEngine{
		store:     store,
		submitter: sub,
		registry:  NewRegistry(),
		tracer:    otel.Tracer("feedback-sync"),
		retention: retention,
		interval:  interval,
	}
}

// Register mounts a project and runs its app-init flush pass. The returned
// error only reports a malformed project id.
func (e *SyncEngine) Register(ctx context.Context, projectID string) error {
	if !queue.ValidProjectID(projectID) {
		return fmt.Errorf("invalid project id %q", projectID)
	}
	e.registry.Register(projectID)
	return e.Flush(ctx, projectID)
}

// Unregister drops one live instance of the project. The project stops being
// flushed by the periodic runner once its last instance unregisters; its
// queued events stay in the store.
func (e *SyncEngine) Unregister(projectID string) {
	e.registry.Unregister(projectID)
}

// Flush runs one scan-filter-submit-prune pass for the project. A second
// flush request while one is in flight for the same project joins the
// running pass instead of starting another, so concurrent triggers produce
// one submission. Submission and store failures are logged and swallowed:
// unacked events simply stay queued for the next trigger. Only a malformed
// project id is an error.
func (e *SyncEngine) Flush(ctx context.Context, projectID string) error {
	if !queue.ValidProjectID(projectID) {
		return fmt.Errorf("invalid project id %q", projectID)
	}
	e.flushes.Do(projectID, func() (interface{}, error) {
		e.flushProject(ctx, projectID)
		return nil, nil
	})
	return nil
}

func (e *SyncEngine) flushProject(ctx context.Context, projectID string) {
	ctx, span := e.tracer.Start(ctx, "FlushProject", trace.WithAttributes(
		attribute.String("feedback.project_id", projectID),
	))
	defer span.End()

	// Re-read durable state so the pass observes cross-process writes.
	if err := e.store.Reload(ctx); err != nil {
		log.Printf("Failed to reload store for %s: %v", projectID, err)
	}

	cutoff := time.Now().Add(-e.retention).Unix()

	entries, err := e.store.Scan(ctx, func(k queue.Key) bool {
		return k.ProjectID == projectID || k.ProjectID == queue.DefaultProjectID
	})
	if err != nil {
		log.Printf("Failed to scan queue for %s: %v", projectID, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	var batchKeys []string
	var events []schema.Event
	for _, entry := range entries {
		if entry.Key.CreatedAt < cutoff {
			// Expired events are deleted without ever being submitted.
			if err := e.store.Remove(ctx, entry.Key.String()); err != nil {
				log.Printf("Failed to remove expired event %s: %v", entry.Key, err)
			}
			continue
		}
		batchKeys = append(batchKeys, entry.Key.String())
		events = append(events, entry.Event)
	}

	span.SetAttributes(attribute.Int("feedback.batch_size", len(events)))

	if len(events) == 0 {
		return
	}

	if err := e.submitter.SendEvents(ctx, events); err != nil {
		// The whole batch stays queued; the next trigger retries it.
		log.Printf("Failed to submit %d events for %s: %v", len(events), projectID, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	// Removal happens only after the backend acknowledged the batch. A crash
	// before this loop finishes means a duplicate send next pass, never loss.
	for _, key := range batchKeys {
		if err := e.store.Remove(ctx, key); err != nil {
			log.Printf("Failed to remove submitted event %s: %v", key, err)
		}
	}
}

// Run flushes every registered project on the configured interval until the
// context is canceled.
func (e *SyncEngine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, projectID := range e.registry.Projects() {
				if err := e.Flush(ctx, projectID); err != nil {
					log.Printf("Failed to flush %s: %v", projectID, err)
				}
			}
		}
	}
}
