package submitter

import (
	"context"
	"encoding/json"

	"github.com/pulsenote/feedback-sync/schema"
)

// EventSubmitter delivers a batch of queued events to the backend. A batch
// is all-or-nothing: a nil return means every event was accepted and may be
// removed from the queue; any error means the whole batch stays queued.
type EventSubmitter interface {
	// SendEvents submits the batch in one request.
	SendEvents(ctx context.Context, events []schema.Event) error
	// Close cleans up any resources (connections).
	Close() error
}

type batchRequest struct {
	Events []schema.Event `json:"events"`
}

func encodeBatch(events []schema.Event) ([]byte, error) {
	return json.Marshal(batchRequest{Events: events})
}
