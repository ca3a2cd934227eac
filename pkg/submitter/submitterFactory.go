package submitter

import (
	"context"
	"fmt"

	"github.com/pulsenote/feedback-sync/pkg/config"
)

// NewSubmitter builds the backend submitter selected by cfg.Type.
func NewSubmitter(ctx context.Context, cfg *config.SubmitterSettings) (EventSubmitter, error) {
	switch cfg.Type {
	case "http":
		return NewHTTPSubmitter(cfg)
	case "gcp-pubsub":
		return NewPubSubSubmitter(ctx, cfg)
	case "rabbitmq":
		return NewRabbitMqSubmitter(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported submitter type: %s", cfg.Type)
	}
}
