package submitter

import (
	"context"
	"strconv"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/pulsenote/feedback-sync/pkg/config"
	"github.com/pulsenote/feedback-sync/schema"
)

// PubSubSubmitterCreator defines a function type for creating Pub/Sub submitters.
type PubSubSubmitterCreator func(ctx context.Context, settings *config.SubmitterSettings, opts ...option.ClientOption) (EventSubmitter, error)

// NewPubSubSubmitter is the default implementation of PubSubSubmitterCreator.
var NewPubSubSubmitter PubSubSubmitterCreator = func(ctx context.Context, settings *config.SubmitterSettings, opts ...option.ClientOption) (EventSubmitter, error) {
	client, err := pubsub.NewClient(ctx, settings.ProjectID, opts...)
	if err != nil {
		return nil, err
	}
	return &pubSubSubmitter{client: client, topic: settings.Topic}, nil
}

type pubSubSubmitter struct {
	client *pubsub.Client
	topic  string
}

func (p *pubSubSubmitter) SendEvents(ctx context.Context, events []schema.Event) error {
	tracer := otel.Tracer("feedback-sync")
	ctx, span := tracer.Start(ctx, "SendEvents",
		trace.WithAttributes(
			semconv.MessagingSystemKey.String("pubsub"),
			semconv.MessagingDestinationKindKey.String("topic"),
			semconv.MessagingDestinationKey.String(p.topic),
		),
	)
	defer span.End()

	payload, err := encodeBatch(events)
	if err != nil {
		span.RecordError(err)
		return err
	}

	// Inject the trace context into the message attributes
	propagator := otel.GetTextMapPropagator()
	attributes := map[string]string{
		"event_count": strconv.Itoa(len(events)),
	}
	propagator.Inject(ctx, propagation.MapCarrier(attributes))

	message := &pubsub.Message{
		Data:       payload,
		Attributes: attributes,
	}

	// The whole batch is one message, so the server ack is the batch ack.
	res := p.client.Topic(p.topic).Publish(ctx, message)
	if _, err := res.Get(ctx); err != nil {
		span.RecordError(err)
		return err
	}

	span.SetAttributes(
		attribute.Int("messaging.message_payload_size_bytes", len(payload)),
	)

	return nil
}

func (p *pubSubSubmitter) Close() error {
	return p.client.Close()
}
