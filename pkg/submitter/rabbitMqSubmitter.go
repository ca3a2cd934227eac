package submitter

import (
	"context"
	"fmt"
	"log"

	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/pulsenote/feedback-sync/pkg/config"
	"github.com/pulsenote/feedback-sync/schema"
)

type RabbitMqSubmitterCreator func(ctx context.Context, settings *config.SubmitterSettings) (EventSubmitter, error)

var NewRabbitMqSubmitter RabbitMqSubmitterCreator = func(ctx context.Context, settings *config.SubmitterSettings) (EventSubmitter, error) {
	conn, err := amqp.Dial(settings.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	// Set up a channel to handle connection close notifications
	notifyClose := make(chan *amqp.Error)
	conn.NotifyClose(notifyClose)
	go func() {
		for err := range notifyClose {
			log.Printf("RabbitMQ connection closed: %v", err)
		}
	}()

	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	err = ch.ExchangeDeclare(
		settings.Exchange, // name
		"topic",           // type
		true,              // durable
		false,             // auto-deleted
		false,             // internal
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		return nil, err
	}

	return &rabbitMqSubmitter{
		connection: conn,
		channel:    ch,
		exchange:   settings.Exchange,
		routingKey: settings.RoutingKey,
	}, nil
}

type rabbitMqSubmitter struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
}

func (r *rabbitMqSubmitter) SendEvents(ctx context.Context, events []schema.Event) error {
	tracer := otel.Tracer("feedback-sync")
	ctx, span := tracer.Start(ctx, "SendEvents",
		trace.WithAttributes(
			semconv.MessagingSystemKey.String("rabbitmq"),
			semconv.MessagingDestinationKey.String(r.exchange),
			semconv.MessagingRabbitmqRoutingKeyKey.String(r.routingKey),
		),
	)
	defer span.End()

	payload, err := encodeBatch(events)
	if err != nil {
		span.RecordError(err)
		return err
	}

	// Inject the trace context into the message headers
	propagator := otel.GetTextMapPropagator()
	traceHeaders := make(map[string]string)
	propagator.Inject(ctx, propagation.MapCarrier(traceHeaders))

	amqpHeaders := make(amqp.Table)
	for k, v := range traceHeaders {
		amqpHeaders[k] = v
	}
	amqpHeaders["event_count"] = int32(len(events))

	err = r.channel.Publish(
		r.exchange, r.routingKey, false, false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        payload,
			Headers:     amqpHeaders,
		},
	)
	if err != nil {
		span.RecordError(err)
		return err
	}

	span.SetAttributes(
		attribute.Int("messaging.message_payload_size_bytes", len(payload)),
	)

	return nil
}

func (r *rabbitMqSubmitter) Close() error {
	if err := r.channel.Close(); err != nil {
		log.Printf("Failed to close RabbitMQ channel: %v", err)
	}
	return r.connection.Close()
}
