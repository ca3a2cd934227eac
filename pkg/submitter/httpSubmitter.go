package submitter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/pulsenote/feedback-sync/pkg/config"
	"github.com/pulsenote/feedback-sync/schema"
)

const eventsPath = "/v1/events"

type HTTPSubmitterCreator func(settings *config.SubmitterSettings) (EventSubmitter, error)

var NewHTTPSubmitter HTTPSubmitterCreator = func(settings *config.SubmitterSettings) (EventSubmitter, error) {
	if settings.Endpoint == "" {
		return nil, errors.New("submitter endpoint is required")
	}

	timeout := settings.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxElapsed := settings.MaxElapsedTime
	if maxElapsed <= 0 {
		maxElapsed = 15 * time.Second
	}

	return &httpSubmitter{
		endpoint:   strings.TrimRight(settings.Endpoint, "/"),
		apiToken:   settings.APIToken,
		maxElapsed: maxElapsed,
		client:     &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "feedback-ingest",
		}),
	}, nil
}

type httpSubmitter struct {
	endpoint   string
	apiToken   string
	maxElapsed time.Duration
	client     *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func (h *httpSubmitter) SendEvents(ctx context.Context, events []schema.Event) error {
	tracer := otel.Tracer("feedback-sync")
	ctx, span := tracer.Start(ctx, "SendEvents",
		trace.WithAttributes(
			semconv.HTTPMethodKey.String(http.MethodPost),
			semconv.HTTPURLKey.String(h.endpoint+eventsPath),
			attribute.Int("feedback.batch_size", len(events)),
		),
	)
	defer span.End()

	body, err := encodeBatch(events)
	if err != nil {
		span.RecordError(err)
		return err
	}

	// Bounded in-request retry; the queue itself re-attempts on the next
	// flush trigger, so a batch that exhausts the budget just stays queued.
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = h.maxElapsed

	err = backoff.Retry(func() error {
		_, err := h.breaker.Execute(func() (interface{}, error) {
			return nil, h.post(ctx, body)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		span.RecordError(err)
		return err
	}

	span.SetAttributes(attribute.Int("http.request_content_length", len(body)))
	return nil
}

func (h *httpSubmitter) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint+eventsPath, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiToken != "" {
		req.Header.Set("Api-Token", h.apiToken)
	}

	// Inject the trace context into the request headers
	propagator := otel.GetTextMapPropagator()
	propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		// The backend rejected the batch; retrying the same bytes cannot help.
		return backoff.Permanent(fmt.Errorf("ingest rejected batch: status %d", resp.StatusCode))
	}
	return fmt.Errorf("ingest returned status %d", resp.StatusCode)
}

func (h *httpSubmitter) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
