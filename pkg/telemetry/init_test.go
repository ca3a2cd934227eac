package telemetry

import (
	"testing"

	"github.com/pulsenote/feedback-sync/pkg/config"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
)

func TestInit_Success(t *testing.T) {
	cfg := config.Observability{
		ServiceName: "feedback-sync-test",
		TracingURL:  "localhost:4318", // Mock OTLP endpoint
	}

	shutdown, err := Init(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, shutdown)

	// Ensure the global tracer provider is set
	tp := otel.GetTracerProvider()
	assert.NotNil(t, tp)

	shutdown()
}

func TestInit_InvalidTracingURL(t *testing.T) {
	cfg := config.Observability{
		ServiceName: "feedback-sync-test",
		TracingURL:  "",
	}

	shutdown, err := Init(cfg)
	assert.Error(t, err)
	assert.Nil(t, shutdown)
}

func TestInit_EmptyServiceName(t *testing.T) {
	cfg := config.Observability{
		ServiceName: "",
		TracingURL:  "localhost:4318",
	}

	shutdown, err := Init(cfg)
	assert.Error(t, err)
	assert.Nil(t, shutdown)
}
