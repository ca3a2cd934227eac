package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/pulsenote/feedback-sync/pkg/config"
	"github.com/pulsenote/feedback-sync/pkg/engine"
	"github.com/pulsenote/feedback-sync/pkg/kv"
	"github.com/pulsenote/feedback-sync/pkg/queue"
	"github.com/pulsenote/feedback-sync/pkg/submitter"
	"github.com/pulsenote/feedback-sync/pkg/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration from file or environment
	cfg, err := config.LoadFromFile("./cmd/feedback-sidecar")
	if err != nil {
		log.Fatal("Error loading configuration: ", err)
	}

	// Validate the configuration
	err = cfg.Validate()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	// Initialize telemetry (tracing)
	shutdownTelemetry, err := telemetry.Init(cfg.Observability)
	if err != nil {
		log.Fatal("Failed to initialize telemetry: ", err)
	}
	defer shutdownTelemetry() // Ensure telemetry is properly shut down on exit

	// Open the durable key-value store backing the queue
	kvStore, err := kv.NewKeyValueStore(ctx, cfg.Store)
	if err != nil {
		log.Fatal("Failed to open key-value store: ", err)
	}
	defer kvStore.Close(context.Background())

	// Initialize the backend submitter
	sub, err := submitter.NewSubmitter(ctx, &cfg.Submitter)
	if err != nil {
		log.Fatal("Failed to initialize submitter: ", err)
	}
	defer sub.Close()

	// Create the sync engine and mount the configured projects; each mount
	// runs its startup flush pass.
	eng := engine.NewSyncEngine(queue.NewStore(kvStore), sub, cfg)
	for _, projectID := range cfg.Projects {
		if err := eng.Register(ctx, projectID); err != nil {
			log.Fatal("Failed to register project: ", err)
		}
	}

	// Run the periodic flush loop (blocks until the context is canceled)
	eng.Run(ctx)
}
