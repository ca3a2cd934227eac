package config

import "time"

// SubmitterSettings holds configuration for the backend the queue submits
// batches to.
type SubmitterSettings struct {
	Type           string        `mapstructure:"type" validate:"required"`
	Endpoint       string        `mapstructure:"endpoint"` // http ingest base URL
	APIToken       string        `mapstructure:"api_token"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxElapsedTime time.Duration `mapstructure:"max_elapsed_time"` // in-request retry budget
	ProjectID      string        `mapstructure:"projectID"`        // gcp-pubsub
	Topic          string        `mapstructure:"topic"`            // gcp-pubsub
	URL            string        `mapstructure:"url"`              // rabbitmq
	Exchange       string        `mapstructure:"exchange"`         // rabbitmq
	RoutingKey     string        `mapstructure:"routing_key"`      // rabbitmq
}
