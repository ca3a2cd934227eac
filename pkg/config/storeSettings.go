package config

// StoreSettings holds configuration for the durable key-value store backing
// the feedback queue.
type StoreSettings struct {
	Type       string `mapstructure:"type" validate:"required"`
	Path       string `mapstructure:"path"`       // pebble data directory
	DSN        string `mapstructure:"dsn"`        // postgres
	URI        string `mapstructure:"uri"`        // spanner database path or mongo URI
	Database   string `mapstructure:"database"`   // mongo database name
	Collection string `mapstructure:"collection"` // mongo collection name
}
