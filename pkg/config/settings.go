package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Settings struct {
	Store           StoreSettings     `mapstructure:"store"`
	Submitter       SubmitterSettings `mapstructure:"submitter"`
	Projects        []string          `mapstructure:"projects"`
	FlushInterval   time.Duration     `mapstructure:"flush_interval"`
	RetentionWindow time.Duration     `mapstructure:"retention_window"`
	Observability   Observability     `mapstructure:"observability"` // Observability settings
}

func (c *Settings) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

func LoadFromFile(filePath string) (*Settings, error) {

	env := getEnvWithDefaultLookup("ENVIRONMENT", "development")

	cfg := &Settings{}
	viper.SetConfigType("yaml") // Set the config type to YAML
	viper.SetConfigName("feedback-sync")
	viper.AddConfigPath(filePath) // path to config
	viper.AddConfigPath(".")      // current directory

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("No config file found or read error: %v (will rely on env)", err)
	}

	err := mergeConfig(filePath, "feedback-sync."+env)
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Error merging dev config: %s\n", err)
			os.Exit(1)
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := cfg.LoadFromEnv(); err != nil {
		log.Fatalf("Failed to load from env: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg, nil
}

func (c *Settings) LoadFromEnv() error {
	viper.AutomaticEnv()
	viper.SetEnvPrefix("FEEDBACK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // env vars like FEEDBACK_STORE_TYPE

	setDefaults()

	// Bind environment variables explicitly to ensure they map correctly
	viper.BindEnv("store.type")
	viper.BindEnv("store.path")
	viper.BindEnv("store.dsn")
	viper.BindEnv("store.uri")
	viper.BindEnv("store.database")
	viper.BindEnv("store.collection")
	viper.BindEnv("submitter.type")
	viper.BindEnv("submitter.endpoint")
	viper.BindEnv("submitter.api_token")
	viper.BindEnv("submitter.projectID")
	viper.BindEnv("submitter.topic")
	viper.BindEnv("submitter.url")
	viper.BindEnv("submitter.exchange")
	viper.BindEnv("flush_interval")
	viper.BindEnv("retention_window")
	viper.BindEnv("observability.service_name")
	viper.BindEnv("observability.tracing_url")
	viper.BindEnv("observability.metrics_url")

	if err := viper.Unmarshal(&c); err != nil {
		return err
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("flush_interval", 30*time.Second)
	// Events older than this are deleted unsubmitted on the next flush pass.
	viper.SetDefault("retention_window", 72*time.Hour)
}

func mergeConfig(path string, name string) error {
	viper.SetConfigName(name)
	viper.AddConfigPath(path)
	err := viper.MergeInConfig()
	if err != nil {
		return err
	}
	return nil
}

func getEnvWithDefaultLookup(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}
