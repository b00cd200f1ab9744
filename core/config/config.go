package config

import (
	"fmt"
	"reflect"
	"strings"

	"registry-sync/core/database"
	"registry-sync/core/logger"
	"registry-sync/core/server"
	"registry-sync/core/storage"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Pipeline holds configuration for sync runs.
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	// Metrics holds configuration for run metrics.
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// PipelineConfig tunes the reconcile run.
type PipelineConfig struct {
	// DependencyPriority ranks dependency types, lowest wins: "runtime=1,build=2".
	DependencyPriority string `mapstructure:"dependency_priority" default:"runtime=1,build=2,test=3,development=3,recommended=4,optional=5" validate:"required"`
	// BatchSize bounds rows per INSERT statement.
	BatchSize int `mapstructure:"batch_size" default:"1000" validate:"gt=0"`
	// TestLimit stops after this many records when positive.
	TestLimit int `mapstructure:"test_limit" default:"0" validate:"gte=0"`
	// MaxRetries bounds ingest retries on transient database errors.
	MaxRetries int `mapstructure:"max_retries" default:"3" validate:"gte=0"`
	// ReportPrefix is the object prefix archived reports are stored under.
	ReportPrefix string `mapstructure:"report_prefix" default:"reports"`
}

// MetricsConfig configures run metrics.
type MetricsConfig struct {
	// PushgatewayURL receives run metrics after each ingest. Empty disables pushing.
	PushgatewayURL string `mapstructure:"pushgateway_url" default:"" validate:"omitempty,url"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. DATABASE_HOST -> database.host)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks every section against its validate tags.
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := ParsePriority(c.Pipeline.DependencyPriority); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
