// Package config provides configuration management for the registry sync.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file, with defaults taken from struct tags and values
// checked by validator.
//
// # Configuration Structure
//
//   - Server: HTTP port and API key of the read API
//   - Database: driver (mysql, postgres, sqlite) and connection details
//   - Storage: S3/MinIO credentials and the bucket holding dumps and reports
//   - Log: logging level and format
//   - Pipeline: dependency priority, batch size, retries, report prefix
//   - Metrics: Pushgateway address
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	priority, _ := config.ParsePriority(cfg.Pipeline.DependencyPriority)
package config
