package storage

// Config points at the S3-compatible store that holds staged dumps and reports.
type Config struct {
	// Endpoint is host:port, a scheme prefix is stripped.
	Endpoint  string `mapstructure:"endpoint" default:"localhost:9000"`
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	UseSSL    bool   `mapstructure:"use_ssl" default:"false"`

	// Bucket is used for s3:// inputs without a bucket and for archived reports.
	Bucket string `mapstructure:"bucket" default:"registry"`
	Region string `mapstructure:"region" default:""`

	// TimeoutSeconds bounds dialing, TLS and response headers. Body transfer is unbounded.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
