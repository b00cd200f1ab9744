package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum level: debug, info, warn or error.
	Level string `mapstructure:"level" default:"info" validate:"oneof=debug info warn error"`
	// Format is json or console.
	Format string `mapstructure:"format" default:"json" validate:"oneof=json console"`
}
