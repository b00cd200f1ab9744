// Package logger builds the zap loggers used by the sync commands and the API.
//
// Level "debug" selects zap's development preset; anything else the production
// preset. Format picks the encoder: "json" for log shippers, "console" for a
// terminal. Timestamps are ISO8601 in both.
//
// Two helpers derive child loggers:
//
//	l := logger.ForManager(log, "debian") // adds manager=debian to every entry of a run
//	l = logger.WithRayID(log, c)          // adds the request ray_id inside a Fiber handler
package logger
