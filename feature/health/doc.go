// Package health serves liveness and metrics routes.
//
//	GET /heartbeat  200 when the database answers, 503 otherwise
//	GET /metrics    Prometheus exposition of the run metrics
package health
