// Package pipeline runs one sync of a package manager end to end.
//
// A run resolves the manager's types, snapshots its stored state into a
// reconcile cache, streams records from the input, flushes the batch through
// the store ingester and finally reports: run metrics, an optional push to a
// Pushgateway, a local report file and an optional archived copy.
//
// Every repeats runs on a fixed interval until the context ends.
package pipeline
