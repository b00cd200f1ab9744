// Package report describes the outcome of one sync run.
//
// A Report carries the batch summary, the engine's warning counts and every
// package created by the run, identified by derived id and Package URL. It
// renders as JSON or YAML and can be archived to object storage under
// <prefix>/<manager>/<timestamp>.<ext>.
package report
