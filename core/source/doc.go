// Package source streams parsed upstream records into the reconcile engine.
//
// Parsers stage their output as JSON lines, one record per line, either on
// local disk or in object storage. Open resolves a location to a reader and
// Decoder turns that reader into a reconcile.Source, skipping lines that do
// not decode or validate.
package source
