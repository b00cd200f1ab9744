// Package store is the persistence side of a reconciliation run.
//
// It reads the cache snapshot for one package manager, resolves lookup
// tables (url types, dependency types, package managers) and writes a
// reconcile.Batch inside a single transaction.
//
// # Write order
//
// The ingest transaction writes, in order:
//
//  1. new URLs (conflicts on (url_type_id, url) are ignored and the stored
//     id is re-read, so a concurrent pipeline that won the race is reused)
//  2. new packages, then readme patches
//  3. new package-URL links, then updated_at touches
//  4. removed dependency edges, then new dependency edges
//  5. one load_history row
//
// Removals precede additions so a dependency whose type changed does not
// collide with the (package_id, dependency_id) unique index.
//
// Transient connection errors retry the whole transaction with exponential
// backoff. Any other error rolls back and is returned as an *IngestError.
package store
