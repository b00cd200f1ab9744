// Package reconcile computes the differential change-set that brings the
// registry store in line with a freshly parsed upstream snapshot.
//
// A run has four phases:
//
//  1. Init: a Cache is built once from the store (see BuildCache). It is a
//     read-only baseline; nothing in this package mutates it.
//  2. Per-package loop: for each incoming Record the Engine runs the Package
//     Reconciler, the URL Resolver, the Package-URL Reconciler and the
//     Dependency Reconciler, in that order.
//  3. Flush: every accumulated change is handed to an Ingester in a single
//     Batch. There is no partial flush between packages.
//  4. Terminal.
//
// Run-scoped state (URLs minted so far, packages minted so far) lives in the
// Engine and is observed by later packages of the same run. Packages are
// reconciled sequentially.
//
// # Dependency priority
//
// Upstream data may declare the same target under several relationship kinds.
// The store keeps at most one edge per (package, dependency) pair, so the kinds
// are collapsed to the one with the lowest priority rank before diffing:
//
//	runtime(1) > build(2) > test(3)
//
// A type change on an existing edge is reported as one removal plus one
// addition, never as an update.
//
// # Usage
//
//	cache, err := reconcile.BuildCache(ctx, loader, pm.ID, profile.PackageKey)
//	engine, err := reconcile.NewEngine(cache, reconcile.Options{
//	    Profile:          profile,
//	    Types:            types,
//	    PackageManagerID: pm.ID,
//	    Logger:           log,
//	})
//	batch, err := engine.Run(ctx, decoder, ingester)
package reconcile
