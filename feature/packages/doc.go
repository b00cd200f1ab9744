// Package packages serves the synced registry over HTTP.
//
// Routes:
//
//	GET /packages/:manager/+     package, its URLs and its dependencies
//	GET /runs?limit=n             most recent load_history rows
package packages
