// Package middleware contains HTTP middleware for the read API.
//
//   - auth: API key validation, with an allow list for health probes.
//   - rayid: a request id stored in the fiber context and echoed in the
//     X-Ray-ID response header, so logs of one request can be correlated.
package middleware
