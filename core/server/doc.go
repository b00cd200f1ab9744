// Package server holds the HTTP server configuration of the read API.
//
// The API is started by the serve command. It exposes stored packages, the
// load history and run metrics, protected by an optional API key.
package server
