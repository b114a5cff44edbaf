// Package server holds the configuration of the read-only HTTP API.
//
// The API exposes the roster summary and the run history; it never runs an
// operation. See cmd/serve.go for the wiring.
package server
