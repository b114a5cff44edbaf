// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key) for every endpoint. Disabled when no
//     key is configured.
//   - rayid: assigns a request id (RayID), stores it in the context locals and
//     echoes it in the X-Ray-ID response header for tracing.
//
// Both are registered globally by the serve command, rayid first.
package middleware
