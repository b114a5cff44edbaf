// Package roster is the application layer around the reconciler.
//
// The Service runs one operation per call and takes care of everything the
// reconciler itself does not do:
//
//   - tags the run with an id used in logs and in the run history
//   - records the run in the history database when one is configured
//   - copies every written file to object storage when mirroring is enabled
//
// Failures of the two side tasks never fail the run; they are appended to
// Result.Errors so the caller can report them.
//
// # Summary
//
// Summary loads the roster files and returns their sizes. Results are cached
// for a TTL, and concurrent requests share a single load. A run that writes
// files drops the cached summary.
//
// # HTTP
//
//	GET /roster
package roster
