// Package history records every roster operation in a database.
//
// Each run stores the operation, its timing, the set sizes before and after and
// the error text when it failed. The run id is the same id the roster service
// attaches to its log lines.
//
// # Storage
//
// Runs live in the roster_runs table, created by Migrate. Any gorm dialect works;
// the application uses SQLite by default and MySQL when configured.
//
// # HTTP
//
//	GET /history?limit=20
//
// returns the most recent runs, newest first.
package history
