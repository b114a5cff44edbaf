// Package config provides configuration management for the mailing-list manager.
//
// It utilizes Viper for loading configuration from environment variables, a .env
// file and an optional config.yaml. Command-line flags are applied on top by the
// cmd package.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Roster: full/current/removed/input/output paths, force and removed policy
//   - Server: HTTP server settings (port, API key, summary cache TTL)
//   - Database: run history database (driver, DSN parts)
//   - Storage: S3/MinIO mirror of written roster files
//   - Log: Logging level and format
//
// Environment variables map to nested keys with underscores, for example
// ROSTER_REMOVED_POLICY sets roster.removed_policy.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Roster.Full)
package config
