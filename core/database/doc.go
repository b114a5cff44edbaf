// Package database handles the connection to the run history database.
//
// It provides a wrapper around GORM to configure either a local SQLite file
// (the default, no server needed) or a MySQL database shared by several
// operators.
//
// # Connect
//
// Connect opens the configured driver, applies connection timeouts and pings the
// database once so configuration mistakes surface immediately.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
