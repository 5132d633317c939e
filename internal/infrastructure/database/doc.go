// Package database provides SQLite connectivity for the telemetry store.
//
// This package manages:
//   - Database connection setup, file-backed or in-memory
//   - Connection lifecycle management and health checks
//
// The default configuration uses an in-memory database, so recorded
// telemetry lasts for the process lifetime only. Pointing the path at a
// file keeps history across restarts without any other change.
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: database.InMemory, BusyTimeout: 5})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
package database
