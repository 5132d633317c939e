// Package telemetry stores ingested sensor readings.
//
// Readings arrive through the API ingestion endpoint and from the
// simulation driver. They are appended to a SQLite table and served
// back as a bounded recent window, newest first. With the default
// in-memory database the history lasts for the process lifetime only.
//
// Key Types:
//   - Store: append and query operations over one SQLite connection
//   - Reading: a single sensor observation
//
// Thread Safety:
//   - Store methods are safe for concurrent use; the underlying
//     connection pool serialises access.
package telemetry
