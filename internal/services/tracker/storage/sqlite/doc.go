// Package sqlite provides the SQLite-backed item store.
//
// The database runs in WAL mode so readers do not block the single writer,
// and every statement binds its arguments.
package sqlite
