// Package history persists accepted passages and reading sessions in a
// small SQLite database under the state directory.
//
// The database runs in WAL mode with a busy timeout, and writes retry on
// SQLITE_BUSY so the status and history commands can read while a reader
// session is recording. The schema is versioned; a mismatch is reported
// with ErrSchemaMismatch rather than migrated in place.
package history
