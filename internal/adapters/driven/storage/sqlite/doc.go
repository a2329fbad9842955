// Package sqlite provides a SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. It currently implements:
//
//   - LocalStorage: the key/value store holding the persisted identity and
//     the identity provider session
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.docchat/data/docchat.db
//
// # Thread Safety
//
// All operations are safe for concurrent use, including from several
// processes. The store runs SQLite in WAL mode with a busy timeout.
package sqlite
