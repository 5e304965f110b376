// Package sqlite implements the storage contracts on SQLite.
//
// Content and character data live in separate database files, each with its
// own embedded migration history. Entities and snapshots are stored as JSON
// payloads next to the columns used for lookup and ordering; only this package
// translates domain values into rows.
package sqlite
