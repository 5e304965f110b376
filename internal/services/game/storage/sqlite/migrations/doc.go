// Package migrations embeds SQL migration scripts used by SQLite backends.
//
// Content and character stores keep separate schema histories so each can
// live in its own database file.
package migrations
