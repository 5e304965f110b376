// Package storage defines persistence interfaces for the character builder.
//
// It covers the reference content catalog and character snapshots.
// Implementations (e.g., SQLite) live in subpackages.
//
// Common error types:
//   - ErrNotFound: requested record is missing
//   - ErrAlreadyExists: a create collided with an existing record
package storage
