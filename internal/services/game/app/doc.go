// Package app hosts the character builder around the pure rules engine in
// domain/systems/swade.
//
// Writes to one character are serialized, and only snapshots the engine
// accepts are persisted.
package app
