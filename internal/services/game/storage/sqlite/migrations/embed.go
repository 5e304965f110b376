package migrations

import "embed"

// ContentFS holds the reference catalog schema.
//
//go:embed content/*.sql
var ContentFS embed.FS

// CharactersFS holds the character snapshot schema.
//
//go:embed characters/*.sql
var CharactersFS embed.FS
