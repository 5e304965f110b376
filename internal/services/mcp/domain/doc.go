// Package domain translates MCP tool calls into character builder operations.
//
// Each tool has an input type, a result type and a handler bound to a
// CharacterService. Rule rejections come back as tool errors carrying the
// rendered en-US message and the machine-readable code.
package domain
