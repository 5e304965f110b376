// Package service wires protocol transport to the character builder.
//
// It is the transport adapter layer: the package knows how to run MCP over
// stdio or HTTP and delegates rule meaning to the handlers in the MCP domain
// package.
package service
