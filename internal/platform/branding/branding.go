// Package branding holds the product name shown to protocol clients.
package branding

// AppName is the product name.
const AppName = "SWADE Character Creator"
