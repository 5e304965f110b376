// Package i18n renders user-facing messages for error codes.
//
// Only the en-US catalog ships; other locales fall back to it.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

// BaseLocale is the locale every lookup falls back to.
const BaseLocale = "en-US"

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

var (
	catalogsMu sync.RWMutex
	catalogs   = map[string]*Catalog{
		BaseLocale: enUSCatalog,
	}
)

// GetCatalog returns the catalog for the given locale.
// Falls back to en-US if the locale is not found.
func GetCatalog(locale string) *Catalog {
	requested := canonicalLocale(locale)
	if c, ok := lookupCatalog(requested); ok {
		return c
	}
	c, _ := lookupCatalog(BaseLocale)
	return c
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template with the given metadata.
// Falls back to the error code itself if no template is found.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		return code
	}

	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}

// RegisterCatalog registers a new catalog for the given locale.
// This is primarily for testing purposes.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[canonicalLocale(locale)] = cat
}

// NewCatalog creates a new catalog with the given locale and messages.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	for key, value := range messages {
		cloned[key] = value
	}
	return &Catalog{
		locale:   locale,
		messages: cloned,
	}
}

// canonicalLocale normalizes BCP 47 spellings ("en_us", "EN-us") so lookups
// are case-insensitive. Unparseable tags are returned trimmed as-is.
func canonicalLocale(locale string) string {
	trimmed := strings.TrimSpace(locale)
	if trimmed == "" {
		return BaseLocale
	}
	tag, err := language.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return trimmed
	}
	return tag.String()
}

func lookupCatalog(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[locale]
	return cat, ok
}
